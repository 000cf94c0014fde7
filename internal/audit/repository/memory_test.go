package repository

import (
	"context"
	"testing"

	"business-nexus/backend/internal/audit/domain"
)

func TestMemoryRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for _, a := range []domain.AuditLog{
		{ID: "1", UserID: "e1", Action: domain.ActionLogin},
		{ID: "2", UserID: "i1", Action: domain.ActionLogin},
		{ID: "3", UserID: "e1", Action: domain.ActionProfileUpdate},
		{ID: "4", UserID: "e1", Action: domain.ActionLogout},
	} {
		a := a
		if err := repo.Create(ctx, &a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.ListByUser(ctx, "e1", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	var ids []string
	for _, a := range all {
		ids = append(ids, a.ID)
	}
	if len(ids) != 3 || ids[0] != "4" || ids[2] != "1" {
		t.Errorf("ids = %v, want [4 3 1]", ids)
	}

	limited, _ := repo.ListByUser(ctx, "e1", 2)
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
	none, _ := repo.ListByUser(ctx, "nobody", 0)
	if len(none) != 0 {
		t.Errorf("unknown user len = %d, want 0", len(none))
	}
}
