package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"business-nexus/backend/internal/collaboration/domain"
)

func TestMemoryRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(nil)
	req := &domain.Request{ID: "r1", InvestorID: "i1", EntrepreneurID: "e1", Message: "hi", Status: domain.StatusPending, CreatedAt: time.Unix(100, 0).UTC()}
	if err := r.Create(ctx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := r.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(req, got); diff != "" {
		t.Errorf("GetByID mismatch (-want +got):\n%s", diff)
	}
	got.Status = domain.StatusAccepted
	again, _ := r.GetByID(ctx, "r1")
	if again.Status != domain.StatusPending {
		t.Error("returned records must be copies")
	}
	missing, err := r.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestMemoryRepository_UpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(SeedRequests())
	ok, err := r.UpdateStatus(ctx, "req1", domain.StatusPending, domain.StatusAccepted)
	if err != nil || !ok {
		t.Fatalf("UpdateStatus = %v, %v", ok, err)
	}
	ok, _ = r.UpdateStatus(ctx, "req1", domain.StatusPending, domain.StatusRejected)
	if ok {
		t.Error("stale from-status must not update")
	}
	got, _ := r.GetByID(ctx, "req1")
	if got.Status != domain.StatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
	if ok, _ := r.UpdateStatus(ctx, "missing", domain.StatusPending, domain.StatusAccepted); ok {
		t.Error("missing id must not update")
	}
}

func TestMemoryRepository_QueriesPartitionAll(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(SeedRequests())
	all, _ := r.List(ctx)

	seen := map[string]int{}
	for _, inv := range []string{"i1", "i2", "i3"} {
		rs, _ := r.ListByInvestor(ctx, inv)
		for _, req := range rs {
			if req.InvestorID != inv {
				t.Errorf("ListByInvestor(%s) returned %s", inv, req.ID)
			}
			seen[req.ID]++
		}
	}
	if len(seen) != len(all) {
		t.Errorf("investor queries cover %d of %d requests", len(seen), len(all))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("request %s listed %d times", id, n)
		}
	}

	e1, _ := r.ListByEntrepreneur(ctx, "e1")
	var ids []string
	for _, req := range e1 {
		ids = append(ids, req.ID)
	}
	if diff := cmp.Diff([]string{"req1", "req2"}, ids); diff != "" {
		t.Errorf("ListByEntrepreneur(e1) mismatch (-want +got):\n%s", diff)
	}
}
