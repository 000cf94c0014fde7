package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"business-nexus/backend/internal/mfa/domain"
)

func TestMemoryRepository_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	c := &domain.Challenge{ID: "ch-1", UserID: "e1", ClientID: "client-1", CodeHash: "h", ExpiresAt: time.Now().UTC().Add(time.Minute)}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, "ch-1")
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	if got.UserID != "e1" || got.ClientID != "client-1" {
		t.Errorf("GetByID = %+v", got)
	}
	if err := repo.Delete(ctx, "ch-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.GetByID(ctx, "ch-1"); got != nil {
		t.Error("GetByID after Delete should be nil")
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestMemoryRepository_KeepsExpiredRows(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = repo.Create(ctx, &domain.Challenge{ID: "ch-1", ExpiresAt: past})
	got, err := repo.GetByID(ctx, "ch-1")
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v; expiry belongs to the caller's clock", got, err)
	}
	if !got.Expired(time.Now()) {
		t.Error("challenge should report expired against the current time")
	}
}

func TestMemoryRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Create(ctx, &domain.Challenge{ID: "ch-1", ExpiresAt: time.Now().Add(time.Minute)})
	for want := 1; want <= 3; want++ {
		n, err := repo.IncrementAttempts(ctx, "ch-1")
		if err != nil || n != want {
			t.Fatalf("IncrementAttempts = %d, %v; want %d", n, err, want)
		}
	}
	got, _ := repo.GetByID(ctx, "ch-1")
	if got.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", got.Attempts)
	}
	if n, err := repo.IncrementAttempts(ctx, "missing"); n != 0 || err != nil {
		t.Errorf("IncrementAttempts(missing) = %d, %v", n, err)
	}
}

func TestMemoryRepository_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Create(ctx, &domain.Challenge{ID: "ch-1", UserID: "e1", ExpiresAt: time.Now().UTC().Add(time.Minute)})
	got, _ := repo.GetByID(ctx, "ch-1")
	got.UserID = "tampered"
	again, _ := repo.GetByID(ctx, "ch-1")
	if again.UserID != "e1" {
		t.Errorf("UserID = %q, want e1", again.UserID)
	}
}

func TestMemoryRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	exp := time.Now().UTC().Add(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = repo.Create(ctx, &domain.Challenge{ID: id, ExpiresAt: exp})
			_, _ = repo.GetByID(ctx, id)
			_ = repo.Delete(ctx, id)
		}(i)
	}
	wg.Wait()
}
