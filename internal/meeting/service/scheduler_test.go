package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	collabdomain "business-nexus/backend/internal/collaboration/domain"
	collabrepo "business-nexus/backend/internal/collaboration/repository"
	collabservice "business-nexus/backend/internal/collaboration/service"
	"business-nexus/backend/internal/kv"
	"business-nexus/backend/internal/meeting/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

var confirmedAt = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

func newScheduler(store kv.Store) *Scheduler {
	s := NewScheduler(store, userrepo.NewMemoryRepository(userrepo.SeedUsers()), nil)
	s.now = func() time.Time { return confirmedAt }
	return s
}

func TestScheduler_RequestAccepted(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	s := newScheduler(store)
	req := &collabdomain.Request{ID: "r1", InvestorID: "i1", EntrepreneurID: "e1", Message: "coffee?", Status: collabdomain.StatusAccepted}

	if err := s.RequestAccepted(ctx, req); err != nil {
		t.Fatalf("RequestAccepted: %v", err)
	}
	if err := s.RequestAccepted(ctx, req); err != nil {
		t.Fatalf("RequestAccepted again: %v", err)
	}
	got, err := s.ListForUser(ctx, "e1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	want := []domain.ConfirmedMeeting{{
		ID: "r1", InvestorID: "i1", EntrepreneurID: "e1",
		Name: "Michael Rodriguez", Email: "michael@vcinnovate.com",
		Message: "coffee?", Status: domain.StatusConfirmed, ConfirmedAt: confirmedAt,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListForUser mismatch (-want +got):\n%s", diff)
	}
	if _, ok, _ := store.Get(ctx, MeetingsKey); !ok {
		t.Error("meetings must be persisted under " + MeetingsKey)
	}
}

func TestScheduler_ListForUserFiltersParties(t *testing.T) {
	ctx := context.Background()
	s := newScheduler(kv.NewMemoryStore())
	s.RequestAccepted(ctx, &collabdomain.Request{ID: "a", InvestorID: "i1", EntrepreneurID: "e1"})
	s.RequestAccepted(ctx, &collabdomain.Request{ID: "b", InvestorID: "i2", EntrepreneurID: "e2"})

	for user, want := range map[string][]string{"i1": {"a"}, "e2": {"b"}, "i3": {}, "": {}} {
		got, err := s.ListForUser(ctx, user)
		if err != nil {
			t.Fatalf("ListForUser(%q): %v", user, err)
		}
		ids := []string{}
		for _, m := range got {
			ids = append(ids, m.ID)
		}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("ListForUser(%q) mismatch (-want +got):\n%s", user, diff)
		}
	}
}

func TestScheduler_CorruptRecordIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	store.Set(ctx, MeetingsKey, []byte("{not json"))
	s := newScheduler(store)
	if err := s.RequestAccepted(ctx, &collabdomain.Request{ID: "r1", InvestorID: "i1", EntrepreneurID: "e1"}); err != nil {
		t.Fatalf("RequestAccepted: %v", err)
	}
	got, _ := s.ListForUser(ctx, "i1")
	if len(got) != 1 {
		t.Errorf("got %d meetings, want 1", len(got))
	}
}

type failingStore struct{ kv.Store }

func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestScheduler_StoreFailure(t *testing.T) {
	s := newScheduler(failingStore{kv.NewMemoryStore()})
	if err := s.RequestAccepted(context.Background(), &collabdomain.Request{ID: "r1"}); err == nil {
		t.Error("expected store failure to be returned")
	}
}

func TestScheduler_WiredAsAcceptanceListener(t *testing.T) {
	ctx := context.Background()
	users := userrepo.NewMemoryRepository(userrepo.SeedUsers())
	s := newScheduler(kv.NewMemoryStore())
	store := collabservice.NewStore(collabrepo.NewMemoryRepository(collabrepo.SeedRequests()), users, collabservice.WithListener(s))

	if _, err := store.UpdateStatus(ctx, "req1", collabdomain.StatusAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "req3", collabdomain.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := s.ListForUser(ctx, "i1")
	if len(got) != 1 || got[0].ID != "req1" {
		t.Errorf("meetings for i1 = %+v", got)
	}
	if got, _ := s.ListForUser(ctx, "i3"); len(got) != 0 {
		t.Errorf("rejected request produced meetings: %+v", got)
	}
}
