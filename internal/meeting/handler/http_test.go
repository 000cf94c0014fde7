package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	collabdomain "business-nexus/backend/internal/collaboration/domain"
	"business-nexus/backend/internal/kv"
	"business-nexus/backend/internal/meeting/service"
	"business-nexus/backend/internal/notify"
	"business-nexus/backend/internal/security"
	sessionservice "business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

func TestServeList(t *testing.T) {
	ctx := context.Background()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	users := userrepo.NewMemoryRepository(userrepo.SeedUsers())
	store := kv.NewMemoryStore()
	sched := service.NewScheduler(store, users, nil)
	for _, req := range []*collabdomain.Request{
		{ID: "r1", InvestorID: "i1", EntrepreneurID: "e1", Status: collabdomain.StatusAccepted},
		{ID: "r2", InvestorID: "i2", EntrepreneurID: "e2", Status: collabdomain.StatusAccepted},
	} {
		if err := sched.RequestAccepted(ctx, req); err != nil {
			t.Fatalf("RequestAccepted: %v", err)
		}
	}

	m := sessionservice.NewManager(users, kv.NewMemoryStore(), notify.Nop{}, tokens)
	if err := m.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	routes := NewHandler(sched, nil).Routes()
	get := func(withManager bool) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if withManager {
			r = r.WithContext(sessionservice.NewContext(r.Context(), m))
		}
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, r)
		return w
	}

	if w := get(false); w.Code != http.StatusUnauthorized {
		t.Errorf("no session code = %d", w.Code)
	}
	if w := get(true); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d", w.Code)
	}

	if _, err := m.Login(ctx, "jennifer@impactvc.org", "x", userdomain.RoleInvestor); err != nil {
		t.Fatalf("Login: %v", err)
	}
	w := get(true)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp listResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Meetings) != 1 || resp.Meetings[0].ID != "r2" || resp.Meetings[0].Email != "jennifer@impactvc.org" {
		t.Errorf("meetings = %+v", resp.Meetings)
	}
}
