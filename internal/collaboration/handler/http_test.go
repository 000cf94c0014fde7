package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"business-nexus/backend/internal/collaboration/domain"
	"business-nexus/backend/internal/collaboration/repository"
	"business-nexus/backend/internal/collaboration/service"
	"business-nexus/backend/internal/kv"
	mfarepo "business-nexus/backend/internal/mfa/repository"
	"business-nexus/backend/internal/notify"
	"business-nexus/backend/internal/security"
	sessionservice "business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

type fixture struct {
	manager *sessionservice.Manager
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	users := userrepo.NewMemoryRepository(userrepo.SeedUsers())
	m := sessionservice.NewManager(users, kv.NewMemoryStore(), notify.Nop{}, tokens,
		sessionservice.WithSecondFactor(mfarepo.NewMemoryRepository(), 0, true))
	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	store := service.NewStore(repository.NewMemoryRepository(repository.SeedRequests()), users)
	routes := NewHandler(store, zap.NewNop()).Routes()
	return &fixture{
		manager: m,
		router: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			routes.ServeHTTP(w, r.WithContext(sessionservice.NewContext(r.Context(), m)))
		}),
	}
}

// signIn logs in and, when verify is set, completes the second factor.
func (f *fixture) signIn(t *testing.T, email string, role userdomain.Role, verify bool) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.manager.Login(ctx, email, "x", role); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !verify {
		return
	}
	ch, err := f.manager.BeginSecondFactor(ctx)
	if err != nil {
		t.Fatalf("BeginSecondFactor: %v", err)
	}
	if err := f.manager.VerifySecondFactor(ctx, ch.ID, ch.Code); err != nil {
		t.Fatalf("VerifySecondFactor: %v", err)
	}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func decodeRequest(t *testing.T, w *httptest.ResponseRecorder) domain.Request {
	t.Helper()
	var req domain.Request
	if err := json.NewDecoder(w.Body).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return req
}

func listIDs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp listResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := []string{}
	for _, r := range resp.Requests {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestServeCreate(t *testing.T) {
	f := newFixture(t)
	body := `{"entrepreneurId":"e2","message":"Let's talk"}`
	if w := f.do(http.MethodPost, "/", body); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d", w.Code)
	}

	f.signIn(t, "michael@vcinnovate.com", userdomain.RoleInvestor, false)
	if w := f.do(http.MethodPost, "/", body); w.Code != http.StatusUnauthorized {
		t.Errorf("unverified code = %d", w.Code)
	}

	f.signIn(t, "michael@vcinnovate.com", userdomain.RoleInvestor, true)
	w := f.do(http.MethodPost, "/", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create code = %d body %s", w.Code, w.Body)
	}
	got := decodeRequest(t, w)
	if got.InvestorID != "i1" || got.EntrepreneurID != "e2" || got.Status != domain.StatusPending || got.Message != "Let's talk" {
		t.Errorf("created = %+v", got)
	}

	if w := f.do(http.MethodPost, "/", `{"message":"hi"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing entrepreneur code = %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/", `{"entrepreneurId":"i2"}`); w.Code != http.StatusBadRequest {
		t.Errorf("investor as recipient code = %d", w.Code)
	}
}

func TestServeCreate_EntrepreneurForbidden(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "sarah@techwave.io", userdomain.RoleEntrepreneur, true)
	if w := f.do(http.MethodPost, "/", `{"entrepreneurId":"e2"}`); w.Code != http.StatusForbidden {
		t.Errorf("code = %d", w.Code)
	}
}

func TestServeUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "sarah@techwave.io", userdomain.RoleEntrepreneur, true)

	w := f.do(http.MethodPatch, "/req1", `{"status":"accepted"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("accept code = %d body %s", w.Code, w.Body)
	}
	if got := decodeRequest(t, w); got.Status != domain.StatusAccepted {
		t.Errorf("status = %q", got.Status)
	}

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"already resolved", "/req1", `{"status":"rejected"}`, http.StatusConflict},
		{"not addressed", "/req3", `{"status":"accepted"}`, http.StatusForbidden},
		{"unknown status", "/req1", `{"status":"maybe"}`, http.StatusBadRequest},
		{"missing request", "/nope", `{"status":"accepted"}`, http.StatusNotFound},
		{"empty body", "/req1", ``, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if w := f.do(http.MethodPatch, tc.path, tc.body); w.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tc.wantCode)
			}
		})
	}
}

func TestServeUpdateStatus_InvestorForbidden(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "michael@vcinnovate.com", userdomain.RoleInvestor, true)
	if w := f.do(http.MethodPatch, "/req1", `{"status":"accepted"}`); w.Code != http.StatusForbidden {
		t.Errorf("code = %d", w.Code)
	}
}

func TestServeList(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d", w.Code)
	}
	f.signIn(t, "sarah@techwave.io", userdomain.RoleEntrepreneur, false)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"req1", "req2"}},
		{"?entrepreneurId=e3", []string{"req3"}},
		{"?investorId=i2", []string{"req2", "req4"}},
		{"?investorId=i2&entrepreneurId=e1", []string{"req2"}},
		{"?entrepreneurId=e4", []string{}},
	}
	for _, tc := range tests {
		w := f.do(http.MethodGet, "/"+tc.query, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET /%s code = %d", tc.query, w.Code)
			continue
		}
		if diff := cmp.Diff(tc.want, listIDs(t, w)); diff != "" {
			t.Errorf("GET /%s mismatch (-want +got):\n%s", tc.query, diff)
		}
	}
}

func TestServeList_DefaultsToInvestorsOwn(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "jennifer@impactvc.org", userdomain.RoleInvestor, false)
	w := f.do(http.MethodGet, "/", "")
	if diff := cmp.Diff([]string{"req2", "req4"}, listIDs(t, w)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestServeGet(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/req1", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d", w.Code)
	}
	f.signIn(t, "maya@healthpulse.com", userdomain.RoleEntrepreneur, false)
	w := f.do(http.MethodGet, "/req3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if got := decodeRequest(t, w); got.InvestorID != "i3" {
		t.Errorf("request = %+v", got)
	}
	if w := f.do(http.MethodGet, "/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing code = %d", w.Code)
	}
}
