package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"business-nexus/backend/internal/devotp"
	"business-nexus/backend/internal/platform/httpx"
)

func TestServeGet_Success(t *testing.T) {
	store := devotp.NewMemoryStore(nil)
	store.Put(context.Background(), "challenge-1", "123456", time.Now().Add(time.Minute))
	w := httptest.NewRecorder()
	NewHandler(store, nil).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/challenge-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", w.Code, w.Body)
	}
	var resp otpResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OTP != "123456" {
		t.Errorf("otp = %q, want %q", resp.OTP, "123456")
	}
	if resp.Note != devOTPNote {
		t.Errorf("note = %q, want %q", resp.Note, devOTPNote)
	}
}

func TestServeGet_NotFound(t *testing.T) {
	store := devotp.NewMemoryStore(nil)
	store.Put(context.Background(), "expired", "123456", time.Now().Add(-time.Minute))
	for _, id := range []string{"nonexistent", "expired"} {
		w := httptest.NewRecorder()
		NewHandler(store, nil).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+id, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: code = %d, want 404", id, w.Code)
		}
		var body httpx.ErrorBody
		json.NewDecoder(w.Body).Decode(&body)
		if body.Error != "OTP not found or expired" {
			t.Errorf("%s: error = %q", id, body.Error)
		}
	}
}
