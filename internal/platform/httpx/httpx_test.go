package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"business-nexus/backend/internal/platform/apperr"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=entrepreneur investor"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"email":"a@x.com","password":"pw","role":"investor"}`, ""},
		{"empty", ``, "request body is required"},
		{"malformed", `{"email":`, "malformed JSON body"},
		{"unknown field", `{"email":"a@x.com","password":"pw","role":"investor","admin":true}`, "malformed JSON body"},
		{"missing password", `{"email":"a@x.com","role":"investor"}`, "password is required"},
		{"bad email", `{"email":"nope","password":"pw","role":"investor"}`, "email must be a valid email"},
		{"bad role", `{"email":"a@x.com","password":"pw","role":"admin"}`, "role must be one of: entrepreneur investor"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst loginBody
			err := Decode(r, &dst)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				return
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if err.Error() != tc.wantErr {
				t.Errorf("message = %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("x"), http.StatusBadRequest},
		{apperr.Authentication("x"), http.StatusUnauthorized},
		{apperr.Forbidden("x"), http.StatusForbidden},
		{apperr.NotFound("x"), http.StatusNotFound},
		{apperr.InvalidState("x"), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := zap.New(core)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/x", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, r, log, apperr.NotFound("user not found"))
	var body ErrorBody
	json.NewDecoder(rec.Body).Decode(&body)
	if rec.Code != http.StatusNotFound || body.Error != "user not found" {
		t.Errorf("domain error: %d %+v", rec.Code, body)
	}
	if logs.Len() != 0 {
		t.Error("domain errors must not be logged at error level")
	}

	rec = httptest.NewRecorder()
	WriteError(rec, r, log, errors.New("pq: connection refused"))
	body = ErrorBody{}
	json.NewDecoder(rec.Body).Decode(&body)
	if rec.Code != http.StatusInternalServerError || strings.Contains(body.Error, "pq") {
		t.Errorf("internal error leaked: %d %+v", rec.Code, body)
	}
	if logs.Len() != 1 {
		t.Errorf("internal error should be logged once, got %d", logs.Len())
	}
}

func TestWantsHTML(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard/investor", nil)
	if WantsHTML(r) {
		t.Error("no Accept header should not want HTML")
	}
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	if !WantsHTML(r) {
		t.Error("browser Accept header should want HTML")
	}
}
