// Package httpx holds the JSON plumbing shared by the HTTP handlers: request decoding
// and validation, responses, and the mapping from domain errors to status codes.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"business-nexus/backend/internal/platform/apperr"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

const msgInternal = "something went wrong, please try again"

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// Decode reads a JSON body into dst and validates its `validate` tags. Any failure is
// an apperr validation error naming the offending field.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("malformed JSON body")
	}
	return Validate(dst)
}

// Validate checks the `validate` tags of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Validation(describe(fieldErrs[0]))
	}
	return apperr.Validation(err.Error())
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	}
	return field + " is invalid"
}

// StatusFor maps a domain error kind to an HTTP status. Anything else is 500.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrAuthentication:
		return http.StatusUnauthorized
	case apperr.ErrForbidden:
		return http.StatusForbidden
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrInvalidState:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody. Non-domain errors are logged and answered with a
// generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		}
		WriteJSON(w, code, ErrorBody{Error: msgInternal})
		return
	}
	WriteJSON(w, code, ErrorBody{Error: apperr.Message(err, msgInternal)})
}

// WantsHTML reports whether the caller is a browser navigation rather than an API client.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
