package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrBadRequest.WithMessage("Email address already in use."))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "BAD_REQUEST" || body["message"] != "Email address already in use." {
		t.Fatalf("body = %v", body)
	}
	if ErrBadRequest.Message == "Email address already in use." {
		t.Fatal("WithMessage mutated the base error")
	}
}

func TestWriteError_GenericIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWriteError_UnauthorizedSetsChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrUnauthorized)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("status=%d challenge=%q", rec.Code, rec.Header().Get("WWW-Authenticate"))
	}
}

func TestFromError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", ErrNotFound.WithDetail("user 1"))
	if got := FromError(wrapped); got.HTTPStatus != http.StatusNotFound || got.Detail != "user 1" {
		t.Fatalf("got %+v", got)
	}
}
