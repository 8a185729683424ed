package helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
)

func TestToAppError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{repository.NewBadRequest("Email address already in use."), http.StatusBadRequest, "Email address already in use."},
		{fmt.Errorf("load: %w", repository.NewResourceNotFound("User", "id", int64(3))), http.StatusNotFound, "User not found with id : '3'"},
		{repository.ErrConflict, http.StatusConflict, httperrors.ErrConflict.Message},
		{httperrors.ErrUnauthorized, http.StatusUnauthorized, httperrors.ErrUnauthorized.Message},
		{fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, httperrors.ErrInternalServerError.Message},
	}
	for _, tc := range cases {
		got := ToAppError(tc.err)
		require.Equal(t, tc.status, got.HTTPStatus, tc.err.Error())
		require.Equal(t, tc.message, got.Message)
	}
}

func TestReadJSON(t *testing.T) {
	var v struct{ Email string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	require.True(t, ReadJSON(httptest.NewRecorder(), r, &v))
	require.Equal(t, "a@b.c", v.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	require.False(t, ReadJSON(rec, r, &v))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_JSON")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	require.False(t, ReadJSON(rec, r, &v))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBaseURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://api.local:8080/auth/signup", nil)
	require.Equal(t, "https://cfg.example", BaseURL(r, "https://cfg.example/"))
	require.Equal(t, "http://api.local:8080", BaseURL(r, ""))
	r.Header.Set("X-Forwarded-Proto", "https")
	require.Equal(t, "https://api.local:8080", BaseURL(r, ""))
}
