package helpers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
)

// ToAppError mapea errores de dominio al sobre HTTP. Lo que no reconoce
// es 500 sin detalle.
func ToAppError(err error) *httperrors.AppError {
	var (
		appErr   *httperrors.AppError
		badReq   *repository.BadRequestError
		notFound *repository.ResourceNotFoundError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &badReq):
		return httperrors.ErrBadRequest.WithMessage(badReq.Message).WithCause(err)
	case errors.As(err, &notFound):
		return httperrors.ErrNotFound.WithMessage(notFound.Error()).WithCause(err)
	case repository.IsNotFound(err):
		return httperrors.ErrNotFound.WithCause(err)
	case repository.IsConflict(err):
		return httperrors.ErrConflict.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// WriteError escribe err ya mapeado.
func WriteError(w http.ResponseWriter, err error) {
	httperrors.WriteError(w, ToAppError(err))
}

// BaseURL devuelve base si está configurada; si no, la arma del request
// (respetando X-Forwarded-Proto).
func BaseURL(r *http.Request, base string) string {
	if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
		return base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}
