package social

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/oauth/userinfo"
)

// ErrAuthentication agrupa los fallos del login OAuth2: todo error que
// haga match con errors.Is termina en redirect con ?error=.
var ErrAuthentication = userinfo.ErrAuthentication

// RetryableConflictMessage se muestra cuando dos primeros logins con el
// mismo email compiten y el store rechaza la segunda inserción.
const RetryableConflictMessage = "Account is being created by another sign-in, please try again."

const genericFailureMessage = "Authentication failed, please try again."

// OAuth2ProcessingError es un fallo del handshake con mensaje apto para
// el usuario. Err, si está, queda para logs.
type OAuth2ProcessingError struct {
	Message string
	Err     error
}

func newProcessingError(err error, format string, args ...any) *OAuth2ProcessingError {
	return &OAuth2ProcessingError{Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *OAuth2ProcessingError) Error() string { return e.Message }

func (e *OAuth2ProcessingError) Unwrap() error { return e.Err }

func (e *OAuth2ProcessingError) Is(target error) bool { return target == ErrAuthentication }

// ProviderMismatchError: el email ya está registrado con otro provider.
type ProviderMismatchError struct {
	Existing repository.AuthProvider
}

func (e *ProviderMismatchError) Error() string {
	return fmt.Sprintf("Looks like you're signed up with %s account. Please use your %s account to login.", e.Existing, e.Existing)
}

func (e *ProviderMismatchError) Is(target error) bool { return target == ErrAuthentication }

// FailureMessage traduce un error del callback al texto del ?error=.
// Errores internos no filtran detalle.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case repository.IsConflict(err):
		return RetryableConflictMessage
	case errors.Is(err, ErrAuthentication):
		return err.Error()
	default:
		return genericFailureMessage
	}
}
