package middlewares

import "context"

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxPrincipalKey guarda el usuario autenticado por el filtro bearer
	ctxPrincipalKey ctxKey = "principal"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// RoleUser es la única authority que se asigna hoy.
const RoleUser = "ROLE_USER"

// Principal es el usuario autenticado del request. Vive solo en el
// contexto del request que lo estableció.
type Principal struct {
	UserID      int64
	Email       string
	Name        string
	Authorities []string
}

// =================================================================================
// CONTEXT SETTERS
// =================================================================================

// WithPrincipal inyecta el principal en el contexto
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS
// =================================================================================

// GetPrincipal obtiene el principal del contexto.
// Retorna nil si el request no está autenticado.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(ctxPrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

// GetUserID obtiene el user ID del principal (0 si no hay).
func GetUserID(ctx context.Context) int64 {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return 0
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}
