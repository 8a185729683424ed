package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/http/errors"
	"github.com/dropDatabas3/socialjohn/internal/metrics"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

const bearerPrefix = "Bearer "

// TokenValidator valida el bearer token y extrae el user ID.
type TokenValidator interface {
	Validate(token string) bool
	ExtractUserID(token string) (int64, error)
}

// UserLoader carga el usuario del token.
type UserLoader interface {
	LoadUserByID(ctx context.Context, id int64) (*repository.User, error)
}

// WithBearerToken establece el principal del request a partir del header
// Authorization. Nunca rechaza: sin token, token inválido o usuario que
// no carga, el request sigue sin principal y decide el handler.
func WithBearerToken(tokens TokenValidator, users UserLoader, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				m.BearerAuth("absent")
				next.ServeHTTP(w, r)
				return
			}
			if !tokens.Validate(token) {
				m.BearerAuth("invalid")
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			p, err := loadPrincipal(ctx, tokens, users, token)
			if err != nil {
				logger.From(ctx).Warn("could not set user authentication",
					logger.Layer("middleware"),
					logger.Component("bearer"),
					logger.Err(err),
				)
				m.BearerAuth("load_failed")
				next.ServeHTTP(w, r)
				return
			}

			m.BearerAuth("authenticated")
			ctx = WithPrincipal(ctx, p)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(p.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser corta con 401 si el filtro bearer no dejó principal.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPrincipal(r.Context()) == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(bearerPrefix):])
	return token, token != ""
}

func loadPrincipal(ctx context.Context, tokens TokenValidator, users UserLoader, token string) (p *Principal, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p, err = nil, fmt.Errorf("panic loading principal: %v", rec)
		}
	}()

	id, err := tokens.ExtractUserID(token)
	if err != nil {
		return nil, err
	}
	u, err := users.LoadUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Principal{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Authorities: []string{RoleUser},
	}, nil
}
