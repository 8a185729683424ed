// Package router arma el árbol de rutas chi y la cadena global de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/health"
	oauth2ctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/oauth2"
	userctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/user"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
	mw "github.com/dropDatabas3/socialjohn/internal/http/middlewares"
	"github.com/dropDatabas3/socialjohn/internal/metrics"
)

// Deps contiene controllers y middlewares ya construidos.
type Deps struct {
	Auth   *authctrl.AuthController
	User   *userctrl.UserController
	OAuth2 *oauth2ctrl.OAuth2Controller
	Health *healthctrl.HealthController

	// Bearer es el filtro de token (mw.WithBearerToken). nil = sin auth.
	Bearer mw.Middleware
	// AuthRateLimit se aplica solo a /auth/*. nil = sin límite.
	AuthRateLimit mw.Middleware
	Metrics       *metrics.Metrics
	CORSOrigins   []string
}

// New devuelve el handler raíz.
// Orden global: recover -> request id -> logging -> metrics -> security headers -> CORS -> bearer.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)
	if d.Bearer != nil {
		r.Use(d.Bearer)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	if d.Auth != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Use(mw.WithNoStore())
			if d.AuthRateLimit != nil {
				r.Use(d.AuthRateLimit)
			}
			r.Post("/login", d.Auth.Login)
			r.Post("/signup", d.Auth.Signup)
		})
	}

	if d.OAuth2 != nil {
		r.Route("/oauth2", func(r chi.Router) {
			r.Get("/authorize/{provider}", d.OAuth2.Authorize)
			r.Get("/callback/{provider}", d.OAuth2.Callback)
		})
	}

	if d.User != nil {
		r.Method(http.MethodGet, "/user/me", mw.ChainFunc(d.User.Me, mw.RequireUser(), mw.WithNoStore()))
	}
	return r
}
