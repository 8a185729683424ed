// Package server arma las dependencias (store, cache, tokens, providers)
// y devuelve el handler HTTP listo para servir.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/socialjohn/internal/cache"
	"github.com/dropDatabas3/socialjohn/internal/config"
	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	authctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/health"
	oauth2ctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/oauth2"
	userctrl "github.com/dropDatabas3/socialjohn/internal/http/controllers/user"
	"github.com/dropDatabas3/socialjohn/internal/http/cookies"
	mw "github.com/dropDatabas3/socialjohn/internal/http/middlewares"
	"github.com/dropDatabas3/socialjohn/internal/http/router"
	authsvc "github.com/dropDatabas3/socialjohn/internal/http/services/auth"
	"github.com/dropDatabas3/socialjohn/internal/http/services/social"
	jwtx "github.com/dropDatabas3/socialjohn/internal/jwt"
	"github.com/dropDatabas3/socialjohn/internal/metrics"
	oauthclient "github.com/dropDatabas3/socialjohn/internal/oauth/client"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
	"github.com/dropDatabas3/socialjohn/internal/rate"
	"github.com/dropDatabas3/socialjohn/internal/security/password"
	"github.com/dropDatabas3/socialjohn/internal/store/cached"
	"github.com/dropDatabas3/socialjohn/internal/store/memory"
	"github.com/dropDatabas3/socialjohn/internal/store/pg"
	"github.com/dropDatabas3/socialjohn/migrations"
)

// App es el resultado del wiring.
type App struct {
	Handler   http.Handler
	Tokens    *jwtx.TokenService
	Users     repository.UserRepository
	Metrics   *metrics.Metrics
	Providers *oauthclient.Registry

	closers []func() error
}

// Close libera store y cache en orden inverso al de apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build construye el App desde la config ya validada.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.FromWithFields(ctx, logger.Layer("server"), logger.Component("wiring"))
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	m, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.Metrics = m

	users, checks, err := openStore(ctx, cfg, app)
	if err != nil {
		return nil, err
	}

	cc, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		DefaultTTL: cfg.Cache.TTL,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if cc != nil {
		app.closers = append(app.closers, cc.Close)
		checks = append(checks, healthctrl.Check{Name: "cache", Ping: cc.Ping})
	}
	app.Users = cached.Wrap(users, cc, cfg.Cache.TTL)

	app.Tokens = jwtx.NewTokenService(cfg.Auth.TokenSecret, cfg.TokenTTL())

	app.Providers, err = buildProviders(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("oauth2 providers configured", logger.Any("providers", app.Providers.Providers()))

	auth := authsvc.NewService(authsvc.Deps{
		Users:   app.Users,
		Hasher:  password.New(cfg.Auth.BcryptCost),
		Tokens:  app.Tokens,
		Metrics: m,
	})

	codec := cookies.NewCodec(cfg.CookieSecretBytes(), cfg.Auth.CookieDomain, cfg.SecureCookies(), cfg.Auth.CookieSameSite)
	handshake := social.NewHandshake(social.HandshakeDeps{
		Requests:               cookies.NewAuthorizationRequestRepository(codec),
		Providers:              lookup(app.Providers),
		Reconciler:             social.NewReconciler(app.Users, cfg.TrustedProviders()),
		Tokens:                 app.Tokens,
		AuthorizedRedirectURIs: cfg.OAuth2.AuthorizedRedirectURIs,
		Metrics:                m,
	})

	var authLimit mw.Middleware
	if cfg.RateLimit.Enabled {
		authLimit = mw.WithRateLimit(newLimiter(cfg, app), cfg.RateLimit.TrustProxy)
	}

	app.Handler = router.New(router.Deps{
		Auth:          authctrl.NewAuthController(auth, cfg.Server.BaseURL),
		User:          userctrl.NewUserController(auth),
		OAuth2:        oauth2ctrl.NewOAuth2Controller(handshake),
		Health:        healthctrl.NewHealthController(cfg.App.Version, checks...),
		Bearer:        mw.WithBearerToken(app.Tokens, auth, m),
		AuthRateLimit: authLimit,
		Metrics:       m,
		CORSOrigins:   cfg.Server.CORSAllowedOrigins,
	})
	return app, nil
}

// NewHTTPServer aplica direcciones y timeouts de la config.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func openStore(ctx context.Context, cfg *config.Config, app *App) (repository.UserRepository, []healthctrl.Check, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		s, err := pg.Open(ctx, pg.Config{DSN: cfg.Storage.DSN, MaxConns: cfg.Storage.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, func() error { s.Close(); return nil })
		if cfg.Storage.AutoMigrate {
			res, err := pg.NewMigrator(migrations.PostgresFS, migrations.PostgresDir).Run(ctx, s.Pool())
			if err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.From(ctx).Info("migrations applied", logger.Any("applied", res.Applied))
		}
		if err := app.Metrics.Register(metrics.NewPoolCollector(s.Pool())); err != nil {
			return nil, nil, fmt.Errorf("metrics: pool collector: %w", err)
		}
		return s, []healthctrl.Check{{Name: "postgres", Ping: s.Ping}}, nil
	case "memory", "":
		return memory.NewUsers(), nil, nil
	default:
		return nil, nil, fmt.Errorf("storage: unsupported driver %q", cfg.Storage.Driver)
	}
}

// newLimiter comparte el contador vía redis si el cache es redis.
func newLimiter(cfg *config.Config, app *App) rate.Limiter {
	if !strings.EqualFold(strings.TrimSpace(cfg.Cache.Kind), "redis") {
		return rate.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	client := rdb.NewClient(&rdb.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	app.closers = append(app.closers, client.Close)
	prefix := "rl:"
	if p := cfg.Cache.Redis.Prefix; p != "" {
		prefix = p + ":rl:"
	}
	return rate.NewRedisLimiter(client, prefix, cfg.RateLimit.Max, cfg.RateLimit.Window)
}

func buildProviders(cfg *config.Config) (*oauthclient.Registry, error) {
	reg := oauthclient.NewRegistry()
	for _, p := range repository.OAuth2Providers {
		pc := cfg.ProviderConfigs()[p]
		if !pc.Enabled() {
			continue
		}
		c, err := oauthclient.New(p, oauthclient.Settings{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURI,
			Scopes:       pc.Scopes,
			AuthURL:      pc.AuthURI,
			TokenURL:     pc.TokenURI,
			UserInfoURL:  pc.UserInfoURI,
		}, nil)
		if err != nil {
			return nil, err
		}
		reg.Register(c)
	}
	return reg, nil
}

// lookup adapta el Registry a social.ProviderLookup sin filtrar un
// *Client nil como interfaz no-nil.
func lookup(reg *oauthclient.Registry) social.ProviderLookup {
	return func(p repository.AuthProvider) (social.Provider, bool) {
		c, ok := reg.Lookup(p)
		if !ok {
			return nil, false
		}
		return c, true
	}
}
