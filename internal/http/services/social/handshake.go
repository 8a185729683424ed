// Package social orquesta el login OAuth2: arranque del handshake,
// callback, reconciliación de la cuenta y redirect final al frontend.
//
// El estado entre /authorize y /callback viaja en cookies firmadas; no
// hay sesión del lado servidor.
package social

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/http/cookies"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
	"github.com/dropDatabas3/socialjohn/internal/metrics"
	"github.com/dropDatabas3/socialjohn/internal/oauth/userinfo"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// Provider es una registración OAuth2 (ver internal/oauth/client).
type Provider interface {
	CallbackURL() string
	Scopes() []string
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	FetchAttributes(ctx context.Context, tok *oauth2.Token) (map[string]any, error)
}

// ProviderLookup resuelve la registración configurada de un provider.
type ProviderLookup func(repository.AuthProvider) (Provider, bool)

// TokenIssuer emite el bearer token del usuario autenticado.
type TokenIssuer interface {
	IssueFor(u *repository.User) (string, error)
}

// HandshakeDeps contiene las dependencias del handshake.
type HandshakeDeps struct {
	Requests   *cookies.AuthorizationRequestRepository
	Providers  ProviderLookup
	Reconciler *Reconciler
	Tokens     TokenIssuer
	// AuthorizedRedirectURIs son los orígenes a los que se puede volver.
	AuthorizedRedirectURIs []string
	Metrics                *metrics.Metrics // nil = sin métricas
	Now                    func() time.Time
}

// Handshake implementa GET /oauth2/authorize/{provider} y /oauth2/callback/{provider}.
type Handshake struct {
	deps HandshakeDeps
}

func NewHandshake(deps HandshakeDeps) *Handshake {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handshake{deps: deps}
}

// Start guarda el request pendiente (state + PKCE) y redirige al provider.
func (h *Handshake) Start(w http.ResponseWriter, r *http.Request, provider string) {
	log := logger.FromWithFields(r.Context(),
		logger.Layer("service"),
		logger.Component("social.handshake"),
		logger.Op("Start"),
		logger.Provider(provider),
	)

	p, client, err := h.resolve(provider)
	if err != nil {
		log.Warn("provider not available", logger.Err(err))
		h.fail(w, r, provider, err)
		return
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	req := &cookies.AuthorizationRequest{
		Provider:     string(p),
		State:        state,
		CodeVerifier: verifier,
		CallbackURL:  client.CallbackURL(),
		Scopes:       client.Scopes(),
		IssuedAt:     h.deps.Now().Unix(),
	}
	if err := h.deps.Requests.Save(w, r, req); err != nil {
		log.Warn("saving authorization request failed", logger.Err(err))
		if errors.Is(err, cookies.ErrCookieTooLarge) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("redirect_uri too long"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, client.AuthCodeURL(state, verifier), http.StatusFound)
	log.Debug("redirect to provider")
}

// Callback completa el handshake: valida el request pendiente, cambia el
// code, reconcilia la cuenta y redirige con ?token= o ?error=.
func (h *Handshake) Callback(w http.ResponseWriter, r *http.Request, provider string) {
	u, err := h.authenticate(r.Context(), r, provider)
	if err != nil {
		h.fail(w, r, provider, err)
		return
	}
	h.succeed(w, r, provider, u)
}

func (h *Handshake) resolve(provider string) (repository.AuthProvider, Provider, error) {
	p, ok := repository.ParseAuthProvider(provider)
	if !ok || p == repository.ProviderLocal || h.deps.Providers == nil {
		return p, nil, &userinfo.UnsupportedProviderError{Provider: provider}
	}
	client, ok := h.deps.Providers(p)
	if !ok {
		return p, nil, &userinfo.UnsupportedProviderError{Provider: provider}
	}
	return p, client, nil
}

func (h *Handshake) authenticate(ctx context.Context, r *http.Request, provider string) (*repository.User, error) {
	pending, err := h.deps.Requests.Load(r)
	if err != nil {
		return nil, newProcessingError(err, "authorization_request_not_found")
	}

	p, client, err := h.resolve(provider)
	if err != nil {
		return nil, err
	}
	if pending.Provider != string(p) {
		return nil, newProcessingError(nil, "client_registration_mismatch")
	}

	q := r.URL.Query()
	if code := q.Get("error"); code != "" {
		if desc := q.Get("error_description"); desc != "" {
			return nil, newProcessingError(nil, "[%s] %s", code, desc)
		}
		return nil, newProcessingError(nil, "%s", code)
	}
	if q.Get("state") == "" || q.Get("state") != pending.State {
		return nil, newProcessingError(nil, "invalid_state_parameter")
	}
	code := q.Get("code")
	if code == "" {
		return nil, newProcessingError(nil, "invalid_request")
	}

	tok, err := client.Exchange(ctx, code, pending.CodeVerifier)
	if err != nil {
		return nil, newProcessingError(err, "invalid_token_response")
	}
	attrs, err := client.FetchAttributes(ctx, tok)
	if err != nil {
		return nil, newProcessingError(err, "invalid_user_info_response")
	}
	return h.deps.Reconciler.Process(ctx, string(p), attrs)
}

func (h *Handshake) succeed(w http.ResponseWriter, r *http.Request, provider string, u *repository.User) {
	log := logger.FromWithFields(r.Context(),
		logger.Layer("service"),
		logger.Component("social.handshake"),
		logger.Op("Callback"),
		logger.Provider(provider),
		logger.UserID(u.ID),
	)

	target := "/"
	if t, ok := h.deps.Requests.RedirectTarget(r); ok {
		if !IsAuthorizedRedirectURI(t, h.deps.AuthorizedRedirectURIs) {
			err := repository.NewBadRequest("Sorry! We've got an Unauthorized Redirect URI (%s) and can't proceed with the authentication", t)
			log.Warn("unauthorized redirect uri", logger.String("redirect_uri", t))
			h.deps.Requests.RemoveCookies(w, r)
			h.deps.Metrics.Login(provider, "rejected_redirect")
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithMessage(err.Error()).WithCause(err))
			return
		}
		target = t
	}

	token, err := h.deps.Tokens.IssueFor(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		h.fail(w, r, provider, err)
		return
	}
	h.deps.Metrics.TokenIssued()
	h.deps.Metrics.Login(provider, "success")

	h.deps.Requests.RemoveCookies(w, r)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, withQuery(target, "token", token), http.StatusFound)
	log.Info("oauth2 login succeeded")
}

// fail limpia las cookies y vuelve al frontend con ?error=<mensaje>.
// Un redirect_uri no autorizado cae a "/".
func (h *Handshake) fail(w http.ResponseWriter, r *http.Request, provider string, err error) {
	log := logger.FromWithFields(r.Context(),
		logger.Layer("service"),
		logger.Component("social.handshake"),
		logger.Provider(provider),
	)
	if errors.Is(err, ErrAuthentication) || repository.IsConflict(err) {
		log.Warn("oauth2 login failed", logger.Err(err))
	} else {
		log.Error("oauth2 login failed", logger.Err(err))
	}

	target := "/"
	if t, ok := h.deps.Requests.RedirectTarget(r); ok && IsAuthorizedRedirectURI(t, h.deps.AuthorizedRedirectURIs) {
		target = t
	}
	result := "failure"
	var mismatch *ProviderMismatchError
	if errors.As(err, &mismatch) {
		result = "mismatch"
	}
	h.deps.Requests.RemoveCookies(w, r)
	h.deps.Metrics.Login(provider, result)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, withQuery(target, "error", FailureMessage(err)), http.StatusFound)
}

// IsAuthorizedRedirectURI compara scheme, host (sin distinguir mayúsculas)
// y puerto de uri contra cada origen autorizado. El path no cuenta.
func IsAuthorizedRedirectURI(uri string, authorized []string) bool {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil || u.Host == "" {
		return false
	}
	for _, a := range authorized {
		au, err := url.Parse(strings.TrimSpace(a))
		if err != nil || au.Host == "" {
			continue
		}
		if strings.EqualFold(au.Scheme, u.Scheme) &&
			strings.EqualFold(au.Hostname(), u.Hostname()) &&
			effectivePort(au) == effectivePort(u) {
			return true
		}
	}
	return false
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

func withQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "/?" + url.Values{key: {value}}.Encode()
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
