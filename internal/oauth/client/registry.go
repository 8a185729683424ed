package client

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

// Settings de una registración (viene de config).
type Settings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Overrides opcionales (tests, GitHub Enterprise, etc.)
	AuthURL     string
	TokenURL    string
	UserInfoURL string
	EmailsURL   string
}

type defaults struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	userInfoURL string
	emailsURL   string
}

var providerDefaults = map[repository.AuthProvider]defaults{
	repository.ProviderGoogle: {
		endpoint:    endpoints.Google,
		scopes:      []string{"email", "profile"},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	},
	repository.ProviderFacebook: {
		endpoint:    endpoints.Facebook,
		scopes:      []string{"email", "public_profile"},
		userInfoURL: "https://graph.facebook.com/me?fields=id,first_name,middle_name,last_name,name,email,verified,is_verified,picture.width(250).height(250)",
	},
	repository.ProviderGitHub: {
		endpoint:    endpoints.GitHub,
		scopes:      []string{"user:email", "read:user"},
		userInfoURL: "https://api.github.com/user",
		emailsURL:   "https://api.github.com/user/emails",
	},
}

// New arma el Client de un provider OAuth2 soportado.
func New(p repository.AuthProvider, s Settings, httpClient *http.Client) (*Client, error) {
	d, ok := providerDefaults[p]
	if !ok {
		return nil, fmt.Errorf("oauth client: unsupported provider %q", p)
	}
	if strings.TrimSpace(s.ClientID) == "" {
		return nil, fmt.Errorf("oauth client: %s: client_id required", p)
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	endpoint := d.endpoint
	if s.AuthURL != "" {
		endpoint.AuthURL = s.AuthURL
	}
	if s.TokenURL != "" {
		endpoint.TokenURL = s.TokenURL
	}
	scopes := s.Scopes
	if len(scopes) == 0 {
		scopes = d.scopes
	}

	return &Client{
		Provider: p,
		Config: &oauth2.Config{
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			RedirectURL:  s.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		UserInfoURL: firstNonEmpty(s.UserInfoURL, d.userInfoURL),
		EmailsURL:   firstNonEmpty(s.EmailsURL, d.emailsURL),
		http:        httpClient,
	}, nil
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}

// Registry guarda las registraciones configuradas.
type Registry struct {
	mu      sync.RWMutex
	clients map[repository.AuthProvider]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[repository.AuthProvider]*Client)}
}

func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Provider] = c
}

// Lookup devuelve la registración del provider, si está configurada.
func (r *Registry) Lookup(p repository.AuthProvider) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[p]
	return c, ok
}

// Providers lista los providers registrados.
func (r *Registry) Providers() []repository.AuthProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repository.AuthProvider, 0, len(r.clients))
	for _, p := range repository.OAuth2Providers {
		if _, ok := r.clients[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
