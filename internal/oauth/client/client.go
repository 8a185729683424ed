// Package client implementa el lado "cliente OAuth2" del handshake:
// URL de autorización, intercambio del code y descarga del user-info crudo.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

// maxUserInfoBytes limita la respuesta del endpoint de user-info.
const maxUserInfoBytes = 1 << 20

// Client es una registración OAuth2 (un provider).
type Client struct {
	Provider    repository.AuthProvider
	Config      *oauth2.Config
	UserInfoURL string
	// EmailsURL solo aplica a GitHub (emails privados).
	EmailsURL string

	http *http.Client
}

// CallbackURL es el redirect_uri registrado en el provider.
func (c *Client) CallbackURL() string { return c.Config.RedirectURL }

// Scopes devuelve los scopes pedidos en la autorización.
func (c *Client) Scopes() []string { return c.Config.Scopes }

// AuthCodeURL arma la URL de autorización con state y PKCE (S256).
func (c *Client) AuthCodeURL(state, verifier string) string {
	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	return c.Config.AuthCodeURL(state, opts...)
}

// Exchange cambia el code por un token.
func (c *Client) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}
	tok, err := c.Config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: exchange code: %w", c.Provider, err)
	}
	return tok, nil
}

// FetchAttributes descarga el user-info como mapa crudo. Los números se
// conservan como json.Number (ids de GitHub sin pérdida de precisión).
func (c *Client) FetchAttributes(ctx context.Context, tok *oauth2.Token) (map[string]any, error) {
	var attrs map[string]any
	if err := c.getJSON(ctx, tok, c.UserInfoURL, &attrs); err != nil {
		return nil, fmt.Errorf("%s: user info: %w", c.Provider, err)
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	if c.Provider == repository.ProviderGitHub && c.EmailsURL != "" {
		if s, _ := attrs["email"].(string); s == "" {
			if email, err := c.primaryEmail(ctx, tok); err == nil && email != "" {
				attrs["email"] = email
			}
		}
	}
	return attrs, nil
}

func (c *Client) getJSON(ctx context.Context, tok *oauth2.Token, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoBytes))
	dec.UseNumber()
	return dec.Decode(out)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
