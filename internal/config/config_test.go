package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

const sampleYAML = `
app:
  env: prod
server:
  addr: ":9090"
  cors_allowed_origins: ["http://localhost:3000"]
storage:
  driver: postgres
  dsn: postgres://u:p@localhost/socialjohn
cache:
  kind: redis
  ttl: 1m
  redis:
    addr: localhost:6379
auth:
  token_secret: c2VjcmV0
  token_expiration_msec: 60000
rate_limit:
  max: 5
  window: 30s
oauth2:
  authorized_redirect_uris:
    - http://localhost:3000/oauth2/redirect
providers:
  github:
    client_id: gh-id
    client_secret: gh-secret
    redirect_uri: http://localhost:8080/oauth2/callback/github
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, 30*time.Second, c.Cache.TTL)
	require.Equal(t, int64(DefaultTokenExpirationMsec), c.Auth.TokenExpirationMsec)
	require.Equal(t, 240*time.Hour, c.TokenTTL())
	require.Nil(t, c.TrustedProviders())
	require.True(t, c.RateLimit.Enabled)
	require.Equal(t, 20, c.RateLimit.Max)
	require.False(t, c.RateLimit.TrustProxy)
}

func TestLoad_YAML(t *testing.T) {
	c, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)
	require.True(t, c.IsProd())
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, "postgres", c.Storage.Driver)
	require.Equal(t, time.Minute, c.Cache.TTL)
	require.Equal(t, time.Minute, c.TokenTTL())
	require.Equal(t, 5, c.RateLimit.Max)
	require.Equal(t, 30*time.Second, c.RateLimit.Window)
	require.True(t, c.Providers.GitHub.Enabled())
	require.False(t, c.Providers.Google.Enabled())
	require.Equal(t, []string{"http://localhost:3000/oauth2/redirect"}, c.OAuth2.AuthorizedRedirectURIs)
	require.NoError(t, c.Validate())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("SOCIALJOHN_SERVER_ADDR", ":7070")
	t.Setenv("SOCIALJOHN_AUTH_TOKEN_EXPIRATION_MSEC", "1000")
	t.Setenv("SOCIALJOHN_OAUTH2_AUTHORIZED_REDIRECT_URIS", "http://a.test,http://b.test:3000")
	t.Setenv("SOCIALJOHN_OAUTH2_TRUSTED_EMAIL_PROVIDERS", "google,GitHub")
	t.Setenv("SOCIALJOHN_PROVIDERS_GOOGLE_CLIENT_ID", "g-id")
	t.Setenv("SOCIALJOHN_PROVIDERS_GOOGLE_CLIENT_SECRET", "g-secret")
	t.Setenv("SOCIALJOHN_RATE_LIMIT_TRUST_PROXY", "true")

	c, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)
	require.Equal(t, ":7070", c.Server.Addr)
	require.Equal(t, time.Second, c.TokenTTL())
	require.Equal(t, []string{"http://a.test", "http://b.test:3000"}, c.OAuth2.AuthorizedRedirectURIs)
	require.Equal(t, []repository.AuthProvider{repository.ProviderGoogle, repository.ProviderGitHub}, c.TrustedProviders())
	require.Equal(t, "g-id", c.Providers.Google.ClientID)
	require.True(t, c.RateLimit.TrustProxy)
	require.NoError(t, c.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	err := c.Validate()
	require.ErrorContains(t, err, "auth.token_secret is required")

	c.Auth.TokenSecret = "c2VjcmV0"
	require.NoError(t, c.Validate())

	c.Auth.TokenExpirationMsec = 0
	c.Storage.Driver = "mongo"
	c.Cache.Kind = "redis"
	c.OAuth2.AuthorizedRedirectURIs = []string{"/relative"}
	c.OAuth2.TrustedEmailProviders = []string{"linkedin"}
	c.Providers.Facebook.ClientID = "fb"
	c.RateLimit.Max = 0
	err = c.Validate()
	require.ErrorContains(t, err, "token_expiration_msec")
	require.ErrorContains(t, err, `storage.driver "mongo"`)
	require.ErrorContains(t, err, "cache.redis.addr")
	require.ErrorContains(t, err, "must be an absolute URI")
	require.ErrorContains(t, err, `unknown provider "linkedin"`)
	require.ErrorContains(t, err, "providers.facebook.client_secret")
	require.ErrorContains(t, err, "rate_limit.max")
}

func TestCookieSecretFallsBackToTokenSecret(t *testing.T) {
	c := Default()
	c.Auth.TokenSecret = "tok"
	require.Equal(t, []byte("tok"), c.CookieSecretBytes())
	c.Auth.CookieSecret = "ck"
	require.Equal(t, []byte("ck"), c.CookieSecretBytes())
}

func TestValidate_TokenSecretMustDecode(t *testing.T) {
	c := Default()
	c.Auth.TokenSecret = "not base64 !!"
	require.ErrorContains(t, c.Validate(), "auth.token_secret must be base64")

	// "secret" en base64: válido pero corto
	c.Auth.TokenSecret = "c2VjcmV0"
	require.NoError(t, c.Validate())
	require.Len(t, c.Warnings(), 1)
	require.Contains(t, c.Warnings()[0], "decodes to 6 bytes")

	c.Auth.TokenSecret = base64.StdEncoding.EncodeToString(make([]byte, 64))
	require.Empty(t, c.Warnings())
}

func TestSecureCookies(t *testing.T) {
	c := Default()
	require.False(t, c.SecureCookies())
	c.App.Env = "prod"
	require.True(t, c.SecureCookies())
	c.App.Env = "dev"
	c.Auth.CookieSecure = true
	require.True(t, c.SecureCookies())
}
