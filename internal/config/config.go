// Package config carga la configuración: defaults, luego el YAML (si hay)
// y por último variables de entorno SOCIALJOHN_*.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	jwtx "github.com/dropDatabas3/socialjohn/internal/jwt"
)

// EnvPrefix antecede a todas las variables de entorno.
const EnvPrefix = "SOCIALJOHN_"

// DefaultTokenExpirationMsec son 10 días.
const DefaultTokenExpirationMsec = 864000000

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env" env:"ENV"`
		Version string `yaml:"version" env:"VERSION"`
	} `yaml:"app" envPrefix:"APP_"`

	Server struct {
		Addr string `yaml:"addr" env:"ADDR"`
		// BaseURL arma el Location del signup; vacío = se deriva del request.
		BaseURL            string        `yaml:"base_url" env:"BASE_URL"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
		ReadTimeout        time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
		WriteTimeout       time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	} `yaml:"server" envPrefix:"SERVER_"`

	Log struct {
		Level string `yaml:"level" env:"LEVEL"`
	} `yaml:"log" envPrefix:"LOG_"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver" env:"DRIVER"`
		DSN      string `yaml:"dsn" env:"DSN"`
		MaxConns int32  `yaml:"max_conns" env:"MAX_CONNS"`
		// AutoMigrate aplica las migraciones embebidas al arrancar.
		AutoMigrate bool `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	} `yaml:"storage" envPrefix:"STORAGE_"`

	Cache struct {
		// none | memory | redis
		Kind  string        `yaml:"kind" env:"KIND"`
		TTL   time.Duration `yaml:"ttl" env:"TTL"`
		Redis struct {
			Addr     string `yaml:"addr" env:"ADDR"`
			Password string `yaml:"password" env:"PASSWORD"`
			DB       int    `yaml:"db" env:"DB"`
			Prefix   string `yaml:"prefix" env:"PREFIX"`
		} `yaml:"redis" envPrefix:"REDIS_"`
	} `yaml:"cache" envPrefix:"CACHE_"`

	Auth struct {
		// TokenSecret en base64, se recomiendan >= 64 bytes.
		TokenSecret         string `yaml:"token_secret" env:"TOKEN_SECRET"`
		TokenExpirationMsec int64  `yaml:"token_expiration_msec" env:"TOKEN_EXPIRATION_MSEC"`
		// CookieSecret firma las cookies del handshake; vacío = TokenSecret.
		CookieSecret   string `yaml:"cookie_secret" env:"COOKIE_SECRET"`
		CookieSecure   bool   `yaml:"cookie_secure" env:"COOKIE_SECURE"`
		CookieDomain   string `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`
		CookieSameSite string `yaml:"cookie_samesite" env:"COOKIE_SAMESITE"`
		BcryptCost     int    `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	} `yaml:"auth" envPrefix:"AUTH_"`

	// RateLimit acota /auth/login y /auth/signup por IP. Con cache redis el
	// contador se comparte entre réplicas.
	RateLimit struct {
		Enabled bool          `yaml:"enabled" env:"ENABLED"`
		Max     int           `yaml:"max" env:"MAX"`
		Window  time.Duration `yaml:"window" env:"WINDOW"`
		// TrustProxy usa X-Forwarded-For como IP del cliente. Solo detrás
		// de un proxy que pise ese header.
		TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY"`
	} `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`

	OAuth2 struct {
		AuthorizedRedirectURIs []string `yaml:"authorized_redirect_uris" env:"AUTHORIZED_REDIRECT_URIS" envSeparator:","`
		// TrustedEmailProviders marcan email_verified=true al crear la cuenta.
		// nil = todos los providers OAuth2.
		TrustedEmailProviders []string `yaml:"trusted_email_providers" env:"TRUSTED_EMAIL_PROVIDERS" envSeparator:","`
	} `yaml:"oauth2" envPrefix:"OAUTH2_"`

	Providers struct {
		Google   ProviderConfig `yaml:"google" envPrefix:"GOOGLE_"`
		Facebook ProviderConfig `yaml:"facebook" envPrefix:"FACEBOOK_"`
		GitHub   ProviderConfig `yaml:"github" envPrefix:"GITHUB_"`
	} `yaml:"providers" envPrefix:"PROVIDERS_"`
}

// ProviderConfig es la registración OAuth2 de un provider. Sin client_id
// el provider queda deshabilitado.
type ProviderConfig struct {
	ClientID     string   `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURI  string   `yaml:"redirect_uri" env:"REDIRECT_URI"`
	Scopes       []string `yaml:"scopes" env:"SCOPES" envSeparator:","`
	AuthURI      string   `yaml:"auth_uri" env:"AUTH_URI"`
	TokenURI     string   `yaml:"token_uri" env:"TOKEN_URI"`
	UserInfoURI  string   `yaml:"user_info_uri" env:"USER_INFO_URI"`
}

func (p ProviderConfig) Enabled() bool { return strings.TrimSpace(p.ClientID) != "" }

// Default devuelve la config con valores por defecto.
func Default() *Config {
	var c Config
	c.App.Env = "dev"
	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Log.Level = "info"
	c.Storage.Driver = "memory"
	c.Storage.MaxConns = 10
	c.Cache.Kind = "memory"
	c.Cache.TTL = 30 * time.Second
	c.Cache.Redis.Prefix = "socialjohn"
	c.Auth.TokenExpirationMsec = DefaultTokenExpirationMsec
	c.Auth.CookieSameSite = "lax"
	c.RateLimit.Enabled = true
	c.RateLimit.Max = 20
	c.RateLimit.Window = time.Minute
	return &c
}

// Load aplica defaults, el YAML de path (si path != "") y el entorno.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	return c, nil
}

// TokenTTL es la vida del access token.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenExpirationMsec) * time.Millisecond
}

// CookieSecretBytes es la clave HMAC de las cookies del handshake.
func (c *Config) CookieSecretBytes() []byte {
	if s := strings.TrimSpace(c.Auth.CookieSecret); s != "" {
		return []byte(s)
	}
	return []byte(c.Auth.TokenSecret)
}

func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// SecureCookies fuerza Secure en prod aunque auth.cookie_secure esté apagado.
func (c *Config) SecureCookies() bool { return c.Auth.CookieSecure || c.IsProd() }

// ProviderConfigs lista las registraciones por provider.
func (c *Config) ProviderConfigs() map[repository.AuthProvider]ProviderConfig {
	return map[repository.AuthProvider]ProviderConfig{
		repository.ProviderGoogle:   c.Providers.Google,
		repository.ProviderFacebook: c.Providers.Facebook,
		repository.ProviderGitHub:   c.Providers.GitHub,
	}
}

// TrustedProviders devuelve nil si no se configuró (= todos).
func (c *Config) TrustedProviders() []repository.AuthProvider {
	if c.OAuth2.TrustedEmailProviders == nil {
		return nil
	}
	out := make([]repository.AuthProvider, 0, len(c.OAuth2.TrustedEmailProviders))
	for _, s := range c.OAuth2.TrustedEmailProviders {
		if p, ok := repository.ParseAuthProvider(s); ok {
			out = append(out, p)
		}
	}
	return out
}

// Warnings lista valores aceptados pero débiles (se loguean al arrancar).
func (c *Config) Warnings() []string {
	var out []string
	if b := jwtx.DecodeSecret(c.Auth.TokenSecret); b != nil && len(b) < jwtx.MinSecretBytes {
		out = append(out, fmt.Sprintf("auth.token_secret decodes to %d bytes, %d or more recommended", len(b), jwtx.MinSecretBytes))
	}
	return out
}

// Validate revisa los valores críticos y junta todos los problemas.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		errs = append(errs, errors.New("auth.token_secret is required"))
	} else if jwtx.DecodeSecret(c.Auth.TokenSecret) == nil {
		errs = append(errs, errors.New("auth.token_secret must be base64"))
	}
	if c.Auth.TokenExpirationMsec <= 0 {
		errs = append(errs, errors.New("auth.token_expiration_msec must be positive"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate_limit.max and rate_limit.window must be positive"))
	}

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported (memory|postgres)", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "", "none", "off", "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported (none|memory|redis)", c.Cache.Kind))
	}

	for _, raw := range c.OAuth2.AuthorizedRedirectURIs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("oauth2.authorized_redirect_uris: %q must be an absolute URI", raw))
		}
	}
	for _, s := range c.OAuth2.TrustedEmailProviders {
		if p, ok := repository.ParseAuthProvider(s); !ok || p == repository.ProviderLocal {
			errs = append(errs, fmt.Errorf("oauth2.trusted_email_providers: unknown provider %q", s))
		}
	}
	for p, pc := range c.ProviderConfigs() {
		if pc.Enabled() && strings.TrimSpace(pc.ClientSecret) == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_secret is required when client_id is set", p))
		}
	}
	return errors.Join(errs...)
}
