// Package jwt emite y valida los access tokens (HS512) que reciben los
// clientes tras un login local o social.
package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

var (
	// ErrInvalidPrincipal: no se emiten tokens sin usuario autenticado.
	ErrInvalidPrincipal = errors.New("jwt: invalid principal")
	// ErrMalformedToken: el token no se pudo parsear o verificar.
	ErrMalformedToken = errors.New("jwt: malformed token")
	// ErrMissingSecret: secreto vacío o no decodificable.
	ErrMissingSecret = errors.New("jwt: missing signing secret")
)

const alg = "HS512"

// TokenService emite tokens con sub = id decimal del usuario.
// No tiene estado mutable; es seguro para uso concurrente.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option personaliza el TokenService.
type Option func(*TokenService)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService recibe el secreto en base64 (std, raw std o url).
// Un secreto inválido deja el servicio en modo "fail closed": Issue falla
// y Validate siempre devuelve false.
func NewTokenService(secretB64 string, ttl time.Duration, opts ...Option) *TokenService {
	s := &TokenService{key: DecodeSecret(secretB64), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MinSecretBytes es el tamaño recomendado del secreto HS512.
const MinSecretBytes = 64

// DecodeSecret decodifica el secreto base64; nil si está vacío o es inválido.
func DecodeSecret(s string) []byte {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil && len(b) > 0 {
			return b
		}
	}
	return nil
}

// TTL devuelve la vigencia configurada.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue firma un token para userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidPrincipal
	}
	if len(s.key) == 0 {
		return "", ErrMissingSecret
	}
	now := s.now()
	claims := jwtv5.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS512, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// IssueFor es Issue para un usuario ya persistido.
func (s *TokenService) IssueFor(u *repository.User) (string, error) {
	if u == nil {
		return "", ErrInvalidPrincipal
	}
	return s.Issue(u.ID)
}

// Validate nunca paniquea ni devuelve error: cualquier problema es false.
func (s *TokenService) Validate(token string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := s.parse(token)
	return err == nil
}

// ExtractUserID verifica el token y devuelve el sub como int64.
func (s *TokenService) ExtractUserID(token string) (int64, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("%w: missing sub", ErrMalformedToken)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: sub %q", ErrMalformedToken, sub)
	}
	return id, nil
}

func (s *TokenService) parse(token string) (jwtv5.MapClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedToken)
	}
	if len(s.key) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, ErrMissingSecret)
	}
	tok, err := jwtv5.Parse(token, func(*jwtv5.Token) (any, error) { return s.key, nil },
		jwtv5.WithValidMethods([]string{alg}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: claims_type", ErrMalformedToken)
	}
	return claims, nil
}
