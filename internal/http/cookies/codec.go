// Package cookies guarda estado transitorio del handshake OAuth2 en cookies
// firmadas del lado del cliente. El servidor no guarda sesión.
package cookies

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxCookieSize es el techo práctico por cookie (nombre + valor + atributos).
const MaxCookieSize = 4096

var (
	// ErrCookieTooLarge: el valor no entra en una sola cookie (no hay chunking).
	ErrCookieTooLarge = errors.New("cookies: value exceeds cookie size limit")
	// ErrInvalidSignature: payload alterado o sin firma.
	ErrInvalidSignature = errors.New("cookies: invalid signature")
)

// Codec escribe, lee y borra cookies HttpOnly, y serializa payloads firmados.
type Codec struct {
	secret   []byte
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewCodec crea un Codec. sameSite: lax (default) | strict | none.
func NewCodec(secret []byte, domain string, secure bool, sameSite string) *Codec {
	return &Codec{
		secret:   secret,
		Domain:   strings.TrimSpace(domain),
		Secure:   secure,
		SameSite: ParseSameSite(sameSite),
	}
}

func ParseSameSite(s string) http.SameSite {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (c *Codec) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		MaxAge:   maxAge,
	}
}

// Write setea la cookie con max-age en segundos.
func (c *Codec) Write(w http.ResponseWriter, name, value string, maxAge int) error {
	ck := c.build(name, value, maxAge)
	if len(ck.String()) > MaxCookieSize {
		return fmt.Errorf("%w: %s", ErrCookieTooLarge, name)
	}
	http.SetCookie(w, ck)
	return nil
}

// Read devuelve el valor si la cookie existe y no está vacía.
func (c *Codec) Read(r *http.Request, name string) (string, bool) {
	ck, err := r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// Delete sobreescribe la cookie con valor vacío y Max-Age=0.
// Si el request no la trae no hace nada.
func (c *Codec) Delete(w http.ResponseWriter, r *http.Request, name string) {
	if _, err := r.Cookie(name); err != nil {
		return
	}
	// MaxAge < 0 => "Max-Age=0" en el header
	http.SetCookie(w, c.build(name, "", -1))
}

// Serialize: JSON -> base64url, más HMAC-SHA256 del payload. Formato "payload.sig".
func (c *Codec) Serialize(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cookies: serialize: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + c.sign(payload), nil
}

// Deserialize verifica la firma y decodifica en v.
func (c *Codec) Deserialize(raw string, v any) error {
	payload, sig, ok := strings.Cut(raw, ".")
	if !ok || payload == "" || sig == "" {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return ErrInvalidSignature
	}
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("cookies: decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("cookies: deserialize: %w", err)
	}
	return nil
}

func (c *Codec) sign(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
