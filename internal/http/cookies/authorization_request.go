package cookies

import (
	"errors"
	"net/http"
	"strings"
)

const (
	AuthorizationRequestCookie = "oauth2_auth_request"
	RedirectURICookie          = "redirect_uri"
	// MaxAgeSeconds aplica a las dos cookies del handshake.
	MaxAgeSeconds = 180
)

// ErrAuthorizationRequestNotFound: el callback llegó sin cookie de estado
// (expirada, borrada o nunca escrita).
var ErrAuthorizationRequestNotFound = errors.New("authorization_request_not_found")

// AuthorizationRequest es el estado pendiente entre /authorize y /callback.
type AuthorizationRequest struct {
	Provider     string   `json:"provider"`
	State        string   `json:"state"`
	CodeVerifier string   `json:"code_verifier,omitempty"`
	CallbackURL  string   `json:"callback_url"`
	Scopes       []string `json:"scopes,omitempty"`
	IssuedAt     int64    `json:"iat"`
}

// AuthorizationRequestRepository persiste AuthorizationRequest en cookies.
type AuthorizationRequestRepository struct {
	codec *Codec
}

func NewAuthorizationRequestRepository(codec *Codec) *AuthorizationRequestRepository {
	return &AuthorizationRequestRepository{codec: codec}
}

// Save guarda el request firmado. Si la URL trae redirect_uri, también
// lo guarda para el redirect post-login. nil borra ambas cookies.
func (a *AuthorizationRequestRepository) Save(w http.ResponseWriter, r *http.Request, req *AuthorizationRequest) error {
	if req == nil {
		a.RemoveCookies(w, r)
		return nil
	}
	raw, err := a.codec.Serialize(req)
	if err != nil {
		return err
	}
	if err := a.codec.Write(w, AuthorizationRequestCookie, raw, MaxAgeSeconds); err != nil {
		return err
	}
	if target := strings.TrimSpace(r.URL.Query().Get(RedirectURICookie)); target != "" {
		if err := a.codec.Write(w, RedirectURICookie, target, MaxAgeSeconds); err != nil {
			return err
		}
	}
	return nil
}

// Load lee y verifica el request pendiente.
func (a *AuthorizationRequestRepository) Load(r *http.Request) (*AuthorizationRequest, error) {
	raw, ok := a.codec.Read(r, AuthorizationRequestCookie)
	if !ok {
		return nil, ErrAuthorizationRequestNotFound
	}
	var req AuthorizationRequest
	if err := a.codec.Deserialize(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Remove carga el request y borra su cookie: no sobrevive más de un round trip.
func (a *AuthorizationRequestRepository) Remove(w http.ResponseWriter, r *http.Request) (*AuthorizationRequest, error) {
	req, err := a.Load(r)
	a.codec.Delete(w, r, AuthorizationRequestCookie)
	return req, err
}

// RemoveCookies borra las dos cookies del handshake.
func (a *AuthorizationRequestRepository) RemoveCookies(w http.ResponseWriter, r *http.Request) {
	a.codec.Delete(w, r, AuthorizationRequestCookie)
	a.codec.Delete(w, r, RedirectURICookie)
}

// RedirectTarget devuelve el redirect_uri guardado, si hay.
func (a *AuthorizationRequestRepository) RedirectTarget(r *http.Request) (string, bool) {
	return a.codec.Read(r, RedirectURICookie)
}
