// Package oauth2 expone el handshake OAuth2 (authorize + callback).
package oauth2

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handshake es el orquestador de services/social.
type Handshake interface {
	Start(w http.ResponseWriter, r *http.Request, provider string)
	Callback(w http.ResponseWriter, r *http.Request, provider string)
}

type OAuth2Controller struct {
	handshake Handshake
}

func NewOAuth2Controller(h Handshake) *OAuth2Controller {
	return &OAuth2Controller{handshake: h}
}

// Authorize handles GET /oauth2/authorize/{provider}
func (c *OAuth2Controller) Authorize(w http.ResponseWriter, r *http.Request) {
	c.handshake.Start(w, r, chi.URLParam(r, "provider"))
}

// Callback handles GET /oauth2/callback/{provider}
func (c *OAuth2Controller) Callback(w http.ResponseWriter, r *http.Request) {
	c.handshake.Callback(w, r, chi.URLParam(r, "provider"))
}
