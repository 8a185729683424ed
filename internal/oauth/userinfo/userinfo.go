// Package userinfo traduce el payload de user-info de cada provider OAuth2
// a una identidad canónica.
//
// Es puro: sin I/O y sin mutar el mapa de atributos recibido.
package userinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

// ErrAuthentication es el sentinel de la familia de errores de autenticación
// OAuth2 (provider no soportado, email faltante, provider distinto).
var ErrAuthentication = errors.New("oauth2 authentication error")

// Identity es la identidad normalizada de un callback.
type Identity struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

// UnsupportedProviderError se devuelve para cualquier provider fuera del set OAuth2.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Sorry! Login with %s is not supported yet.", e.Provider)
}

func (e *UnsupportedProviderError) Is(target error) bool { return target == ErrAuthentication }

type mapper func(attrs map[string]any) *Identity

var mappers = map[repository.AuthProvider]mapper{
	repository.ProviderGoogle:   googleIdentity,
	repository.ProviderFacebook: facebookIdentity,
	repository.ProviderGitHub:   githubIdentity,
}

// Supported indica si hay mapping para el provider.
func Supported(provider string) bool {
	p, _ := repository.ParseAuthProvider(provider)
	_, ok := mappers[p]
	return ok
}

// EmailAttribute es la key del email en el payload del provider.
func EmailAttribute(repository.AuthProvider) string { return "email" }

// Normalize mapea attrs según el provider. Provider desconocido o "local"
// devuelve *UnsupportedProviderError.
func Normalize(provider string, attrs map[string]any) (*Identity, error) {
	p, _ := repository.ParseAuthProvider(provider)
	m, ok := mappers[p]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: provider}
	}
	return m(attrs), nil
}

// ─── helpers de extracción ───

func str(attrs map[string]any, key string) string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return ""
	}
	return text(v)
}

// text convierte ids numéricos (GitHub) sin notación exponencial.
func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func nested(attrs map[string]any, path ...string) any {
	var cur any = attrs
	for _, k := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
