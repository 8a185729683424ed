package repository

import (
	"context"
	"strings"
	"time"
)

// AuthProvider identifica el origen de la cuenta.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
	ProviderGitHub   AuthProvider = "github"
)

// OAuth2Providers lista los providers externos soportados, en orden estable.
var OAuth2Providers = []AuthProvider{ProviderGoogle, ProviderFacebook, ProviderGitHub}

func (p AuthProvider) String() string { return string(p) }

// ParseAuthProvider normaliza el nombre (case-insensitive).
// Devuelve false si el provider no es uno de los conocidos.
func ParseAuthProvider(s string) (AuthProvider, bool) {
	p := AuthProvider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderLocal, ProviderGoogle, ProviderFacebook, ProviderGitHub:
		return p, true
	}
	return p, false
}

// User es la cuenta canónica. Un email pertenece a un solo provider
// desde la creación y nunca cambia.
type User struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	ImageURL      *string      `json:"imageUrl"`
	EmailVerified bool         `json:"emailVerified"`
	PasswordHash  *string      `json:"-"`
	Provider      AuthProvider `json:"provider"`
	ProviderID    *string      `json:"providerId"`
	CreatedAt     time.Time    `json:"-"`
	UpdatedAt     time.Time    `json:"-"`
}

// Clone devuelve una copia independiente (los punteros se duplican).
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.ImageURL = cloneStr(u.ImageURL)
	c.PasswordHash = cloneStr(u.PasswordHash)
	c.ProviderID = cloneStr(u.ProviderID)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByEmail busca un usuario por email.
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*User, error)

	// ExistsByEmail indica si ya hay una cuenta con ese email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save inserta (ID == 0) o actualiza el usuario. Una sola escritura.
	// Retorna ErrConflict si el email ya está tomado por otra cuenta.
	Save(ctx context.Context, u *User) (*User, error)
}

// Pinger lo implementan los stores con conexión remota (readyz).
type Pinger interface {
	Ping(ctx context.Context) error
}
