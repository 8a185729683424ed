// Package cached decora un UserRepository con cache de lecturas por ID.
//
// El filtro bearer carga el usuario en cada request autenticado; este
// decorador evita ir al store en cada uno y colapsa cargas concurrentes
// del mismo ID con singleflight.
package cached

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/socialjohn/internal/cache"
	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// Users implementa repository.UserRepository.
type Users struct {
	next  repository.UserRepository
	cache cache.Client
	ttl   time.Duration
	sf    singleflight.Group
}

// Wrap devuelve next tal cual si c es nil (cache deshabilitado).
func Wrap(next repository.UserRepository, c cache.Client, ttl time.Duration) repository.UserRepository {
	if c == nil {
		return next
	}
	return &Users{next: next, cache: c, ttl: ttl}
}

// entry incluye los campos que User no serializa (password_hash).
type entry struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      *string   `json:"image_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	PasswordHash  *string   `json:"password_hash,omitempty"`
	Provider      string    `json:"provider"`
	ProviderID    *string   `json:"provider_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toEntry(u *repository.User) entry {
	return entry{
		ID: u.ID, Name: u.Name, Email: u.Email, ImageURL: u.ImageURL,
		EmailVerified: u.EmailVerified, PasswordHash: u.PasswordHash,
		Provider: string(u.Provider), ProviderID: u.ProviderID,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (e entry) user() *repository.User {
	return &repository.User{
		ID: e.ID, Name: e.Name, Email: e.Email, ImageURL: e.ImageURL,
		EmailVerified: e.EmailVerified, PasswordHash: e.PasswordHash,
		Provider: repository.AuthProvider(e.Provider), ProviderID: e.ProviderID,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func idKey(id int64) string { return "user:id:" + strconv.FormatInt(id, 10) }

func (c *Users) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	log := logger.FromWithFields(ctx, logger.Layer("store"), logger.Component("cached_users"))
	key := idKey(id)

	if b, err := c.cache.Get(ctx, key); err == nil {
		var e entry
		if err := json.Unmarshal(b, &e); err == nil {
			return e.user(), nil
		}
		log.Warn("cache entry corrupt, dropping", logger.Key(key))
		_ = c.cache.Delete(ctx, key)
	} else if !cache.IsNotFound(err) {
		log.Warn("cache get failed, falling back to store", logger.Err(err))
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		u, err := c.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(toEntry(u)); err == nil {
			if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
				log.Warn("cache set failed", logger.Err(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.User).Clone(), nil
}

func (c *Users) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return c.next.GetByEmail(ctx, email)
}

func (c *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.next.ExistsByEmail(ctx, email)
}

// Save escribe en el store e invalida la entrada del usuario.
func (c *Users) Save(ctx context.Context, u *repository.User) (*repository.User, error) {
	out, err := c.next.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Delete(ctx, idKey(out.ID)); err != nil {
		logger.From(ctx).Warn("cache invalidate failed", logger.Layer("store"), logger.Err(err))
	}
	return out, nil
}

// Ping delega al store si lo soporta.
func (c *Users) Ping(ctx context.Context) error {
	if p, ok := c.next.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
