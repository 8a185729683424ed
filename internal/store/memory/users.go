// Package memory implementa repository.UserRepository en memoria.
// Se usa en desarrollo (storage.driver=memory) y en tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

// Users guarda usuarios con índice único por email (case-insensitive),
// igual que la constraint de Postgres.
type Users struct {
	mu      sync.RWMutex
	seq     int64
	byID    map[int64]*repository.User
	byEmail map[string]int64
	now     func() time.Time
	writes  int
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[int64]*repository.User),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *Users) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *Users) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[emailKey(email)]
	return ok, nil
}

func (s *Users) Save(ctx context.Context, u *repository.User) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(u.Email)
	now := s.now()
	if u.ID == 0 {
		if _, taken := s.byEmail[key]; taken {
			return nil, repository.ErrConflict
		}
		s.seq++
		c := u.Clone()
		c.ID = s.seq
		c.CreatedAt, c.UpdatedAt = now, now
		s.byID[c.ID] = c
		s.byEmail[key] = c.ID
		s.writes++
		return c.Clone(), nil
	}

	prev, ok := s.byID[u.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if owner, taken := s.byEmail[key]; taken && owner != u.ID {
		return nil, repository.ErrConflict
	}
	c := u.Clone()
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = now
	delete(s.byEmail, emailKey(prev.Email))
	s.byID[c.ID] = c
	s.byEmail[key] = c.ID
	s.writes++
	return c.Clone(), nil
}

// Len devuelve la cantidad de usuarios.
func (s *Users) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Writes cuenta los Save exitosos (tests de "una escritura por llamada").
func (s *Users) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
