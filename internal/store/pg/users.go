// Package pg implementa repository.UserRepository sobre PostgreSQL (pgxpool).
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

// Config del pool.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// Store es el adapter de usuarios.
type Store struct {
	pool *pgxpool.Pool
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }

// Pool expone el pool (métricas, migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

const userColumns = `id, name, email, image_url, email_verified, password_hash, provider, provider_id, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	var provider string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.EmailVerified,
		&u.PasswordHash, &provider, &u.ProviderID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Provider = repository.AuthProvider(provider)
	return &u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE lower(email) = lower($1) LIMIT 1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get user by id: %w", err)
	}
	return u, nil
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pg: exists by email: %w", err)
	}
	return exists, nil
}

// Save: INSERT si ID == 0, UPDATE si no. Unique violation => ErrConflict.
func (s *Store) Save(ctx context.Context, u *repository.User) (*repository.User, error) {
	var (
		out *repository.User
		err error
	)
	if u.ID == 0 {
		out, err = scanUser(s.pool.QueryRow(ctx, `
			INSERT INTO app_user (name, email, image_url, email_verified, password_hash, provider, provider_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+userColumns,
			u.Name, u.Email, u.ImageURL, u.EmailVerified, u.PasswordHash, string(u.Provider), u.ProviderID))
	} else {
		out, err = scanUser(s.pool.QueryRow(ctx, `
			UPDATE app_user
			SET name = $2, email = $3, image_url = $4, email_verified = $5,
			    password_hash = $6, provider_id = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.ImageURL, u.EmailVerified, u.PasswordHash, u.ProviderID))
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return nil, fmt.Errorf("pg: save user: %w", repository.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("pg: save user: %w", err)
	}
	return out, nil
}
