// Package auth implementa el login y el signup con email y password.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/socialjohn/internal/http/dto/auth"
	"github.com/dropDatabas3/socialjohn/internal/metrics"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// ErrBadCredentials cubre email desconocido, password incorrecta y cuentas
// sin password (solo OAuth2). No distingue entre ellos.
var ErrBadCredentials = errors.New("auth: bad credentials")

// EmailInUseMessage es el rechazo del signup con email existente.
const EmailInUseMessage = "Email address already in use."

// PasswordHasher hashea y verifica passwords (bcrypt).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer emite el access token.
type TokenIssuer interface {
	IssueFor(u *repository.User) (string, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Users   repository.UserRepository
	Hasher  PasswordHasher
	Tokens  TokenIssuer
	Metrics *metrics.Metrics // nil = sin métricas
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// Login verifica las credenciales y emite un bearer token.
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	log := logger.FromWithFields(ctx,
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		s.deps.Metrics.Login(string(repository.ProviderLocal), "failure")
		return nil, ErrBadCredentials
	}

	u, err := s.LoadUserByEmail(ctx, email)
	if err != nil {
		s.deps.Metrics.Login(string(repository.ProviderLocal), "failure")
		if repository.IsNotFound(err) {
			log.Debug("unknown email", logger.Email(email))
			return nil, ErrBadCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}
	if u.PasswordHash == nil || !s.deps.Hasher.Verify(in.Password, *u.PasswordHash) {
		log.Debug("password mismatch", logger.UserID(u.ID))
		s.deps.Metrics.Login(string(repository.ProviderLocal), "failure")
		return nil, ErrBadCredentials
	}

	token, err := s.deps.Tokens.IssueFor(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, err
	}
	s.deps.Metrics.TokenIssued()
	s.deps.Metrics.Login(string(repository.ProviderLocal), "success")
	log.Info("login succeeded", logger.UserID(u.ID))
	return &dto.AuthResponse{AccessToken: token, TokenType: "Bearer"}, nil
}

// Signup registra una cuenta local. Un email existente no escribe nada.
func (s *Service) Signup(ctx context.Context, in dto.SignupRequest) (*repository.User, error) {
	log := logger.FromWithFields(ctx,
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("Signup"),
	)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	exists, err := s.deps.Users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		log.Error("email lookup failed", logger.Err(err))
		return nil, err
	}
	if exists {
		log.Info("email already in use", logger.Email(in.Email))
		return nil, repository.NewBadRequest("%s", EmailInUseMessage)
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.deps.Users.Save(ctx, &repository.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: &hash,
		Provider:     repository.ProviderLocal,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, repository.NewBadRequest("%s", EmailInUseMessage)
		}
		log.Error("user save failed", logger.Err(err))
		return nil, err
	}
	log.Info("user registered", logger.UserID(u.ID))
	return u, nil
}

// LoadUserByEmail busca la cuenta para el login.
func (s *Service) LoadUserByEmail(ctx context.Context, email string) (*repository.User, error) {
	u, err := s.deps.Users.GetByEmail(ctx, email)
	if repository.IsNotFound(err) {
		return nil, repository.NewResourceNotFound("User", "email", email)
	}
	return u, err
}

// LoadUserByID carga el usuario del token (filtro bearer, /user/me).
func (s *Service) LoadUserByID(ctx context.Context, id int64) (*repository.User, error) {
	u, err := s.deps.Users.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, repository.NewResourceNotFound("User", "id", id)
	}
	return u, err
}

func validateSignup(in dto.SignupRequest) error {
	switch {
	case in.Name == "":
		return repository.NewBadRequest("name must not be blank")
	case in.Email == "":
		return repository.NewBadRequest("email must not be blank")
	case in.Password == "":
		return repository.NewBadRequest("password must not be blank")
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return repository.NewBadRequest("email must be a well-formed email address")
	}
	return nil
}
