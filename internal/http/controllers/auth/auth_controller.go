// Package auth contiene los controllers de login y signup locales.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/socialjohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
	"github.com/dropDatabas3/socialjohn/internal/http/helpers"
	svc "github.com/dropDatabas3/socialjohn/internal/http/services/auth"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// SignupMessage se conserva literal por compatibilidad con clientes existentes.
const SignupMessage = "User registered successfully@"

// Service es lo que el controller necesita de services/auth.
type Service interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	Signup(ctx context.Context, in dto.SignupRequest) (*repository.User, error)
}

// AuthController maneja POST /auth/login y POST /auth/signup.
type AuthController struct {
	service Service
	baseURL string
}

// NewAuthController crea el controller. baseURL vacío = se deriva del request.
func NewAuthController(service Service, baseURL string) *AuthController {
	return &AuthController{service: service, baseURL: baseURL}
}

// Login handles POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromWithFields(r.Context(), logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, svc.ErrBadCredentials) {
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		log.Error("login failed", logger.Err(err))
		helpers.WriteError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Signup handles POST /auth/signup
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromWithFields(r.Context(), logger.Layer("controller"), logger.Op("AuthController.Signup"))

	var req dto.SignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	u, err := c.service.Signup(r.Context(), req)
	if err != nil {
		if !repository.IsBadRequest(err) {
			log.Error("signup failed", logger.Err(err))
		}
		helpers.WriteError(w, err)
		return
	}

	w.Header().Set("Location", helpers.BaseURL(r, c.baseURL)+"/user/me/"+strconv.FormatInt(u.ID, 10))
	helpers.WriteJSON(w, http.StatusCreated, dto.APIResponse{Success: true, Message: SignupMessage})
}
