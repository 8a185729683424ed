// Package user expone el perfil del usuario autenticado.
package user

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	httperrors "github.com/dropDatabas3/socialjohn/internal/http/errors"
	"github.com/dropDatabas3/socialjohn/internal/http/helpers"
	mw "github.com/dropDatabas3/socialjohn/internal/http/middlewares"
)

// Loader carga el usuario por ID (services/auth).
type Loader interface {
	LoadUserByID(ctx context.Context, id int64) (*repository.User, error)
}

type UserController struct {
	users Loader
}

func NewUserController(users Loader) *UserController {
	return &UserController{users: users}
}

// Me handles GET /user/me
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	p := mw.GetPrincipal(r.Context())
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	u, err := c.users.LoadUserByID(r.Context(), p.UserID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, u)
}
