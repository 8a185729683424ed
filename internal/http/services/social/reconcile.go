package social

import (
	"context"
	"strings"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/oauth/userinfo"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// Reconciler vincula una identidad externa con la cuenta local.
// Cada llamada exitosa hace exactamente un Save.
type Reconciler struct {
	users   repository.UserRepository
	trusted map[repository.AuthProvider]bool
}

// NewReconciler crea el reconciliador. trusted lista los providers cuyo
// email se marca verificado al crear la cuenta; nil = todos los OAuth2.
func NewReconciler(users repository.UserRepository, trusted []repository.AuthProvider) *Reconciler {
	if trusted == nil {
		trusted = repository.OAuth2Providers
	}
	t := make(map[repository.AuthProvider]bool, len(trusted))
	for _, p := range trusted {
		t[p] = true
	}
	return &Reconciler{users: users, trusted: t}
}

// Process normaliza los atributos crudos del provider y reconcilia.
// Sin email no se llega al store.
func (r *Reconciler) Process(ctx context.Context, provider string, attrs map[string]any) (*repository.User, error) {
	id, err := userinfo.Normalize(provider, attrs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id.Email) == "" {
		return nil, newProcessingError(nil, "Email not found from %s", provider)
	}
	p, _ := repository.ParseAuthProvider(provider)
	return r.Reconcile(ctx, id, p)
}

// Reconcile crea o actualiza el usuario del email de la identidad.
func (r *Reconciler) Reconcile(ctx context.Context, id *userinfo.Identity, provider repository.AuthProvider) (*repository.User, error) {
	log := logger.FromWithFields(ctx,
		logger.Layer("service"),
		logger.Component("social.reconcile"),
		logger.Provider(string(provider)),
	)

	existing, err := r.users.GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
	case repository.IsNotFound(err):
		existing = nil
	default:
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if existing == nil {
		u, err := r.users.Save(ctx, r.newUser(id, provider))
		if err != nil {
			log.Warn("user create failed", logger.Email(id.Email), logger.Err(err))
			return nil, err
		}
		log.Info("user registered", logger.UserID(u.ID))
		return u, nil
	}

	if existing.Provider != provider {
		log.Info("provider mismatch",
			logger.UserID(existing.ID),
			logger.String("existing_provider", string(existing.Provider)),
		)
		return nil, &ProviderMismatchError{Existing: existing.Provider}
	}

	existing.Name = id.Name
	existing.ImageURL = optional(id.ImageURL)
	u, err := r.users.Save(ctx, existing)
	if err != nil {
		log.Warn("user update failed", logger.UserID(existing.ID), logger.Err(err))
		return nil, err
	}
	return u, nil
}

func (r *Reconciler) newUser(id *userinfo.Identity, provider repository.AuthProvider) *repository.User {
	return &repository.User{
		Name:          id.Name,
		Email:         id.Email,
		ImageURL:      optional(id.ImageURL),
		EmailVerified: r.trusted[provider],
		Provider:      provider,
		ProviderID:    optional(id.ID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
