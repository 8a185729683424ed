package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
	"github.com/dropDatabas3/socialjohn/internal/oauth/userinfo"
	"github.com/dropDatabas3/socialjohn/internal/store/memory"
)

func googleAttrs(email string) map[string]any {
	attrs := map[string]any{
		"sub":     "g-123",
		"name":    "Ana Google",
		"picture": "https://img/ana.png",
	}
	if email != "" {
		attrs["email"] = email
	}
	return attrs
}

// failingRepo permite inyectar errores del store.
type failingRepo struct {
	*memory.Users
	getErr  error
	saveErr error
}

func (f *failingRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Users.GetByEmail(ctx, email)
}

func (f *failingRepo) Save(ctx context.Context, u *repository.User) (*repository.User, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.Users.Save(ctx, u)
}

func TestReconcile_CreatesNewUser(t *testing.T) {
	users := memory.NewUsers()
	r := NewReconciler(users, nil)

	u, err := r.Reconcile(context.Background(), &userinfo.Identity{
		ID: "g-123", Name: "Ana", Email: "ana@example.com", ImageURL: "https://img/a.png",
	}, repository.ProviderGoogle)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, repository.ProviderGoogle, u.Provider)
	require.Equal(t, "g-123", *u.ProviderID)
	require.Equal(t, "https://img/a.png", *u.ImageURL)
	require.True(t, u.EmailVerified)
	require.Nil(t, u.PasswordHash)
	require.Equal(t, 1, users.Len())
	require.Equal(t, 1, users.Writes())
}

func TestReconcile_SameProviderUpdatesNameAndImage(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsers()
	r := NewReconciler(users, nil)

	first, err := r.Reconcile(ctx, &userinfo.Identity{ID: "1", Name: "Old", Email: "gh@example.com", ImageURL: "https://a/old"}, repository.ProviderGitHub)
	require.NoError(t, err)

	second, err := r.Reconcile(ctx, &userinfo.Identity{ID: "1", Name: "New", Email: "gh@example.com"}, repository.ProviderGitHub)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "New", second.Name)
	require.Nil(t, second.ImageURL)
	require.Equal(t, 1, users.Len())
	require.Equal(t, 2, users.Writes())
}

func TestReconcile_ProviderMismatch(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsers()
	_, err := users.Save(ctx, &repository.User{Name: "Fb", Email: "test@example.com", Provider: repository.ProviderFacebook})
	require.NoError(t, err)

	r := NewReconciler(users, nil)
	_, err = r.Reconcile(ctx, &userinfo.Identity{ID: "g", Name: "G", Email: "test@example.com"}, repository.ProviderGoogle)

	var mismatch *ProviderMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, repository.ProviderFacebook, mismatch.Existing)
	require.Contains(t, err.Error(), "Looks like you're signed up with facebook account")
	require.ErrorIs(t, err, ErrAuthentication)
	require.Equal(t, 1, users.Writes())
}

func TestReconcile_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	repo := &failingRepo{Users: memory.NewUsers(), getErr: boom}
	_, err := NewReconciler(repo, nil).Reconcile(context.Background(), &userinfo.Identity{Email: "x@y.z"}, repository.ProviderGoogle)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, repo.Writes())
}

func TestReconcile_TrustedProviders(t *testing.T) {
	users := memory.NewUsers()
	r := NewReconciler(users, []repository.AuthProvider{repository.ProviderGoogle})

	u, err := r.Reconcile(context.Background(), &userinfo.Identity{ID: "9", Email: "gh@x.io"}, repository.ProviderGitHub)
	require.NoError(t, err)
	require.False(t, u.EmailVerified)
}

func TestProcess_MissingEmail(t *testing.T) {
	users := memory.NewUsers()
	_, err := NewReconciler(users, nil).Process(context.Background(), "google", googleAttrs(""))

	var perr *OAuth2ProcessingError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Email not found from google", perr.Message)
	require.ErrorIs(t, err, ErrAuthentication)
	require.Equal(t, 0, users.Writes())
}

func TestProcess_UnsupportedProvider(t *testing.T) {
	users := memory.NewUsers()
	_, err := NewReconciler(users, nil).Process(context.Background(), "linkedin", googleAttrs("a@b.c"))

	var unsupported *userinfo.UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	require.Contains(t, err.Error(), "Login with linkedin is not supported yet")
	require.ErrorIs(t, err, ErrAuthentication)
	require.Equal(t, 0, users.Writes())
}

func TestProcess_NormalizesAndReconciles(t *testing.T) {
	users := memory.NewUsers()
	u, err := NewReconciler(users, nil).Process(context.Background(), "Google", googleAttrs("ana@example.com"))
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", u.Email)
	require.Equal(t, "Ana Google", u.Name)
	require.Equal(t, repository.ProviderGoogle, u.Provider)
}

func TestFailureMessage(t *testing.T) {
	require.Equal(t, RetryableConflictMessage, FailureMessage(repository.ErrConflict))
	require.Equal(t, "Email not found from github", FailureMessage(newProcessingError(nil, "Email not found from github")))
	require.Equal(t, genericFailureMessage, FailureMessage(errors.New("pq: connection reset")))
	require.Empty(t, FailureMessage(nil))
}
