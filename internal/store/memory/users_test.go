package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/domain/repository"
)

func TestUsers_SaveAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()

	u, err := s.Save(ctx, &repository.User{Name: "Ana", Email: "Ana@Example.com", Provider: repository.ProviderLocal})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.False(t, u.CreatedAt.IsZero())

	got, err := s.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	ok, err := s.ExistsByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.GetByID(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_UpdateKeepsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()
	u, err := s.Save(ctx, &repository.User{Name: "Old", Email: "a@b.c"})
	require.NoError(t, err)

	u.Name = "New"
	upd, err := s.Save(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, upd.ID)
	require.Equal(t, u.CreatedAt, upd.CreatedAt)
	require.Equal(t, 1, s.Len())
	require.Equal(t, 2, s.Writes())

	_, err = s.Save(ctx, &repository.User{ID: 42, Email: "x@y.z"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_ReturnedCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()
	u, err := s.Save(ctx, &repository.User{Name: "Ana", Email: "a@b.c"})
	require.NoError(t, err)
	u.Name = "mutated"

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.Name)
}

func TestUsers_ConcurrentCreateConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, &repository.User{Email: "race@example.com", Provider: repository.ProviderGoogle})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case repository.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected err: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 7, conflicts)
	require.Equal(t, 1, s.Len())
}
