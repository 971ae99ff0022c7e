package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keybox/internal/cache"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// countingRepo cuenta los hits al backing store.
type countingRepo struct {
	repository.AccountRepository
	byEmail int
	acct    *repository.Account
}

func (c *countingRepo) FindByEmail(_ context.Context, email string) (*repository.Account, error) {
	c.byEmail++
	if c.acct != nil && c.acct.Email == email {
		cp := *c.acct
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (c *countingRepo) Create(_ context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	c.acct = &repository.Account{PublicID: input.PublicID, Email: input.Email, Role: input.Role}
	cp := *c.acct
	return &cp, nil
}

func TestFindByEmail_CachesHits(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{acct: &repository.Account{PublicID: "id-1", Email: "ana@example.com"}}
	d := New(repo, cache.NewMemory(cache.Config{TTL: time.Minute}), time.Minute)

	for i := 0; i < 5; i++ {
		a, err := d.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.Equal(t, "id-1", a.PublicID)
	}
	require.Equal(t, 1, repo.byEmail)
}

func TestFindByEmail_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{}
	d := New(repo, cache.NewMemory(cache.Config{TTL: time.Minute}), time.Minute)

	_, err := d.FindByEmail(ctx, "nadie@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = d.FindByEmail(ctx, "nadie@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, 2, repo.byEmail)
}

func TestCreate_InvalidatesEmailKey(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{}
	cc := cache.NewMemory(cache.Config{TTL: time.Minute})
	d := New(repo, cc, time.Minute)

	// Dejar una entrada vieja en el cache para ese email.
	require.NoError(t, cc.Set(ctx, "account:email:ana@example.com", []byte(`{"PublicID":"stale"}`), time.Minute))

	_, err := d.Create(ctx, repository.CreateAccountInput{PublicID: "id-new", Email: "ana@example.com"})
	require.NoError(t, err)

	a, err := d.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "id-new", a.PublicID)
}
