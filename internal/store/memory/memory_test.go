package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

func TestAccounts_CreateAndLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Accounts().Create(ctx, repository.CreateAccountInput{
		PublicID:       "id-1",
		Email:          "ana@example.com",
		CredentialHash: "h",
		CredentialSalt: "s",
		Role:           repository.RoleUser,
	})
	require.NoError(t, err)
	require.True(t, created.Enabled)

	byEmail, err := s.Accounts().FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "id-1", byEmail.PublicID)

	byID, err := s.Accounts().FindByPublicID(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", byID.Email)

	_, err = s.Accounts().FindByEmail(ctx, "nadie@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Accounts().Create(ctx, repository.CreateAccountInput{
		PublicID: "id-2",
		Email:    "ana@example.com",
	})
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRefreshTokens_RevokeSemantics(t *testing.T) {
	s := New()
	ctx := context.Background()
	rt := s.RefreshTokens()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, rt.Store(ctx, "acc-1", "tok-a", exp))
	require.NoError(t, rt.Store(ctx, "acc-1", "tok-b", exp))
	require.NoError(t, rt.Store(ctx, "acc-2", "tok-c", exp))

	// RevokeOne: primera vez 1, segunda 0 (consumido).
	n, err := rt.RevokeOne(ctx, "tok-a")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = rt.RevokeOne(ctx, "tok-a")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	// RevokeAll sólo toca la cuenta pedida.
	n, err = rt.RevokeAll(ctx, "acc-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	left, err := rt.ListFor(ctx, "acc-2")
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "tok-c", left[0].Token)
}

func TestRefreshTokens_ExpiryFiltering(t *testing.T) {
	s := New()
	ctx := context.Background()
	rt := s.RefreshTokens()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetNow(func() time.Time { return base })

	require.NoError(t, rt.Store(ctx, "acc-1", "vivo", base.Add(time.Hour)))
	require.NoError(t, rt.Store(ctx, "acc-1", "vencido", base.Add(time.Minute)))

	s.SetNow(func() time.Time { return base.Add(30 * time.Minute) })

	live, err := rt.ListFor(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, live, 1)
	require.Equal(t, "vivo", live[0].Token)

	purged, err := rt.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	// La fila vencida ya no existe: revocarla es un no-op.
	n, err := rt.RevokeOne(ctx, "vencido")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestRefreshTokens_ConcurrentStoreAndRevokeAll(t *testing.T) {
	s := New()
	ctx := context.Background()
	rt := s.RefreshTokens()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		tok := "tok-" + string(rune('a'+i%26)) + string(rune('0'+i%10))
		go func(tok string) {
			defer wg.Done()
			_ = rt.Store(ctx, "acc-1", tok, exp)
		}(tok)
		go func() {
			defer wg.Done()
			_, _ = rt.RevokeAll(ctx, "acc-1")
		}()
	}
	wg.Wait()

	// Sin carreras: todo token visible sigue siendo de acc-1 y vigente.
	rows, err := rt.ListFor(ctx, "acc-1")
	require.NoError(t, err)
	for _, row := range rows {
		require.Equal(t, "acc-1", row.AccountID)
		require.True(t, row.ExpiresAt.After(time.Now()))
	}
}

func TestVaultEntries_CRUDAndSinceFilter(t *testing.T) {
	s := New()
	ctx := context.Background()
	ve := s.VaultEntries()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetNow(func() time.Time { return base })
	old, err := ve.Create(ctx, repository.CreateVaultEntryInput{
		ID: "e-1", AccountID: "acc-1", Title: "vieja", Entry: "aa", Key: "bb",
	})
	require.NoError(t, err)

	s.SetNow(func() time.Time { return base.Add(time.Hour) })
	recent, err := ve.Create(ctx, repository.CreateVaultEntryInput{
		ID: "e-2", AccountID: "acc-1", Title: "nueva", Entry: "cc", Key: "dd",
	})
	require.NoError(t, err)

	_, err = ve.Create(ctx, repository.CreateVaultEntryInput{
		ID: "e-3", AccountID: "acc-2", Title: "ajena", Entry: "ee", Key: "ff",
	})
	require.NoError(t, err)

	all, err := ve.ListFor(ctx, "acc-1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, old.ID, all[0].ID) // orden por fecha de creación

	since := base.Add(30 * time.Minute)
	filtered, err := ve.ListFor(ctx, "acc-1", &since)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, recent.ID, filtered[0].ID)

	got, err := ve.Get(ctx, "e-1")
	require.NoError(t, err)
	require.Equal(t, "vieja", got.Title)

	require.NoError(t, ve.Delete(ctx, "e-1"))
	require.ErrorIs(t, ve.Delete(ctx, "e-1"), repository.ErrNotFound)
	_, err = ve.Get(ctx, "e-1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
