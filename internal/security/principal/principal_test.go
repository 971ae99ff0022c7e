package principal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

func usableAccount(role repository.Role) *repository.Account {
	return &repository.Account{
		PublicID:              "11111111-1111-1111-1111-111111111111",
		Email:                 "ana@example.com",
		CredentialHash:        "hash",
		CredentialSalt:        "salt",
		Role:                  role,
		Enabled:               true,
		CredentialsNonExpired: true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
	}
}

func TestFromAccount_MapsRoleToAuthority(t *testing.T) {
	p, err := FromAccount(usableAccount(repository.RoleUser))
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", p.Identity)
	require.Equal(t, []string{"ROLE_USER"}, p.Authorities)
	require.True(t, p.HasAuthority("ROLE_USER"))
	require.False(t, p.HasAuthority("ROLE_ADMIN"))

	p, err = FromAccount(usableAccount(repository.RoleAdmin))
	require.NoError(t, err)
	require.Equal(t, []string{"ROLE_ADMIN"}, p.Authorities)
}

func TestFromAccount_UnknownRoleFails(t *testing.T) {
	_, err := FromAccount(usableAccount(repository.Role("superuser")))
	require.Error(t, err)
}

func TestUsable_EveryFlagBlocks(t *testing.T) {
	mutations := []func(*repository.Account){
		func(a *repository.Account) { a.Enabled = false },
		func(a *repository.Account) { a.CredentialsNonExpired = false },
		func(a *repository.Account) { a.AccountNonExpired = false },
		func(a *repository.Account) { a.AccountNonLocked = false },
	}
	for i, mutate := range mutations {
		a := usableAccount(repository.RoleUser)
		mutate(a)
		p, err := FromAccount(a)
		require.NoError(t, err)
		require.False(t, p.Usable(), "mutation %d", i)
	}

	p, err := FromAccount(usableAccount(repository.RoleUser))
	require.NoError(t, err)
	require.True(t, p.Usable())
}
