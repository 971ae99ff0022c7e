// Package memory implementa los repositorios in-process (desarrollo/tests).
// Un único mutex por store hace cada operación atómica, el mismo contrato
// que da PostgreSQL con statements únicos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// Store guarda todo en mapas protegidos por mutex.
type Store struct {
	mu sync.Mutex

	accountsByEmail map[string]*repository.Account
	accountsByID    map[string]*repository.Account
	refresh         map[string]repository.RefreshToken // token -> fila
	entries         map[string]*repository.VaultEntry

	// now inyectable para tests de expiración.
	now func() time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		accountsByEmail: map[string]*repository.Account{},
		accountsByID:    map[string]*repository.Account{},
		refresh:         map[string]repository.RefreshToken{},
		entries:         map[string]*repository.VaultEntry{},
		now:             time.Now,
	}
}

// SetNow reemplaza el reloj (tests).
func (s *Store) SetNow(now func() time.Time) { s.now = now }

// Accounts retorna la vista AccountRepository.
func (s *Store) Accounts() repository.AccountRepository { return (*accountRepo)(s) }

// RefreshTokens retorna la vista RefreshTokenRepository.
func (s *Store) RefreshTokens() repository.RefreshTokenRepository { return (*refreshTokenRepo)(s) }

// VaultEntries retorna la vista VaultEntryRepository.
func (s *Store) VaultEntries() repository.VaultEntryRepository { return (*vaultEntryRepo)(s) }

// ─────────────────────────────────────────────
// AccountRepository
// ─────────────────────────────────────────────

type accountRepo Store

func (r *accountRepo) FindByEmail(_ context.Context, email string) (*repository.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accountsByEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) FindByPublicID(_ context.Context, publicID string) (*repository.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accountsByID[publicID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) Create(_ context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accountsByEmail[input.Email]; exists {
		return nil, repository.ErrDuplicateEmail
	}
	a := &repository.Account{
		PublicID:              input.PublicID,
		Email:                 input.Email,
		CredentialHash:        input.CredentialHash,
		CredentialSalt:        input.CredentialSalt,
		Role:                  input.Role,
		Enabled:               true,
		CredentialsNonExpired: true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CreatedAt:             r.now().UTC(),
	}
	r.accountsByEmail[a.Email] = a
	r.accountsByID[a.PublicID] = a
	cp := *a
	return &cp, nil
}

// Put inserta o reemplaza una cuenta tal cual (seed de tests).
func (s *Store) Put(a *repository.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accountsByEmail[cp.Email] = &cp
	s.accountsByID[cp.PublicID] = &cp
}

// ─────────────────────────────────────────────
// RefreshTokenRepository
// ─────────────────────────────────────────────

type refreshTokenRepo Store

func (r *refreshTokenRepo) Store(_ context.Context, accountID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh[token] = repository.RefreshToken{
		Token:     token,
		AccountID: accountID,
		IssuedAt:  r.now().UTC(),
		ExpiresAt: expiresAt,
	}
	return nil
}

func (r *refreshTokenRepo) RevokeOne(_ context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refresh[token]; !ok {
		return 0, nil
	}
	delete(r.refresh, token)
	return 1, nil
}

func (r *refreshTokenRepo) RevokeAll(_ context.Context, accountID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for tok, row := range r.refresh {
		if row.AccountID == accountID {
			delete(r.refresh, tok)
			n++
		}
	}
	return n, nil
}

func (r *refreshTokenRepo) ListFor(_ context.Context, accountID string) ([]repository.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var out []repository.RefreshToken
	for _, row := range r.refresh {
		if row.AccountID == accountID && row.ExpiresAt.After(now) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}

func (r *refreshTokenRepo) PurgeExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var n int64
	for tok, row := range r.refresh {
		if !row.ExpiresAt.After(now) {
			delete(r.refresh, tok)
			n++
		}
	}
	return n, nil
}

// ─────────────────────────────────────────────
// VaultEntryRepository
// ─────────────────────────────────────────────

type vaultEntryRepo Store

func (r *vaultEntryRepo) Create(_ context.Context, input repository.CreateVaultEntryInput) (*repository.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	e := &repository.VaultEntry{
		ID:        input.ID,
		AccountID: input.AccountID,
		Title:     input.Title,
		Entry:     input.Entry,
		Key:       input.Key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.entries[e.ID] = e
	cp := *e
	return &cp, nil
}

func (r *vaultEntryRepo) Get(_ context.Context, id string) (*repository.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *vaultEntryRepo) ListFor(_ context.Context, accountID string, since *time.Time) ([]repository.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.VaultEntry
	for _, e := range r.entries {
		if e.AccountID != accountID {
			continue
		}
		if since != nil && e.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *vaultEntryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
