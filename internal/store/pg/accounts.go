package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// accountRepo implementa repository.AccountRepository.
type accountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo crea el repositorio de cuentas.
func NewAccountRepo(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepo{pool: pool}
}

const accountColumns = `public_id, email, credential_hash, credential_salt, role,
	enabled, credentials_non_expired, account_non_expired, account_non_locked, created_at`

func scanAccount(row pgx.Row) (*repository.Account, error) {
	var a repository.Account
	var role string
	err := row.Scan(
		&a.PublicID, &a.Email, &a.CredentialHash, &a.CredentialSalt, &role,
		&a.Enabled, &a.CredentialsNonExpired, &a.AccountNonExpired, &a.AccountNonLocked,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Role = repository.Role(role)
	return &a, nil
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*repository.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepo) FindByPublicID(ctx context.Context, publicID string) (*repository.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE public_id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, publicID))
}

func (r *accountRepo) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	query := `
		INSERT INTO accounts (
			public_id, email, credential_hash, credential_salt, role,
			enabled, credentials_non_expired, account_non_expired, account_non_locked,
			created_at
		) VALUES ($1, $2, $3, $4, $5, TRUE, TRUE, TRUE, TRUE, NOW())
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query,
		input.PublicID, input.Email, input.CredentialHash, input.CredentialSalt, string(input.Role),
	))
	if err != nil {
		// 23505 = unique_violation (email único)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return a, nil
}
