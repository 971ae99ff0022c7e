package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// vaultEntryRepo implementa repository.VaultEntryRepository.
type vaultEntryRepo struct {
	pool *pgxpool.Pool
}

// NewVaultEntryRepo crea el repositorio de entradas del vault.
func NewVaultEntryRepo(pool *pgxpool.Pool) repository.VaultEntryRepository {
	return &vaultEntryRepo{pool: pool}
}

const entryColumns = `id, account_id, title, entry, key, created_at, updated_at`

func scanEntry(row pgx.Row) (*repository.VaultEntry, error) {
	var e repository.VaultEntry
	err := row.Scan(&e.ID, &e.AccountID, &e.Title, &e.Entry, &e.Key, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan vault entry: %w", err)
	}
	return &e, nil
}

func (r *vaultEntryRepo) Create(ctx context.Context, input repository.CreateVaultEntryInput) (*repository.VaultEntry, error) {
	query := `
		INSERT INTO vault_entries (id, account_id, title, entry, key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + entryColumns
	return scanEntry(r.pool.QueryRow(ctx, query,
		input.ID, input.AccountID, input.Title, input.Entry, input.Key,
	))
}

func (r *vaultEntryRepo) Get(ctx context.Context, id string) (*repository.VaultEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM vault_entries WHERE id = $1`
	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

func (r *vaultEntryRepo) ListFor(ctx context.Context, accountID string, since *time.Time) ([]repository.VaultEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM vault_entries WHERE account_id = $1`
	args := []any{accountID}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vault entries: %w", err)
	}
	defer rows.Close()

	var out []repository.VaultEntry
	for rows.Next() {
		var e repository.VaultEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Title, &e.Entry, &e.Key, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vault entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *vaultEntryRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM vault_entries WHERE id = $1`
	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete vault entry: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
