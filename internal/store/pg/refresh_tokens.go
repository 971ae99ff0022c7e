package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// refreshTokenRepo implementa repository.RefreshTokenRepository.
// Cada operación es un único statement SQL: la atomicidad contra RevokeAll
// concurrente la da el motor, sin read-modify-write del lado Go.
type refreshTokenRepo struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepo crea el repositorio de refresh tokens.
func NewRefreshTokenRepo(pool *pgxpool.Pool) repository.RefreshTokenRepository {
	return &refreshTokenRepo{pool: pool}
}

func (r *refreshTokenRepo) Store(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	const q = `
		INSERT INTO refresh_tokens (token, account_id, issued_at, expires_at)
		VALUES ($1, $2, NOW(), $3)`
	if _, err := r.pool.Exec(ctx, q, token, accountID, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepo) RevokeOne(ctx context.Context, token string) (int64, error) {
	const q = `DELETE FROM refresh_tokens WHERE token = $1`
	ct, err := r.pool.Exec(ctx, q, token)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh token: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *refreshTokenRepo) RevokeAll(ctx context.Context, accountID string) (int64, error) {
	const q = `DELETE FROM refresh_tokens WHERE account_id = $1`
	ct, err := r.pool.Exec(ctx, q, accountID)
	if err != nil {
		return 0, fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *refreshTokenRepo) ListFor(ctx context.Context, accountID string) ([]repository.RefreshToken, error) {
	const q = `
		SELECT token, account_id, issued_at, expires_at
		FROM refresh_tokens
		WHERE account_id = $1 AND expires_at > NOW()
		ORDER BY issued_at`
	rows, err := r.pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("list refresh tokens: %w", err)
	}
	defer rows.Close()

	var out []repository.RefreshToken
	for rows.Next() {
		var t repository.RefreshToken
		if err := rows.Scan(&t.Token, &t.AccountID, &t.IssuedAt, &t.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan refresh token: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *refreshTokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`
	ct, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return ct.RowsAffected(), nil
}
