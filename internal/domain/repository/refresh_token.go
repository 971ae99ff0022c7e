package repository

import (
	"context"
	"time"
)

// RefreshToken representa un refresh token persistido.
// Una fila existe sólo entre la emisión y lo primero que ocurra entre
// revocación explícita o expiración. Se permiten varios tokens vivos por
// cuenta (sesiones multi-dispositivo).
type RefreshToken struct {
	Token     string // string firmado opaco
	AccountID string // identificador público de la cuenta dueña
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshTokenRepository define operaciones sobre refresh tokens.
//
// Cada operación debe ser atómica contra el backing store: un Store
// concurrente con un RevokeAll de la misma cuenta o queda antes del delete
// (y es removido) o después (y sobrevive); nunca duplicados silenciosos por
// carreras read-then-delete.
type RefreshTokenRepository interface {
	// Store persiste un token emitido para la cuenta.
	Store(ctx context.Context, accountID, token string, expiresAt time.Time) error

	// RevokeOne elimina un token puntual (sign-out).
	// Retorna cuántas filas removió: 0 significa token desconocido o ya revocado.
	RevokeOne(ctx context.Context, token string) (int64, error)

	// RevokeAll elimina todos los tokens de la cuenta (sign-out everywhere,
	// cambio de contraseña, baja de cuenta). Retorna cuántas filas removió.
	RevokeAll(ctx context.Context, accountID string) (int64, error)

	// ListFor retorna los tokens vivos (no expirados) de la cuenta.
	ListFor(ctx context.Context, accountID string) ([]RefreshToken, error)

	// PurgeExpired elimina filas expiradas (expiración perezosa).
	PurgeExpired(ctx context.Context) (int64, error)
}
