package repository

import (
	"context"
	"time"
)

// VaultEntry es una entrada del vault de un usuario.
// Entry y Key son blobs hex opacos para este subsistema: el esquema de
// cifrado vive del lado del cliente.
type VaultEntry struct {
	ID        string // UUID
	AccountID string // identificador público del dueño
	Title     string
	Entry     string // blob hex
	Key       string // blob hex
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateVaultEntryInput contiene los datos para crear una entrada.
type CreateVaultEntryInput struct {
	ID        string
	AccountID string
	Title     string
	Entry     string
	Key       string
}

// VaultEntryRepository define el CRUD de entradas del vault.
type VaultEntryRepository interface {
	// Create inserta una entrada nueva.
	Create(ctx context.Context, input CreateVaultEntryInput) (*VaultEntry, error)

	// Get obtiene una entrada por ID. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, id string) (*VaultEntry, error)

	// ListFor retorna las entradas de una cuenta, opcionalmente creadas
	// desde `since` (filtro inclusivo), ordenadas por fecha de creación.
	ListFor(ctx context.Context, accountID string, since *time.Time) ([]VaultEntry, error)

	// Delete elimina una entrada por ID. Retorna ErrNotFound si no existía.
	Delete(ctx context.Context, id string) error
}
