package repository

import (
	"context"
	"time"
)

// Role es el rol único de una cuenta.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account representa una cuenta del sistema.
// El identificador público (PublicID) es un UUID opaco y estable; nunca se
// expone la clave interna de almacenamiento.
type Account struct {
	PublicID string // UUID, inmutable una vez asignado
	Email    string // único, case-sensitive tal como se guarda

	// Credenciales: hash argon2id + salt, sólo para comparación interna.
	CredentialHash string
	CredentialSalt string

	Role Role

	// Flags de estado
	Enabled               bool
	CredentialsNonExpired bool
	AccountNonExpired     bool
	AccountNonLocked      bool

	CreatedAt time.Time
}

// CreateAccountInput contiene los datos para registrar una cuenta.
type CreateAccountInput struct {
	PublicID       string
	Email          string
	CredentialHash string
	CredentialSalt string
	Role           Role
}

// AccountRepository define operaciones sobre cuentas.
// El subsistema de identidad sólo lee cuentas; Create existe para el flujo
// de registro (sign-up).
type AccountRepository interface {
	// FindByEmail busca una cuenta por email exacto.
	// Retorna ErrNotFound si no existe.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByPublicID busca una cuenta por su identificador público.
	// Retorna ErrNotFound si no existe.
	FindByPublicID(ctx context.Context, publicID string) (*Account, error)

	// Create inserta una cuenta nueva.
	// Retorna ErrDuplicateEmail si el email ya está registrado.
	Create(ctx context.Context, input CreateAccountInput) (*Account, error)
}
