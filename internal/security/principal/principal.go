// Package principal construye la vista autenticada de una cuenta para la
// duración de un request. Nunca se persiste; se reconstruye en cada request.
package principal

import (
	"fmt"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// Principal es la identidad autenticada y sus atributos de autorización.
// CredentialHash es sólo para comparación interna: no se serializa hacia
// afuera (sin tags json a propósito).
type Principal struct {
	Identity       string // email
	PublicID       string
	CredentialHash string
	CredentialSalt string

	Enabled               bool
	CredentialsNonExpired bool
	AccountNonExpired     bool
	AccountNonLocked      bool

	// Authorities derivadas del rol único de la cuenta.
	Authorities []string
}

// authorityFor mapea el rol de la cuenta a su authority.
// Cerrado: un rol desconocido es un bug de integridad de datos.
var authorityFor = map[repository.Role]string{
	repository.RoleUser:  "ROLE_USER",
	repository.RoleAdmin: "ROLE_ADMIN",
}

// FromAccount convierte una cuenta en su Principal.
// Función pura y total: sólo falla si el rol no mapea a una authority
// conocida, lo que señala datos corruptos (fatal, no se reintenta).
func FromAccount(a *repository.Account) (*Principal, error) {
	auth, ok := authorityFor[a.Role]
	if !ok {
		return nil, fmt.Errorf("principal: rol desconocido %q para cuenta %s", a.Role, a.PublicID)
	}
	return &Principal{
		Identity:              a.Email,
		PublicID:              a.PublicID,
		CredentialHash:        a.CredentialHash,
		CredentialSalt:        a.CredentialSalt,
		Enabled:               a.Enabled,
		CredentialsNonExpired: a.CredentialsNonExpired,
		AccountNonExpired:     a.AccountNonExpired,
		AccountNonLocked:      a.AccountNonLocked,
		Authorities:           []string{auth},
	}, nil
}

// Usable indica si la cuenta puede operar (habilitada, no bloqueada, vigente).
func (p *Principal) Usable() bool {
	return p.Enabled && p.AccountNonExpired && p.AccountNonLocked && p.CredentialsNonExpired
}

// HasAuthority chequea si el principal posee la authority dada.
func (p *Principal) HasAuthority(a string) bool {
	for _, have := range p.Authorities {
		if have == a {
			return true
		}
	}
	return false
}
