package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/security/principal"
	"github.com/dropDatabas3/keybox/internal/token"
)

// =================================================================================
// AUTHENTICATION GATE
// =================================================================================

// Gate es la máquina de estados por request: UNAUTHENTICATED al entrar,
// AUTHENTICATED si hay un bearer ACCESS válido con cuenta viva.
//
//   - Sin header Authorization, o sin el esquema "Bearer ": el request sigue
//     anónimo y la autorización downstream decide (hay rutas públicas).
//   - Bearer presente pero inválido (firma, issuer, audiencia, expirado, kind
//     REFRESH, o la cuenta ya no existe): corta acá con el 401 fijo. El motivo
//     real sólo se loguea; el cliente recibe siempre el mismo mensaje.
//   - Bearer válido: resuelve la cuenta, arma el Principal y lo deja en el
//     contexto del request. Sin efectos colaterales: cero writes.
func Gate(codec *token.Codec, accounts repository.AccountRepository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(ah, "Bearer ") {
				// Anónimo: rutas públicas siguen funcionando.
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])
			log := logger.From(r.Context())

			// Sólo tokens ACCESS pasan el gate; un REFRESH en ruta protegida
			// cae por la audiencia, igual que cualquier token inválido.
			v, err := codec.VerifyKind(raw, token.KindAccess)
			if err != nil {
				log.Warn("bearer token rejected", logger.Err(err))
				apierror.Write(w, r, apierror.Unauthorized(err))
				return
			}

			acct, err := accounts.FindByEmail(r.Context(), v.Subject)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Cuenta desaparecida: indistinguible de token inválido
					// hacia afuera (anti-enumeración); el detalle va al log.
					log.Warn("bearer subject has no account", logger.Email(v.Subject))
					apierror.Write(w, r, apierror.Unauthorized(err))
					return
				}
				apierror.Write(w, r, apierror.Internal(err))
				return
			}

			p, err := principal.FromAccount(acct)
			if err != nil {
				// Rol sin authority conocida: bug de integridad de datos.
				apierror.Write(w, r, apierror.Internal(err))
				return
			}
			if !p.Usable() {
				log.Warn("account not usable", logger.AccountID(p.PublicID))
				apierror.Write(w, r, apierror.Unauthorized(errors.New("account disabled, locked or expired")))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequirePrincipal corta con el 401 fijo si el request llegó anónimo.
// Debe ir después de Gate en las rutas protegidas.
func RequirePrincipal() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPrincipal(r.Context()) == nil {
				apierror.Write(w, r, apierror.Unauthorized(errors.New("missing bearer token")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthority exige una authority puntual (autenticado pero sin
// permisos => 403 con mensaje del caller).
func RequireAuthority(authority, msg string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				apierror.Write(w, r, apierror.Unauthorized(errors.New("missing bearer token")))
				return
			}
			if !p.HasAuthority(authority) {
				apierror.Write(w, r, apierror.Forbidden(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
