package handlers

import (
	"net/http"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/http/middlewares"
)

type meResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Authorities []string `json:"authorities"`
	Sessions    int      `json:"sessions"` // refresh tokens vivos
}

// NewMeHandler muestra la identidad autenticada. Nunca expone credenciales.
func NewMeHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		live, err := c.RefreshTokens.ListFor(r.Context(), p.PublicID)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		writeJSON(w, http.StatusOK, meResponse{
			ID:          p.PublicID,
			Email:       p.Identity,
			Authorities: p.Authorities,
			Sessions:    len(live),
		})
	}
}
