package handlers

import (
	"net/http"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/http/middlewares"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/validation"
)

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// NewLogoutHandler revoca un refresh token puntual (cierre de sesión en un
// dispositivo). Revocar un token ya desconocido es un no-op: 204 igual.
func NewLogoutHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logoutRequest
		if err := readJSON(w, r, &req); err != nil {
			apierror.Write(w, r, err)
			return
		}

		var vc validation.Collector
		vc.Check("refreshToken", req.RefreshToken, validation.NotEmpty)
		if err := vc.Err(); err != nil {
			apierror.Write(w, r, err)
			return
		}

		removed, err := c.RefreshTokens.RevokeOne(r.Context(), req.RefreshToken)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		logger.From(r.Context()).Info("logout", logger.Count(removed))
		writeJSON(w, http.StatusNoContent, nil)
	}
}

type logoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

// NewLogoutAllHandler revoca todas las sesiones de la cuenta autenticada.
func NewLogoutAllHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		removed, err := c.RefreshTokens.RevokeAll(r.Context(), p.PublicID)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		logger.From(r.Context()).Info("logout everywhere",
			logger.AccountID(p.PublicID),
			logger.Count(removed))
		writeJSON(w, http.StatusOK, logoutAllResponse{Revoked: removed})
	}
}
