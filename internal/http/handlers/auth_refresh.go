package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/security/principal"
	"github.com/dropDatabas3/keybox/internal/token"
	"github.com/dropDatabas3/keybox/internal/validation"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshHandler rota un refresh token: lo consume atómicamente y emite un
// par nuevo. Un token ya consumido, revocado, expirado o de kind equivocado
// responde el mismo 401 fijo.
func NewRefreshHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
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

		log := logger.From(r.Context())

		v, err := c.Codec.VerifyKind(req.RefreshToken, token.KindRefresh)
		if err != nil {
			log.Warn("refresh rejected", logger.Err(err))
			apierror.Write(w, r, apierror.Unauthorized(err))
			return
		}

		// El consumo y el chequeo de vigencia son la misma operación: si la
		// fila ya no existe (revocada o rotada por otra request) no hay nada
		// que rotar.
		removed, err := c.RefreshTokens.RevokeOne(r.Context(), req.RefreshToken)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}
		if removed == 0 {
			log.Warn("refresh rejected", logger.String("reason", "token not live"))
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		acc, err := c.Accounts.FindByEmail(r.Context(), v.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn("refresh rejected", logger.String("reason", "account gone"))
				apierror.Write(w, r, apierror.Unauthorized(err))
				return
			}
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		p, err := principal.FromAccount(acc)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}
		if !p.Usable() {
			log.Warn("refresh rejected",
				logger.AccountID(acc.PublicID),
				logger.String("reason", "account unusable"))
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		pair, err := issuePair(r.Context(), c, acc)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		log.Info("token pair rotated", logger.AccountID(acc.PublicID))
		writeJSON(w, http.StatusOK, pair)
	}
}
