package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/security/password"
	"github.com/dropDatabas3/keybox/internal/security/principal"
	"github.com/dropDatabas3/keybox/internal/token"
	"github.com/dropDatabas3/keybox/internal/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // segundos de vida del access token
}

// issuePair emite un par access/refresh para la cuenta y persiste el refresh.
func issuePair(ctx context.Context, c *app.Container, acc *repository.Account) (tokenPairResponse, error) {
	access, _, err := c.Codec.Issue(acc.Email, token.KindAccess)
	if err != nil {
		return tokenPairResponse{}, err
	}
	refresh, refreshExp, err := c.Codec.Issue(acc.Email, token.KindRefresh)
	if err != nil {
		return tokenPairResponse{}, err
	}
	if err := c.RefreshTokens.Store(ctx, acc.PublicID, refresh, refreshExp); err != nil {
		return tokenPairResponse{}, err
	}
	return tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(c.Cfg.AccessTTL().Seconds()),
	}, nil
}

// NewLoginHandler autentica con email y contraseña y emite un par de tokens.
// Todo fallo de credenciales responde el mismo 401 fijo; el detalle queda
// sólo en el log.
func NewLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := readJSON(w, r, &req); err != nil {
			apierror.Write(w, r, err)
			return
		}

		var vc validation.Collector
		vc.Check("email", req.Email, validation.Email)
		vc.Check("password", req.Password, validation.NotEmpty)
		if err := vc.Err(); err != nil {
			apierror.Write(w, r, err)
			return
		}

		log := logger.From(r.Context())

		acc, err := c.Accounts.FindByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn("login rejected", logger.String("reason", "unknown email"))
				apierror.Write(w, r, apierror.Unauthorized(err))
				return
			}
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		if !password.Verify(password.Default, req.Password, acc.CredentialHash, acc.CredentialSalt) {
			log.Warn("login rejected",
				logger.AccountID(acc.PublicID),
				logger.String("reason", "bad credentials"))
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		p, err := principal.FromAccount(acc)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}
		if !p.Usable() {
			log.Warn("login rejected",
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

		log.Info("login ok", logger.AccountID(acc.PublicID))
		writeJSON(w, http.StatusOK, pair)
	}
}
