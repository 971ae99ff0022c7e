package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/security/password"
	"github.com/dropDatabas3/keybox/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewRegisterHandler registra una cuenta nueva con rol "user".
func NewRegisterHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := readJSON(w, r, &req); err != nil {
			apierror.Write(w, r, err)
			return
		}

		var vc validation.Collector
		vc.Check("email", req.Email, validation.Email)
		vc.Check("password", req.Password, validation.Password)
		if err := vc.Err(); err != nil {
			apierror.Write(w, r, err)
			return
		}

		hash, salt, err := password.Hash(password.Default, req.Password)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		acc, err := c.Accounts.Create(r.Context(), repository.CreateAccountInput{
			PublicID:       uuid.NewString(),
			Email:          req.Email,
			CredentialHash: hash,
			CredentialSalt: salt,
			Role:           repository.RoleUser,
		})
		if err != nil {
			apierror.Write(w, r, apierror.FromError(err))
			return
		}

		logger.From(r.Context()).Info("account registered",
			logger.AccountID(acc.PublicID))

		writeJSON(w, http.StatusCreated, registerResponse{
			ID:    acc.PublicID,
			Email: acc.Email,
			Role:  string(acc.Role),
		})
	}
}
