package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/http/middlewares"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/validation"
)

type vaultEntryRequest struct {
	Title string `json:"title"`
	Entry string `json:"entry"`
	Key   string `json:"key"`
}

type vaultEntryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Entry     string    `json:"entry"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toVaultEntryResponse(e *repository.VaultEntry) vaultEntryResponse {
	return vaultEntryResponse{
		ID:        e.ID,
		Title:     e.Title,
		Entry:     e.Entry,
		Key:       e.Key,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewVaultListHandler lista las entradas de la cuenta autenticada.
// El query param opcional `since` (dd/MM/yyyyTHH:mm:ss.SSSZ) filtra por fecha
// de creación; un valor malformado es error de validación.
func NewVaultListHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		var since *time.Time
		if raw := r.URL.Query().Get("since"); raw != "" {
			var vc validation.Collector
			vc.Check("since", raw, validation.Timestamp)
			if err := vc.Err(); err != nil {
				apierror.Write(w, r, err)
				return
			}
			t, err := time.ParseInLocation(apierror.TimestampLayout, raw, time.UTC)
			if err != nil {
				apierror.Write(w, r, apierror.BadRequest("since must be a valid timestamp"))
				return
			}
			since = &t
		}

		entries, err := c.VaultEntries.ListFor(r.Context(), p.PublicID, since)
		if err != nil {
			apierror.Write(w, r, apierror.Internal(err))
			return
		}

		out := make([]vaultEntryResponse, 0, len(entries))
		for i := range entries {
			out = append(out, toVaultEntryResponse(&entries[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// NewVaultCreateHandler crea una entrada. Entry y Key deben ser blobs hex:
// el servidor nunca ve material en claro.
func NewVaultCreateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		var req vaultEntryRequest
		if err := readJSON(w, r, &req); err != nil {
			apierror.Write(w, r, err)
			return
		}

		var vc validation.Collector
		vc.Check("title", req.Title, validation.NotEmpty)
		vc.Check("entry", req.Entry, validation.Hex)
		vc.Check("key", req.Key, validation.Hex)
		if err := vc.Err(); err != nil {
			apierror.Write(w, r, err)
			return
		}

		entry, err := c.VaultEntries.Create(r.Context(), repository.CreateVaultEntryInput{
			ID:        uuid.NewString(),
			AccountID: p.PublicID,
			Title:     req.Title,
			Entry:     req.Entry,
			Key:       req.Key,
		})
		if err != nil {
			apierror.Write(w, r, apierror.FromError(err))
			return
		}

		logger.From(r.Context()).Info("vault entry created",
			logger.AccountID(p.PublicID),
			logger.EntryID(entry.ID))
		writeJSON(w, http.StatusCreated, toVaultEntryResponse(entry))
	}
}

// fetchOwned resuelve una entrada por ID y chequea pertenencia.
// Ajena responde 403 con mensaje del caso; inexistente 404.
func fetchOwned(r *http.Request, c *app.Container, accountID string) (*repository.VaultEntry, error) {
	id := chi.URLParam(r, "id")
	if msgs := validation.NotEmpty(id); len(msgs) > 0 {
		return nil, apierror.BadRequest("entry id is required")
	}

	entry, err := c.VaultEntries.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Vault entry was not found")
		}
		return nil, apierror.Internal(err)
	}
	if entry.AccountID != accountID {
		return nil, apierror.Forbidden("You do not own this vault entry")
	}
	return entry, nil
}

// NewVaultGetHandler obtiene una entrada propia por ID.
func NewVaultGetHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		entry, err := fetchOwned(r, c, p.PublicID)
		if err != nil {
			apierror.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toVaultEntryResponse(entry))
	}
}

// NewVaultDeleteHandler elimina una entrada propia por ID.
func NewVaultDeleteHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middlewares.GetPrincipal(r.Context())
		if p == nil {
			apierror.Write(w, r, apierror.Unauthorized(nil))
			return
		}

		entry, err := fetchOwned(r, c, p.PublicID)
		if err != nil {
			apierror.Write(w, r, err)
			return
		}

		if err := c.VaultEntries.Delete(r.Context(), entry.ID); err != nil {
			apierror.Write(w, r, apierror.FromError(err))
			return
		}

		logger.From(r.Context()).Info("vault entry deleted",
			logger.AccountID(p.PublicID),
			logger.EntryID(entry.ID))
		writeJSON(w, http.StatusNoContent, nil)
	}
}
