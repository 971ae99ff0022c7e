package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
)

const (
	keyBytes    = 32
	maxKeyCount = 100
)

type vaultKeysResponse struct {
	Keys []string `json:"keys"`
}

// NewVaultKeysHandler genera claves aleatorias en hex para cifrado del lado
// del cliente. `count` debe ser un entero entre 1 y 100.
func NewVaultKeysHandler(_ *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("count")
		if raw == "" {
			raw = "1"
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxKeyCount {
			apierror.Write(w, r, apierror.BadRequest("count must be an integer between 1 and 100"))
			return
		}

		keys := make([]string, 0, n)
		for i := 0; i < n; i++ {
			buf := make([]byte, keyBytes)
			if _, err := rand.Read(buf); err != nil {
				apierror.Write(w, r, apierror.Internal(err))
				return
			}
			keys = append(keys, hex.EncodeToString(buf))
		}
		writeJSON(w, http.StatusOK, vaultKeysResponse{Keys: keys})
	}
}
