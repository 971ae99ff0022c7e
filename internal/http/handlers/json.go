// Package handlers contiene los http.HandlerFunc del API. Cada handler se
// construye con sus dependencias explícitas y delega la traducción de errores
// en apierror.
package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/dropDatabas3/keybox/internal/http/apierror"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// readJSON decodifica el body en dst. Content-Type distinto de
// application/json corta con 415; body ilegible o malformado con 400.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return apierror.UnsupportedMedia()
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apierror.MalformedBody(err)
	}
	return nil
}

// writeJSON serializa v con el status dado. Un status 204 no lleva body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	if status == http.StatusNoContent || v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
