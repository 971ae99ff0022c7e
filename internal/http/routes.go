// Package http arma el router del servicio: middlewares globales, rutas
// públicas y el grupo protegido detrás del gate de autenticación.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/http/apierror"
	"github.com/dropDatabas3/keybox/internal/http/handlers"
	"github.com/dropDatabas3/keybox/internal/http/middlewares"
)

// NewRouter construye el router completo. metricsHandler puede ser nil si
// /metrics no se expone.
func NewRouter(c *app.Container, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	// Middlewares globales. El gate corre en TODAS las rutas: sin Bearer el
	// request sigue anónimo y cada ruta decide si lo exige.
	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithLogging())
	r.Use(WithMetrics)
	r.Use(middlewares.WithRecover())
	r.Use(middlewares.Gate(c.Codec, c.Accounts))

	// Ruta desconocida y método no soportado también pasan por el traductor
	// de errores: mismo envelope JSON que cualquier otro fallo.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apierror.Write(w, req, apierror.UnknownRoute())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apierror.Write(w, req, apierror.MethodNotAllowed())
	})

	// Salud
	r.Get("/healthz", handlers.NewHealthzHandler())
	r.Get("/readyz", handlers.NewReadyzHandler(c))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Auth pública
	r.Post("/v1/auth/register", handlers.NewRegisterHandler(c))
	r.Post("/v1/auth/login", handlers.NewLoginHandler(c))
	r.Post("/v1/auth/refresh", handlers.NewRefreshHandler(c))

	// Rutas protegidas
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequirePrincipal())

		r.Post("/v1/auth/logout", handlers.NewLogoutHandler(c))
		r.Post("/v1/auth/logout-all", handlers.NewLogoutAllHandler(c))
		r.Get("/v1/me", handlers.NewMeHandler(c))

		r.Get("/v1/vault/entries", handlers.NewVaultListHandler(c))
		r.Post("/v1/vault/entries", handlers.NewVaultCreateHandler(c))
		r.Get("/v1/vault/entries/{id}", handlers.NewVaultGetHandler(c))
		r.Delete("/v1/vault/entries/{id}", handlers.NewVaultDeleteHandler(c))
		r.Get("/v1/vault/keys", handlers.NewVaultKeysHandler(c))
	})

	return r
}
