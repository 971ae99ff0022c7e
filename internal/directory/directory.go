// Package directory expone el directorio de cuentas que consume el gate de
// autenticación, con un cache de lectura corto adelante: el gate hace un
// lookup por request y las cuentas casi nunca cambian.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/keybox/internal/cache"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
)

// Cached decora un AccountRepository con cache por email.
// Sólo cachea hits; los errores del cache se degradan a ir al repo.
type Cached struct {
	repo  repository.AccountRepository
	cache cache.Client
	ttl   time.Duration
}

// New crea el directorio cacheado.
func New(repo repository.AccountRepository, c cache.Client, ttl time.Duration) *Cached {
	return &Cached{repo: repo, cache: c, ttl: ttl}
}

func (d *Cached) cacheKey(email string) string { return "account:email:" + email }

// FindByEmail busca primero en cache, después en el repo.
func (d *Cached) FindByEmail(ctx context.Context, email string) (*repository.Account, error) {
	key := d.cacheKey(email)
	if b, err := d.cache.Get(ctx, key); err == nil {
		var a repository.Account
		if json.Unmarshal(b, &a) == nil {
			return &a, nil
		}
		// Entrada corrupta: descartarla y seguir al repo.
		_ = d.cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrNotFound) {
		logger.Named("directory").Warn("cache get failed", logger.Err(err), logger.Email(email))
	}

	a, err := d.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(a); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return a, nil
}

// FindByPublicID delega directo al repo (el gate resuelve por email).
func (d *Cached) FindByPublicID(ctx context.Context, publicID string) (*repository.Account, error) {
	return d.repo.FindByPublicID(ctx, publicID)
}

// Create delega al repo e invalida la key del email por las dudas.
func (d *Cached) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	a, err := d.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	_ = d.cache.Delete(ctx, d.cacheKey(input.Email))
	return a, nil
}
