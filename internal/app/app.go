// Package app arma las dependencias del servicio: construcción explícita y
// pasaje por parámetro, sin contenedores mágicos ni inyección por reflexión.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keybox/internal/cache"
	"github.com/dropDatabas3/keybox/internal/config"
	"github.com/dropDatabas3/keybox/internal/directory"
	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/store/memory"
	"github.com/dropDatabas3/keybox/internal/store/pg"
	"github.com/dropDatabas3/keybox/internal/token"
	migrations "github.com/dropDatabas3/keybox/migrations/postgres"
)

// Container agrupa los colaboradores ya construidos.
type Container struct {
	Cfg *config.Config

	Codec         *token.Codec
	Accounts      repository.AccountRepository
	RefreshTokens repository.RefreshTokenRepository
	VaultEntries  repository.VaultEntryRepository

	// Ready verifica que el backing store responda (readyz).
	Ready func(ctx context.Context) error

	// PGPool expone el pool de postgres para métricas (nil con driver memory).
	PGPool func() *pgxpool.Pool

	closers []func()
}

// New construye el contenedor según la configuración.
// migrate fuerza la aplicación de migraciones antes de servir (sólo postgres).
func New(ctx context.Context, cfg *config.Config, migrate bool) (*Container, error) {
	codec, err := token.New(token.Options{
		Secret:          cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		AccessAudience:  cfg.JWT.AccessAudience,
		RefreshAudience: cfg.JWT.RefreshAudience,
		AccessTTL:       cfg.AccessTTL(),
		RefreshTTL:      cfg.RefreshTTL(),
	})
	if err != nil {
		return nil, err
	}

	c := &Container{Cfg: cfg, Codec: codec}

	switch cfg.Storage.Driver {
	case "memory":
		st := memory.New()
		c.Accounts = st.Accounts()
		c.RefreshTokens = st.RefreshTokens()
		c.VaultEntries = st.VaultEntries()
		c.Ready = func(context.Context) error { return nil }

	case "postgres":
		st, err := pg.New(ctx, pg.Options{
			DSN:             cfg.Storage.DSN,
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		c.closers = append(c.closers, st.Close)

		if migrate {
			if _, err := pg.Migrate(ctx, st.Pool(), migrations.FS, migrations.Dir); err != nil {
				c.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}

		c.Accounts = pg.NewAccountRepo(st.Pool())
		c.RefreshTokens = pg.NewRefreshTokenRepo(st.Pool())
		c.VaultEntries = pg.NewVaultEntryRepo(st.Pool())
		c.Ready = func(ctx context.Context) error { return st.Pool().Ping(ctx) }
		c.PGPool = st.Pool

	default:
		return nil, fmt.Errorf("storage.driver desconocido: %q", cfg.Storage.Driver)
	}

	// Cache de lectura delante del directorio de cuentas (un lookup por request).
	cc := cache.New(cache.Config{
		Kind:   cfg.Cache.Kind,
		Addr:   cfg.Cache.Redis.Addr,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Redis.Prefix,
		TTL:    cfg.CacheTTL(),
	})
	c.closers = append(c.closers, func() { _ = cc.Close() })
	c.Accounts = directory.New(c.Accounts, cc, cfg.CacheTTL())

	return c, nil
}

// Close libera pools y conexiones (idempotente).
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
