package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/keybox/internal/app"
	"github.com/dropDatabas3/keybox/internal/config"
	keyboxhttp "github.com/dropDatabas3/keybox/internal/http"
	"github.com/dropDatabas3/keybox/internal/observability/logger"
	"github.com/dropDatabas3/keybox/internal/store/pg"
	migrations "github.com/dropDatabas3/keybox/migrations/postgres"
)

const purgeInterval = time.Hour

func main() {
	var (
		cfgPath string
		envFile string
		migrate bool
	)

	root := &cobra.Command{
		Use:           "keybox",
		Short:         "Backend de keybox (identidad y vault)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "ruta al archivo de configuración")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a cargar (si existe)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := boot(envFile, cfgPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate || cfg.Flags.Migrate)
		},
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "aplica migraciones antes de servir")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes y termina",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := boot(envFile, cfgPath)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg)
		},
	}

	root.AddCommand(serveCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// boot carga .env (si existe), la configuración y el logger global.
func boot(envFile, cfgPath string) (*config.Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	defer logger.Sync()
	log := logger.Named("serve")

	c, err := app.New(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer c.Close()

	metricsHandler, err := keyboxhttp.RegisterMetrics(keyboxhttp.MetricsConfig{Pool: c.PGPool})
	if err != nil {
		return err
	}

	srv := keyboxhttp.NewServer(cfg.Server.Addr, keyboxhttp.NewRouter(c, metricsHandler))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		return srv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	// Expiración perezosa: barrido periódico de refresh tokens vencidos.
	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n, err := c.RefreshTokens.PurgeExpired(gctx)
				if err != nil {
					log.Warn("purge failed", logger.Err(err))
					continue
				}
				if n > 0 {
					log.Info("expired refresh tokens purged", logger.Count(n))
				}
			}
		}
	})

	return g.Wait()
}

func runMigrations(ctx context.Context, cfg *config.Config) error {
	defer logger.Sync()

	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("migrate requiere storage.driver=postgres (actual %q)", cfg.Storage.Driver)
	}

	st, err := pg.New(ctx, pg.Options{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	applied, err := pg.Migrate(ctx, st.Pool(), migrations.FS, migrations.Dir)
	if err != nil {
		return err
	}
	logger.Named("migrate").Info("migrations applied", logger.Count(int64(applied)))
	return nil
}
