package pg

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keybox/internal/observability/logger"
)

// migrationLockID genera un ID estable para pg_advisory_lock.
func migrationLockID() int64 {
	h := sha256.Sum256([]byte("keybox_migration"))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// Migrate aplica todos los *_up.sql del FS embebido (orden lexicográfico)
// bajo advisory lock, para que varias instancias arrancando a la vez no se
// pisen. Devuelve cuántos scripts ejecutó.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) (int, error) {
	lockID := migrationLockID()

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var acquired bool
	if err := pool.QueryRow(lockCtx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !acquired {
		// Otra instancia migra: esperar el lock bloqueante con timeout.
		if _, err := pool.Exec(lockCtx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
			return 0, fmt.Errorf("wait for migration lock: %w", err)
		}
	}
	defer func() {
		if _, err := pool.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			logger.Named("migrate").Warn("release migration lock failed", logger.Err(err))
		}
	}()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	log := logger.Named("migrate")
	applied := 0
	for _, name := range files {
		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return applied, err
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		log.Info("migration applied", logger.String("file", name))
		applied++
	}
	return applied, nil
}
