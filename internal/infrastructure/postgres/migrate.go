package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations archivos SQL embebidos (anotados para goose), relativos a migrations/.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // el patrón de embed garantiza el directorio
	}
	return sub
}

// Migrate aplica con goose las migraciones pendientes y devuelve los archivos aplicados.
// goose registra la versión en goose_db_version y corre cada archivo en su propia tx;
// un advisory lock evita que dos procesos migren a la vez.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, fmt.Errorf("preparar lock de migraciones: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations(), goose.WithSessionLocker(locker))
	if err != nil {
		return nil, fmt.Errorf("preparar migraciones: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) {
			applied := appliedNames(partial.Applied)
			return applied, fmt.Errorf("aplicar %s: %w", filepath.Base(partial.Failed.Source.Path), partial.Err)
		}
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	return appliedNames(results), nil
}

func appliedNames(results []*goose.MigrationResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		name := filepath.Base(r.Source.Path)
		log.Info().Str("migration", name).Dur("duration", r.Duration).Msg("migración aplicada")
		names = append(names, name)
	}
	return names
}
