// backfill_ledger siembra las tablas del ledger de créditos para cada proveedor a partir de
// user_metadata.credits y user_metadata.creditHistory.
//
// Uso: go run ./cmd/backfill_ledger [-dry-run] [-page-size 200]
// Es idempotente: los proveedores que ya tienen cuenta se saltan.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/supabase"
	"github.com/jhoicas/privat-admin-api/pkg/config"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "solo lista los proveedores que se sembrarían")
	pageSize := flag.Int("page-size", 200, "identidades por página del API admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("backfill")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones del ledger")
	}

	identityDir := supabase.NewAdminClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, cfg.Supabase.Timeout)
	ledger := credits.NewLedgerUseCase(
		postgres.NewTxRunner(pool), postgres.NewCreditLedgerRepository(pool), identityDir, nil, nil, log,
	)

	res, err := backfill(ctx, identityDir, ledger, *pageSize, *dryRun, log)
	if err != nil {
		log.Fatal().Err(err).Msg("backfill interrumpido")
	}
	log.Info().
		Bool("dry_run", *dryRun).
		Int("providers", res.Providers).
		Int("seeded", res.Seeded).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("backfill terminado")
	if res.Failed > 0 {
		os.Exit(1)
	}
}

// seeder subconjunto del ledger que usa el backfill.
type seeder interface {
	Seed(ctx context.Context, userID string) (int64, bool, error)
}

type result struct {
	Providers int
	Seeded    int
	Skipped   int
	Failed    int
}

// backfill recorre el directorio página a página hasta una página incompleta. Un fallo por
// usuario se registra y no detiene el recorrido; un fallo al listar sí.
func backfill(ctx context.Context, dir repository.IdentityRepository, ledger seeder, perPage int, dryRun bool, log *logger.Logger) (result, error) {
	var res result
	if perPage <= 0 {
		perPage = 200
	}
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch, err := dir.ListPage(ctx, page, perPage)
		if err != nil {
			return res, err
		}
		for _, ident := range batch {
			if ident == nil || ident.Role() != entity.RoleServiceProvider {
				continue
			}
			res.Providers++
			if dryRun {
				balance, _ := ident.UserMetadata.Int64("credits")
				log.Info().Str("user_id", ident.ID).Int64("credits", balance).Msg("se sembraría")
				continue
			}
			balance, seeded, err := ledger.Seed(ctx, ident.ID)
			switch {
			case err != nil:
				res.Failed++
				log.Error().Err(err).Str("user_id", ident.ID).Msg("no se pudo sembrar")
			case seeded:
				res.Seeded++
				log.Info().Str("user_id", ident.ID).Int64("balance", balance).Msg("cuenta sembrada")
			default:
				res.Skipped++
			}
		}
		if len(batch) < perPage {
			return res, nil
		}
	}
}
