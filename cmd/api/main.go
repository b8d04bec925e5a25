package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/application/directory"
	"github.com/jhoicas/privat-admin-api/internal/application/jobs"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/internal/application/reports"
	"github.com/jhoicas/privat-admin-api/internal/application/usecase"
	infracache "github.com/jhoicas/privat-admin-api/internal/infrastructure/cache"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/events"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/paddle"
	infrapdf "github.com/jhoicas/privat-admin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/privat-admin-api/internal/interfaces/http"
	"github.com/jhoicas/privat-admin-api/pkg/config"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("paddle_env", cfg.Paddle.Environment).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones del ledger")
	}

	identityDir := supabase.NewAdminClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, cfg.Supabase.Timeout)

	// Redis es opcional: solo si el snapshot o los eventos lo usan.
	var rdb *redis.Client
	if cfg.Cache.Backend == "redis" || cfg.Events.Backend == events.BackendRedis {
		rdb, err = infracache.NewRedisClient(ctx, cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("conexión a Redis")
		}
		defer rdb.Close()
	}

	var snapshotStore directory.SnapshotStore = infracache.NewMemoryStore()
	if cfg.Cache.Backend == "redis" {
		snapshotStore = infracache.NewRedisStore(rdb, cfg.Cache.Key)
	}
	usersCache := directory.NewCache(identityDir, snapshotStore, log,
		directory.WithTTL(cfg.Cache.TTL),
		directory.WithPageSize(cfg.Cache.PageSize),
	)

	var redisClient redis.UniversalClient
	if rdb != nil {
		redisClient = rdb
	}
	publisher, err := events.New(cfg.Events, redisClient, log.Component("events"))
	if err != nil {
		log.Fatal().Err(err).Msg("publicador de eventos de créditos")
	}
	defer publisher.Close()

	// Ledger de créditos: único escritor del saldo.
	ledgerRepo := postgres.NewCreditLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledger := credits.NewLedgerUseCase(txRunner, ledgerRepo, identityDir, usersCache, publisher, log)

	referralRepo := postgres.NewReferralRepository(pool)
	userSvc := directory.NewUserService(usersCache, identityDir, referralRepo, referralRepo, ledger, log)

	aggregator := jobs.NewAggregator(
		postgres.NewJobRepository(pool),
		postgres.NewQuoteRepository(pool),
		identityDir,
		log,
	)

	paddleClient := paddle.NewClient(cfg.Paddle.APIKey, paddle.BaseURLFor(cfg.Paddle.Environment))
	verifier := paddle.NewSignatureVerifier(cfg.Paddle.WebhookSecret, cfg.Paddle.SignatureMaxSkew)

	// PDF: exportaciones del dashboard
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Privat Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:     usecase.NewUserUseCase(userSvc),
		CreditUC:   usecase.NewCreditUseCase(ledger, cfg.Paddle.PriceIDs),
		JobsUC:     usecase.NewJobsUseCase(aggregator),
		CategoryUC: usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool)),
		Exports:    reports.NewExportUseCase(usersCache, ledger, pdfGenerator),
		Checkout:   payments.NewCheckoutUseCase(paddleClient, cfg.Paddle.PriceIDs, log),
		Webhook:    payments.NewWebhookUseCase(verifier, ledger, log),
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
