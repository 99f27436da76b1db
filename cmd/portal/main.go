package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sportportal/portal/cmd/portal/cli"
	"github.com/sportportal/portal/internal/admin"
	"github.com/sportportal/portal/internal/aichat"
	"github.com/sportportal/portal/internal/app"
	"github.com/sportportal/portal/internal/auth"
	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/cart"
	"github.com/sportportal/portal/internal/education"
	"github.com/sportportal/portal/internal/favorites"
	"github.com/sportportal/portal/internal/merch"
	"github.com/sportportal/portal/internal/news"
	"github.com/sportportal/portal/internal/observability"
	"github.com/sportportal/portal/internal/platform/cache"
	"github.com/sportportal/portal/internal/platform/db"
	"github.com/sportportal/portal/internal/platform/db/migrations"
	"github.com/sportportal/portal/internal/shared"
	"github.com/sportportal/portal/internal/transactions"
	"github.com/sportportal/portal/internal/users"
	"github.com/sportportal/portal/internal/vacancies"
	"github.com/sportportal/portal/jobs"
)

const usage = `usage: portal [serve | migrate | jobs trigger <name> [--json] | jobs stats [--json]]`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, stop, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	case "jobs":
		os.Exit(runJobs(ctx, cfg, args))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) int {
	jobsCLI := cli.NewJobsCLI(redisOpts(cfg))
	defer func() { _ = jobsCLI.Close() }()
	return jobsCLI.Run(ctx, args, os.Stdout, os.Stderr)
}

func redisOpts(cfg *app.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	jobsClient := jobs.NewClient(redisOpts(cfg), metrics)
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts(cfg))
	defer func() { _ = inspector.Close() }()

	router := app.NewRouter(wire(cfg, logger, pool, redisClient, jobsClient, inspector, metrics))

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func wire(cfg *app.Config, logger *slog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, jobsClient *jobs.Client, inspector *asynq.Inspector, metrics *observability.Metrics) app.RouterParams {
	audit := shared.NewAuditLogger(pool)
	mw := authz.Middleware{Logger: logger, Metrics: metrics}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, audit, logger)

	authService := auth.NewService(usersRepo, auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL), auth.ServiceConfig{
		Registration: cfg.EnableRegistration,
		Mailer:       jobsClient,
		Revocations:  auth.NewRedisRevocations(redisClient),
		Logger:       logger,
	})
	authenticator := auth.NewAuthenticator(authService, logger)

	merchRepo := merch.NewRepository(pool)
	newsService := news.NewService(news.NewRepository(pool), audit, logger)
	merchService := merch.NewService(merchRepo, audit, logger)
	educationService := education.NewService(education.NewRepository(pool))
	vacancyService := vacancies.NewService(vacancies.NewRepository(pool))

	adminService := admin.NewService(authService, usersRepo, []admin.Tally{
		{Name: "users", Counter: usersService},
		{Name: "news", Counter: newsService},
		{Name: "merches", Counter: merchService},
		{Name: "education", Counter: educationService},
		{Name: "job_vacancies", Counter: vacancyService},
	}, logger)
	sessions := shared.NewSessionManager(redisClient, "portal_admin", cfg.SessionTTL, cfg.IsProduction())

	return app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Metrics:       metrics,
		Authenticator: authenticator,

		AuthHandler:         auth.NewHandler(logger, authService, authenticator, app.LoginRateLimit(cfg.LoginRatePerMinute)),
		UsersHandler:        users.NewHandler(logger, usersService, mw),
		NewsHandler:         news.NewHandler(logger, newsService, mw),
		MerchHandler:        merch.NewHandler(logger, merchService, mw),
		CartHandler:         cart.NewHandler(logger, cart.NewService(cart.NewRepository(pool), merchRepo), mw),
		FavoritesHandler:    favorites.NewHandler(logger, favorites.NewService(favorites.NewRepository(pool), merchRepo), mw),
		EducationHandler:    education.NewHandler(logger, educationService, mw),
		VacanciesHandler:    vacancies.NewHandler(logger, vacancyService, mw),
		AIChatHandler:       aichat.NewHandler(logger, aichat.NewService(aichat.NewRepository(pool), nil), mw),
		TransactionsHandler: transactions.NewHandler(logger, transactions.NewService(transactions.NewRepository(pool), logger), mw),
		AdminHandler:        admin.NewHandler(logger, adminService, sessions, shared.NewCSRFManager(cfg.CSRFSecret)),
		JobHandler:          jobs.NewHandler(inspector, logger),
	}
}
