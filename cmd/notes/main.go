// Package main реализует точку входа службы заметок.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/cache"
	"notekeeper/internal/notes/adapters/grpc"
	httpserver "notekeeper/internal/notes/adapters/http"
	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/adapters/services"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/db"
	pkgredis "notekeeper/pkg/db/redis"
	"notekeeper/pkg/logger"
	"notekeeper/pkg/ratelimit"
	"notekeeper/pkg/shutdown"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to initialize redis"
	ErrStartGRPC            = "failed to start gRPC health server"
	ErrHTTPServer           = "HTTP server stopped with error"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes service started"
	LogServiceShutdownDone = "notes service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogStoppingGRPC        = "stopping gRPC health server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingLimiter     = "stopping rate limiter"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC health server"
	LogRateLimitDisabled   = "rate limiting disabled"
)

func main() {
	bootstrap := config.BootstrapLogging()
	log, err := bootstrap.NewLogger()
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := cfg.Logging.NewLogger()
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(
			cfg.JWT.SecretKey, cfg.JWT.GetAccessTokenTTL(), cfg.JWT.Issuer, cfg.JWT.BCryptCost)
		revocations := cache.NewRevocationStore(redisClient.RawClient(), cfg.Redis.KeyPrefix)

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(
			repoFactory.UserRepository(),
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			revocations,
		)
		categoryUseCase := app.NewCategoryUseCase(repoFactory.CategoryRepository())
		tagUseCase := app.NewTagUseCase(repoFactory.TagRepository())
		noteUseCase := app.NewNoteUseCase(
			repoFactory.NoteRepository(),
			repoFactory.CategoryRepository(),
			repoFactory.TagRepository(),
		)

		var (
			limiter     *ratelimit.Limiter
			httpLimiter middleware.Limiter
		)
		if cfg.RateLimit.Enabled {
			limiter = ratelimit.New(ratelimit.Config{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				Burst:             cfg.RateLimit.Burst,
				IdleTTL:           cfg.RateLimit.IdleTTL,
			})
			httpLimiter = limiter
		} else {
			log.Info(ctx, LogRateLimitDisabled)
		}

		log.Info(ctx, LogInitHTTPServer)
		httpApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})
		httpserver.SetupRouter(httpApp, httpserver.Services{
			Auth:       authUseCase,
			Categories: categoryUseCase,
			Tags:       tagUseCase,
			Notes:      noteUseCase,
		}, httpLimiter)

		closeStores := shutdown.Sequence(
			func(ctx context.Context) error {
				if limiter != nil {
					log.Info(ctx, LogStoppingLimiter)
					limiter.Stop()
				}
				return nil
			},
			func(ctx context.Context) error {
				return redisClient.Close(ctx)
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogStartingGRPC)
		healthServer := grpc.New(&cfg.GRPC, database)
		if err := healthServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			if err := closeStores(context.WithoutCancel(ctx)); err != nil {
				log.Error(ctx, shutdown.LogHookFailed, zap.Error(err))
			}
			exitCode = 1
			return
		}

		runCtx, stopRun := context.WithCancel(ctx)
		defer stopRun()

		serveErr := make(chan error, 1)
		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			listenConfig := fiber.ListenConfig{DisableStartupMessage: true}
			if err := httpApp.Listen(cfg.HTTP.GetAddress(), listenConfig); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, ErrHTTPServer, zap.Error(err))
				serveErr <- err
				stopRun()
			}
		}()

		// Хранилища закрываются только после остановки обоих серверов.
		shutdown.Wait(runCtx, cfg.Shutdown.GetTimeout(), shutdown.Sequence(
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				if err := httpApp.ShutdownWithContext(ctx); err != nil {
					return fmt.Errorf("%s: %w", LogStoppingHTTP, err)
				}
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingGRPC)
				healthServer.Stop(ctx)
				return nil
			},
			closeStores,
		))

		select {
		case <-serveErr:
			exitCode = 1
		default:
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
