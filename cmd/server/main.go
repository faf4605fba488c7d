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

	"dsc_team/internal/api"
	"dsc_team/internal/app/service"
	"dsc_team/internal/domain/repository"
	"dsc_team/internal/platform/config"
	"dsc_team/internal/platform/database"
	"dsc_team/internal/platform/logging"
	"dsc_team/internal/platform/metrics"
	"dsc_team/internal/platform/queue"

	"github.com/redis/go-redis/v9"
)

const eventStreamMaxLen = 10000

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load Configuration
	cfg := config.Load()
	logger := logging.FromStrings(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "store_driver", cfg.StoreDriver, "port", cfg.APIPort)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancelConnect()

	// 2. Initialize Redis (store backend and/or event stream)
	var rdb *redis.Client
	if cfg.UsesRedis() {
		var err error
		rdb, err = queue.ConnectRedis(connectCtx, queue.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// 3. Initialize Member Store
	repo, err := openMemberRepository(connectCtx, cfg, rdb, logger)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return err
	}
	logger.Info("member store ready", "driver", cfg.StoreDriver)

	m := metrics.New()
	repo = repository.NewInstrumentedMemberRepository(repo, cfg.StoreDriver, m)

	// 4. Initialize Services
	publisher := queue.NewNopPublisher()
	if cfg.MemberEventsStream != "" {
		publisher = queue.NewStreamPublisher(rdb, cfg.MemberEventsStream, eventStreamMaxLen)
		logger.Info("publishing member events", "stream", cfg.MemberEventsStream)
	}

	clubInfo, err := config.LoadClubInfo(cfg.ClubInfoFile)
	if err != nil {
		return err
	}

	memberService := service.NewMemberService(repo, publisher, logger)
	clubService := service.NewClubService(clubInfo)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(memberService, clubService, m, logger)

	server := newHTTPServer(":"+cfg.APIPort, router)

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
	}()

	select {
	case <-stop:
	case err := <-serverErr:
		closeStores(repo, rdb, cfg, logger)
		return err
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	closeStores(repo, rdb, cfg, logger)

	logger.Info("server stopped gracefully")
	return nil
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: api.RequestTimeout + 2*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// openMemberRepository builds the store selected by STORE_DRIVER. An
// unreachable Mongo only logs a warning; /api/health reports it until the
// server comes back.
func openMemberRepository(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *slog.Logger) (repository.MemberRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		if err := database.PingMongo(ctx, client); err != nil {
			logger.Warn("mongo unreachable at startup, serving degraded", "error", err)
		}
		coll := client.Database(cfg.DBName).Collection(cfg.MembersCollection)
		return repository.NewMongoMemberRepository(coll), nil

	case config.DriverPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsurePgSchema(ctx, db, cfg.MembersCollection); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repository.NewPgMemberRepository(db, cfg.MembersCollection), nil

	case config.DriverRedis:
		return repository.NewRedisMemberRepository(rdb, cfg.RedisNamespace()), nil

	case config.DriverMemory:
		return repository.NewMemoryMemberRepository(), nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// closeStores releases the member store, then the redis client unless the
// store already owns it.
func closeStores(repo repository.MemberRepository, rdb *redis.Client, cfg *config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.Close(ctx); err != nil {
		logger.Warn("closing member store", "error", err)
	}
	if rdb != nil && cfg.StoreDriver != config.DriverRedis {
		if err := rdb.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}
}
