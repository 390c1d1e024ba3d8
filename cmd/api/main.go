// @title                       Content API
// @version                     1.0
// @description                 User accounts and posts behind bearer-token authentication and role/ownership authorization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/content-api/internal/api"
	"github.com/99minutos/content-api/internal/api/handler"
	"github.com/99minutos/content-api/internal/api/metrics"
	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
	"github.com/99minutos/content-api/internal/core/service"
	"github.com/99minutos/content-api/internal/infrastructure/config"
	"github.com/99minutos/content-api/internal/infrastructure/crypto"
	"github.com/99minutos/content-api/internal/infrastructure/db/memory"
	"github.com/99minutos/content-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/content-api/internal/infrastructure/db/redis"
	"github.com/99minutos/content-api/internal/infrastructure/queue"
	"github.com/99minutos/content-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	users  ports.UserRepository
	posts  ports.PostRepository
	audit  ports.AuditRepository
	checks map[string]handler.DependencyCheck
	close  func(context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "content-api"}).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "content-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		st.close(closeCtx)
	}()

	codec, err := security.NewTokenCodec([]byte(cfg.Auth.JWTSecret),
		security.WithTTL(cfg.Auth.TokenTTL),
		security.WithIssuer(cfg.Auth.TokenIssuer),
	)
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, st.audit, logger.Component("audit"),
		queue.WithDropHook(func(e domain.AuditEvent) {
			metrics.AuditEventsDroppedTotal.WithLabelValues(string(e.Type)).Inc()
		}),
	)
	audit.Start(workerCtx)

	authOpts := []service.AuthOption{service.WithAudit(audit)}
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		authOpts = append(authOpts, service.WithLoginThrottle(
			redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow),
		))
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	policy := security.DefaultPolicy()

	authService := service.NewAuthService(st.users, hasher, codec, logger.Component("auth"), authOpts...)
	if cfg.Auth.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Tokens:      codec,
		Policy:      policy,
		PublicPaths: cfg.Auth.PublicPaths,
		Auth:        authService,
		Users:       service.NewUserService(st.users, st.posts, hasher, policy, audit, logger.Component("users")),
		Posts:       service.NewPostService(st.posts, st.users, policy, audit, logger.Component("posts")),
		Checks:      st.checks,
		Logger:      logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.StorageDriver).Msg("starting content-api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	cancelWorkers()
	audit.Wait()
	return err
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &stores{
			users:  memory.NewUserRepository(),
			posts:  memory.NewPostRepository(),
			audit:  memory.NewAuditRepository(),
			checks: map[string]handler.DependencyCheck{},
			close:  func(context.Context) {},
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  cfg.Mongo.AppName,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}

	users := mongo.NewUserRepository(db)
	posts := mongo.NewPostRepository(db)
	audit := mongo.NewAuditRepository(db)
	for _, idx := range []interface{ EnsureIndexes(context.Context) error }{users, posts, audit} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return &stores{
		users: users,
		posts: posts,
		audit: audit,
		checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
		},
		close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
	}, nil
}
