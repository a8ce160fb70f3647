package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accountApp "github.com/sortwise/sessiond/internal/application/account"
	sessionApp "github.com/sortwise/sessiond/internal/application/session"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/infrastructure/auth"
	"github.com/sortwise/sessiond/internal/infrastructure/config"
	"github.com/sortwise/sessiond/internal/infrastructure/database"
	"github.com/sortwise/sessiond/internal/infrastructure/metrics"
	"github.com/sortwise/sessiond/internal/infrastructure/migration"
	"github.com/sortwise/sessiond/internal/infrastructure/permission"
	"github.com/sortwise/sessiond/internal/infrastructure/pubsub"
	"github.com/sortwise/sessiond/internal/infrastructure/ratelimit"
	"github.com/sortwise/sessiond/internal/infrastructure/repository"
	"github.com/sortwise/sessiond/internal/infrastructure/sessionstore"
	"github.com/sortwise/sessiond/internal/infrastructure/token"
	sharedConfig "github.com/sortwise/sessiond/internal/shared/config"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// Container holds the infrastructure, services and router of one process and
// owns their shutdown.
type Container struct {
	cfg *config.Config
	log logger.Interface

	db       *gorm.DB
	redis    *redis.Client
	store    sessionstore.Backend
	eventBus *pubsub.RedisSessionEventBus
	registry *prometheus.Registry
	limiter  *ratelimit.MemoryRateLimiter

	accountRepo *repository.AccountRepository
	enforcer    *permission.Enforcer
	ledger      *session.Ledger

	sessions *sessionApp.Service
	accounts *accountApp.Service

	router *Router
}

// NewContainer wires every component from cfg. On error everything opened so
// far is closed again.
func NewContainer(cfg *config.Config, log logger.Interface) (_ *Container, err error) {
	c := &Container{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			c.Shutdown()
		}
	}()

	if c.db, err = database.Open(&cfg.Database, log.Named("database")); err != nil {
		return nil, err
	}
	c.accountRepo = repository.NewAccountRepository(c.db, log.Named("repository"))

	if cfg.Session.Store != sharedConfig.StoreMemory {
		c.redis = sessionstore.NewRedisClient(cfg.Redis)
	}
	if c.store, err = sessionstore.Open(cfg.Session, cfg.Redis, c.redis); err != nil {
		return nil, err
	}

	// Events travel over Redis; a memory-backed process has nobody to tell.
	var events session.EventPublisher
	if c.redis != nil && cfg.Session.EventChannel != "" {
		c.eventBus = pubsub.NewRedisSessionEventBus(c.redis, cfg.Session.EventChannel, log.Named("events"))
		events = c.eventBus
	}

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessionMetrics, err := metrics.NewSessionMetrics(c.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register session metrics: %w", err)
	}
	httpMetrics, err := metrics.NewHTTPMetrics(c.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	c.ledger = session.NewLedger(c.store, session.NewCodec(cfg.Session.KeyPrefix), log.Named("ledger"))
	c.sessions = sessionApp.NewService(
		c.ledger,
		c.accountRepo,
		token.NewGenerator(cfg.Session.TokenPrefix),
		events,
		sessionMetrics,
		cfg.Session.Lifetime,
		log.Named("session"),
	)
	var accountOpts []accountApp.Option
	loginLimits := ratelimit.RateLimitConfig{
		RequestsPerMinute: cfg.Auth.LoginAttemptsPerMinute,
		RequestsPerHour:   cfg.Auth.LoginAttemptsPerHour,
	}
	if loginLimits.Enabled() {
		if c.redis != nil {
			accountOpts = append(accountOpts, accountApp.WithLoginLimiter(
				ratelimit.NewRedisRateLimiter(c.redis, cfg.Session.KeyPrefix, loginLimits)))
		} else {
			c.limiter = ratelimit.NewMemoryRateLimiter(loginLimits)
			accountOpts = append(accountOpts, accountApp.WithLoginLimiter(c.limiter))
		}
	}
	c.accounts = accountApp.NewService(
		c.accountRepo,
		auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost),
		c.sessions,
		log.Named("account"),
		accountOpts...,
	)

	if c.enforcer, err = permission.NewEnforcer(c.db, log.Named("permission")); err != nil {
		return nil, err
	}
	if err = permission.InitSessionPermissions(c.enforcer); err != nil {
		return nil, err
	}

	c.router = NewRouter(RouterDeps{
		Accounts:       c.accounts,
		Sessions:       c.sessions,
		Store:          c.store,
		AccountLoader:  c.accountRepo,
		Enforcer:       c.enforcer,
		HTTPMetrics:    httpMetrics,
		Gatherer:       c.registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log.Named("http"),
	})
	c.router.SetupRoutes()

	return c, nil
}

func (c *Container) Router() *Router {
	return c.router
}

func (c *Container) Sessions() *sessionApp.Service {
	return c.sessions
}

func (c *Container) Accounts() *accountApp.Service {
	return c.accounts
}

func (c *Container) Enforcer() *permission.Enforcer {
	return c.enforcer
}

// Migrator returns a goose migrator for the configured database.
func (c *Container) Migrator() (*migration.Migrator, error) {
	return migration.NewMigrator(c.db, c.cfg.Database.Driver, c.log)
}

// Ping checks the session store.
func (c *Container) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// RunEventSubscriber logs session events published by every instance until
// ctx is done. Without an event bus it just waits.
func (c *Container) RunEventSubscriber(ctx context.Context) error {
	if c.eventBus == nil {
		<-ctx.Done()
		return nil
	}

	self := c.eventBus.InstanceID()
	err := c.eventBus.Subscribe(ctx, func(_ context.Context, event session.Event) {
		if event.InstanceID == self {
			return
		}
		c.log.Infow("session event from peer",
			"type", event.Type,
			"account_id", event.AccountID,
			"actor_id", event.ActorID,
			"token_fp", event.TokenFP,
			"instance_id", event.InstanceID,
		)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown stops background loops and closes the session store, its Redis
// client and the database.
func (c *Container) Shutdown() {
	if c.limiter != nil {
		c.limiter.Close()
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.log.Warnw("failed to close session store", "error", err)
		}
	} else if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.db != nil {
		if err := database.Close(c.db); err != nil {
			c.log.Warnw("failed to close database", "error", err)
		}
	}
}
