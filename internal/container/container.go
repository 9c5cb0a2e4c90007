package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"insales/catsync/internal/ai"
	"insales/catsync/internal/client"
	"insales/catsync/internal/config"
	"insales/catsync/internal/queue"
	"insales/catsync/internal/repository"
	"insales/catsync/internal/service"
	"insales/catsync/internal/state"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Client    client.InSalesClient
	AI        ai.Client
	Queue     queue.Queue
	Leases    state.LeaseManager
	Positions repository.PositionRepository

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	container.db = db

	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("✅ Connected to Postgres successfully")

	categoryRepo := repository.NewCategoryRepository(db)
	container.Positions = repository.NewPositionRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	container.redis = rdb

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue
	container.Leases = state.NewRedisLeaseManager(rdb, cfg.Redis.LeaseTTL)

	clk := clock.New()
	container.Client = client.NewInSalesClient(cfg.InSales, clk)
	container.AI = ai.NewOpenAIClient(cfg.OpenAI, clk)

	container.Service = service.NewService(
		categoryRepo,
		container.Positions,
		container.Client,
		container.AI,
		redisQueue,
		container.Leases,
		clk,
		cfg,
	)

	return container, nil
}

// Run syncs the hierarchy while the update workers drain the queue.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := c.Service.SyncHierarchy(ctx)
		return err
	})

	g.Go(func() error {
		return c.Service.RunUpdateWorkers(ctx, c.Config.Redis.Workers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
