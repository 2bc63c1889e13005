package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/oksasatya/pinit-down/config"
	"github.com/oksasatya/pinit-down/internal/application"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
	"github.com/oksasatya/pinit-down/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/pinit-down/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/pinit-down/internal/infrastructure/postgres"
	"github.com/oksasatya/pinit-down/internal/infrastructure/search"
	"github.com/oksasatya/pinit-down/pkg/helpers"
	mailtpl "github.com/oksasatya/pinit-down/pkg/mailer/templates"
)

// Container holds the constructed components shared by the router modules.
// Optional clients (Redis, RabbitMQ, Elasticsearch) stay nil when disabled.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	Users repository.UserRepository
	Items repository.CartItemRepository

	Mongo     *mongo.Client
	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client
	Index     *search.ItemIndex

	Notifier    application.Notifier
	AuthService *application.AuthService
	CartService *application.CartService

	closers []func()
}

// Build connects the configured backends and wires the services.
// On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.open(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.wireServices()
	return c, nil
}

func (c *Container) open(ctx context.Context) error {
	cfg := c.Config
	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		return err
	}
	c.JWT = jwt

	if err := c.openStore(ctx); err != nil {
		return err
	}
	if cfg.RateLimitEnabled {
		c.openRedis(ctx)
	}
	if err := c.openNotifier(); err != nil {
		return err
	}
	if len(cfg.ESAddrs()) > 0 {
		c.openSearch(ctx)
	}
	return nil
}

// NewWithStores wires the services over the given repositories with
// no external clients. Notifications go to the log.
func NewWithStores(cfg *config.Config, logger *logrus.Logger, users repository.UserRepository, items repository.CartItemRepository) (*Container, error) {
	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, JWT: jwt, Users: users, Items: items}
	c.Notifier = application.NewLogNotifier(logger, c.emailLinks())
	c.wireServices()
	return c, nil
}

// StorePing checks the credential store for readiness probes.
func (c *Container) StorePing(ctx context.Context) error {
	return c.Users.Ping(ctx)
}

// Close waits for queued notifications, then releases every client in reverse order.
func (c *Container) Close() {
	if c.AuthService != nil {
		c.AuthService.Wait()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongoinfra.Connect(ctx, mongoinfra.Config{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.MongoConnectTimeout,
			RetryAttempts:  cfg.MongoRetryAttempts,
		})
		if err != nil {
			return err
		}
		c.Mongo = client
		c.onClose(func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.Users = mongoinfra.NewUserRepository(db)
		c.Items = mongoinfra.NewCartItemRepository(db)

	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.onClose(pool.Close)

		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Items = pginfra.NewCartItemRepository(pool)

	case config.DriverMemory:
		c.Logger.Warn("using in-memory store; data is lost on restart")
		c.Users = memory.NewUserRepository()
		c.Items = memory.NewCartItemRepository()

	default:
		return config.ErrUnknownDriver
	}
	c.Logger.WithField("driver", cfg.StoreDriver).Info("store ready")
	return nil
}

// openRedis leaves rate limiting off when Redis is unreachable.
func (c *Container) openRedis(ctx context.Context) {
	cfg := c.Config
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		c.Logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, rate limiting disabled")
		_ = rdb.Close()
		return
	}
	c.Redis = rdb
	c.onClose(func() { _ = rdb.Close() })
}

func (c *Container) openNotifier() error {
	cfg := c.Config
	if !cfg.MailSendEnabled {
		c.Notifier = application.NewLogNotifier(c.Logger, c.emailLinks())
		return nil
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	c.RabbitPub = pub
	c.onClose(pub.Close)

	brand := mailtpl.Brand{
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		LogoURL:     cfg.LogoURL,
		SupportURL:  cfg.SupportURL,
	}
	c.Notifier = application.NewEmailNotifier(pub, brand, c.emailLinks())
	return nil
}

// openSearch leaves item search off when the cluster is unreachable.
func (c *Container) openSearch(ctx context.Context) {
	cfg := c.Config
	es, err := helpers.NewESClient(ctx, cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err == nil {
		idx := search.NewItemIndex(es, cfg.ESItemsIndex)
		if err = idx.EnsureIndex(ctx); err == nil {
			c.ES = es
			c.Index = idx
			return
		}
	}
	c.Logger.WithError(err).Warn("elasticsearch unavailable, item search disabled")
}

func (c *Container) wireServices() {
	cfg := c.Config
	c.AuthService = application.NewAuthService(c.Users, c.JWT, c.Notifier, c.Logger, application.AuthOptions{
		VerifyTTL:     cfg.VerifyTokenTTL,
		ResetTTL:      cfg.ResetTokenTTL,
		NotifyTimeout: cfg.MailPublishTimeout,
	})

	// a typed nil *ItemIndex must not reach the service as a non-nil interface
	var index application.ItemIndex
	if c.Index != nil {
		index = c.Index
	}
	c.CartService = application.NewCartService(c.Items, index, c.Logger)
}

func (c *Container) emailLinks() application.EmailLinks {
	return application.EmailLinks{
		VerifyEmailURL:   c.Config.VerifyEmailURL,
		ResetPasswordURL: c.Config.ResetPasswordURL,
	}
}
