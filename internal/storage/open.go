package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/glebarez/sqlite"
	fibermysql "github.com/gofiber/storage/mysql/v2"
	fiberpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// DefaultTable of the fiber storage drivers.
const DefaultTable = "itsm_authz_storage"

// pingTimeout bounds the connectivity check of network backends.
const pingTimeout = 5 * time.Second

// Backend is a session.Storage owning a connection.
type Backend interface {
	session.Storage
	io.Closer
}

// Open creates the backend selected by cfg.Driver.
func Open(cfg config.Storage) (Backend, error) {
	log.Info().Str("driver", cfg.Driver).Msg("opening session storage")

	switch cfg.Driver {
	case "", config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverSQLite:
		return openGorm(sqlite.Open(dsn.SQLite(&cfg)))
	case config.StorageDriverMySQL:
		return openGorm(gormmysql.Open(dsn.MySQL(&cfg)))
	case config.StorageDriverPostgres:
		return openGorm(gormpostgres.Open(dsn.Postgres(&cfg)))
	case config.StorageDriverRedis:
		return openRedis(&cfg)
	case config.StorageDriverFiberMySQL:
		return openFiber(cfg.TTL, func() FiberDriver {
			return fibermysql.New(fibermysql.Config{
				ConnectionURI: dsn.MySQL(&cfg),
				Table:         table(&cfg),
			})
		})
	case config.StorageDriverFiberPostgres:
		return openFiber(cfg.TTL, func() FiberDriver {
			return fiberpostgres.New(fiberpostgres.Config{
				ConnectionURI: dsn.Postgres(&cfg),
				Table:         table(&cfg),
			})
		})
	default:
		return nil, errors.Wrapf(config.ErrUnknownStorageDriver, "driver %q", cfg.Driver)
	}
}

func openGorm(dialector gorm.Dialector) (Backend, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return NewGorm(db)
}

func openRedis(cfg *config.Storage) (Backend, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{dsn.Redis(cfg)},
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrap(err, "failed to connect redis")
	}

	return NewRedis(client, cfg.Prefix, cfg.TTL), nil
}

// openFiber turns the panic the gofiber drivers raise on connection failure into an error.
func openFiber(ttl time.Duration, connect func() FiberDriver) (b Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("failed to connect fiber storage: %v", r) //nolint:err113
		}
	}()

	return NewFiber(connect(), ttl), nil
}

func table(cfg *config.Storage) string {
	if cfg.Table == "" {
		return DefaultTable
	}

	return cfg.Table
}
