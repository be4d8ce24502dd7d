package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/logger"
)

// Supported durable storage drivers.
const (
	StorageDriverMemory        = "memory"
	StorageDriverSQLite        = "sqlite"
	StorageDriverMySQL         = "mysql"
	StorageDriverPostgres      = "postgres"
	StorageDriverRedis         = "redis"
	StorageDriverFiberMySQL    = "fiber-mysql"
	StorageDriverFiberPostgres = "fiber-postgres"
)

// Default durable storage keys, shared with the web frontend.
const (
	DefaultTokenKey      = "access_token"
	DefaultTenantIDKey   = "current_tenant_id"
	DefaultTenantCodeKey = "current_tenant_code"
	DefaultStateKey      = "auth-storage"
	DefaultCookieName    = "session"
	DefaultSessionExpiry = 24 * time.Hour
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Session   Session
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Storage selects and configures the durable storage backend of the session store.
type Storage struct {
	Driver   string        // memory, sqlite, mysql, postgres, redis, fiber-mysql, fiber-postgres
	Path     string        // sqlite database file
	Host     string        // database or redis host
	Port     int           // database or redis port
	User     string        // database user
	Password string        // database or redis password
	Name     string        // database name
	Extras   string        // extra DSN parameters
	Table    string        // table used by the fiber storage drivers
	RedisDB  int           // redis logical database
	Prefix   string        // key prefix for redis
	TTL      time.Duration // expiry of redis and fiber storage entries, 0 keeps them forever
}

// IsKnownDriver reports whether Driver names a supported backend.
func (s Storage) IsKnownDriver() bool {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverSQLite, StorageDriverMySQL, StorageDriverPostgres,
		StorageDriverRedis, StorageDriverFiberMySQL, StorageDriverFiberPostgres:
		return true
	default:
		return false
	}
}

// Session settings.
type Session struct {
	CookieName    string
	ExpiryTime    time.Duration
	TokenKey      string
	TenantIDKey   string
	TenantCodeKey string
	StateKey      string
}

func (s *Session) applyDefaults() {
	if s.CookieName == "" {
		s.CookieName = DefaultCookieName
	}

	if s.ExpiryTime == 0 {
		s.ExpiryTime = DefaultSessionExpiry
	}

	if s.TokenKey == "" {
		s.TokenKey = DefaultTokenKey
	}

	if s.TenantIDKey == "" {
		s.TenantIDKey = DefaultTenantIDKey
	}

	if s.TenantCodeKey == "" {
		s.TenantCodeKey = DefaultTenantCodeKey
	}

	if s.StateKey == "" {
		s.StateKey = DefaultStateKey
	}
}
