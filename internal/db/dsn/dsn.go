// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
)

// MemorySQLite is used when no sqlite file is configured.
const MemorySQLite = ":memory:"

// MySQL builds a go-sql-driver DSN, user:password@tcp(host:port)/name?extras.
func MySQL(cfg *config.Storage) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	if cfg.Extras != "" {
		out += "?" + cfg.Extras
	}

	return out
}

// Postgres builds a postgres:// connection URI understood by pgx.
func Postgres(cfg *config.Storage) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: cfg.Extras,
	}

	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	return u.String()
}

// SQLite returns the database file, an in-memory database if none is set.
func SQLite(cfg *config.Storage) string {
	if cfg.Path == "" {
		return MemorySQLite
	}

	return cfg.Path
}

// Redis returns host:port of the redis server.
func Redis(cfg *config.Storage) string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}
