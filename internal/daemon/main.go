// Package daemon wires storage, sessions and the web service together.
package daemon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/storage"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/transport"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/viewcache"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	backend    storage.Backend
	sessions   *session.Manager
	bindings   sync.Map // session id -> *transport.Context
	webService *web.Service
}

// Start runs the web service until a shutdown signal arrives and closes the storage afterwards.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("starting web service")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.backend.Close()
}

// Binding returns the outgoing request binding of a session, nil before its first request.
func (d *Daemon) Binding(id string) *transport.Context {
	if b, ok := d.bindings.Load(id); ok {
		return b.(*transport.Context) //nolint:forcetypeassert
	}

	return nil
}

// Sessions is the session registry of the daemon.
func (d *Daemon) Sessions() *session.Manager {
	return d.sessions
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	d := &Daemon{
		cfg:     cfg,
		backend: backend,
	}

	views := viewcache.NewRegistry()

	d.sessions = session.NewManager(
		func(id string) session.Storage { return storage.NewPrefixed(backend, id) },
		session.WithBinderFactory(d.bind),
		session.WithStoreOptions(session.WithKeys(session.Keys{
			Token:      cfg.Session.TokenKey,
			TenantID:   cfg.Session.TenantIDKey,
			TenantCode: cfg.Session.TenantCodeKey,
			State:      cfg.Session.StateKey,
		})),
		session.WithStoreHook(views.Hook),
		session.WithDropHook(func(id string) {
			d.bindings.Delete(id)
			views.Drop(id)
		}),
	)

	d.webService = web.New(cfg, &handler.Deps{Sessions: d.sessions, Views: views})

	return d, nil
}

// bind hands every session its own transport binding.
func (d *Daemon) bind(id string) session.Binder {
	b, _ := d.bindings.LoadOrStore(id, transport.NewContext())

	return b.(*transport.Context) //nolint:forcetypeassert
}
