package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/viewcache"
)

// Deps are the shared collaborators handed to every handler.
type Deps struct {
	Sessions *session.Manager
	Views    *viewcache.Registry
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}
