package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// ErrTenantExpired is returned when a session is bound to a tenant whose
// subscription has run out.
var ErrTenantExpired = errors.New("tenant expired")

// SessionView is the public form of a session. The token never leaves the server.
type SessionView struct {
	IsAuthenticated bool           `json:"isAuthenticated"`
	User            *models.User   `json:"user"`
	CurrentTenant   *models.Tenant `json:"currentTenant"`
	Permissions     []string       `json:"permissions"`
}

// NewSessionView renders state for API responses.
func NewSessionView(state session.AuthState) SessionView {
	r := auth.NewResolver(auth.StateSource(state))

	return SessionView{
		IsAuthenticated: state.IsAuthenticated,
		User:            state.User,
		CurrentTenant:   state.CurrentTenant,
		Permissions:     r.Permissions().Strings(),
	}
}

// Error writes {"error": err} with status.
func Error(c fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// SessionCookie returns the cookie carrying id.
func SessionCookie(cfg *config.Config, id string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    id,
		Path:     RootPath,
		MaxAge:   int(cfg.Session.ExpiryTime / time.Second),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// ExpiredSessionCookie returns the cookie that removes the session cookie.
func ExpiredSessionCookie(cfg *config.Config) *fiber.Cookie {
	c := SessionCookie(cfg, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)

	return c
}
