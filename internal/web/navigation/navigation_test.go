package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Tickets", "tickets", "ticket-list")

	assert.Equal(t, "Tickets", ctx.PageTitle)
	assert.Equal(t, "tickets", ctx.ActiveSection)
	assert.Equal(t, "ticket-list", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Edit ticket", "tickets", "ticket-edit").
		AddBreadcrumb("Tickets", "/tickets", false).
		AddBreadcrumb("Edit ticket", "/tickets/:id/edit", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Tickets", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "/tickets", ctx.Breadcrumbs[0].URL)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Users", "admin", "user-management")

	assert.True(t, ctx.IsActive("admin", "user-management"))
	assert.False(t, ctx.IsActive("tickets", "user-management"))
	assert.False(t, ctx.IsActive("admin", "role-management"))

	assert.True(t, ctx.IsSectionActive("admin"))
	assert.False(t, ctx.IsSectionActive("reports"))
}
