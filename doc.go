// Package main provides the entry point of itsm-authz, the identity, tenant
// context and authorization service of the ITSM platform. It keeps the
// authenticated principal and the active tenant of every client session in a
// pluggable durable storage (memory, sqlite, mysql, postgres or redis), binds
// them to outgoing requests and answers permission, role and route questions
// through a JSON API served with fiber.
package main
