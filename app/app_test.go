package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// flags keep their values between executions
	roleName, asJSON = "", false
	checkRole, checkPerms, checkRoles = "", nil, nil

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestRolesCommand(t *testing.T) {
	out, err := run(t, "roles", "--role", "user")
	require.NoError(t, err)
	assert.Contains(t, out, "user (6)")
	assert.Contains(t, out, "ticket")
	assert.NotContains(t, out, "super_admin")

	out, err = run(t, "roles", "--json")
	require.NoError(t, err)

	var table map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Len(t, table, len(auth.Roles()))
	assert.Contains(t, table["agent"], "ticket:resolve")

	_, err = run(t, "roles", "--role", "root")
	require.ErrorIs(t, err, auth.ErrUnknownRole)
}

func TestCheckCommand(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		out     string
		wantErr error
	}{
		{
			name: "held permissions",
			args: []string{"check", "--role", "agent", "--perm", "ticket:read", "--perm", "ticket:update"},
			out:  "allowed",
		},
		{
			name:    "missing permission",
			args:    []string{"check", "--role", "agent", "--perm", "ticket:delete"},
			out:     "denied",
			wantErr: ErrDenied,
		},
		{
			name: "accepted role",
			args: []string{"check", "--role", "admin", "--require-role", "admin,super_admin"},
			out:  "allowed",
		},
		{
			name:    "foreign role",
			args:    []string{"check", "--role", "manager", "--require-role", "admin"},
			out:     "denied",
			wantErr: ErrDenied,
		},
		{
			name:    "unknown grant",
			args:    []string{"check", "--role", "agent", "--perm", "ticket"},
			wantErr: auth.ErrInvalidGrant,
		},
		{
			name:    "unknown role",
			args:    []string{"check", "--role", "root"},
			wantErr: auth.ErrUnknownRole,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tc.out != "" {
				assert.Contains(t, out, tc.out)
			}
		})
	}
}

func TestSessionsCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "sessions.db")

	main := `[Webserver]
Port = 8080
URL = "http://localhost:8080"

[Storage]
Driver = "sqlite"
Path = ` + strconv.Quote(db) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(main), 0o600))

	backend, err := storage.Open(config.Storage{Driver: config.StorageDriverSQLite, Path: db})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, storage.NewPrefixed(backend, "alpha").SetItem(ctx, "access_token", "a"))
	require.NoError(t, storage.NewPrefixed(backend, "alpha").SetItem(ctx, "auth-storage", "{}"))
	require.NoError(t, storage.NewPrefixed(backend, "beta").SetItem(ctx, "access_token", "b"))
	require.NoError(t, backend.Close())

	out, err := run(t, "sessions", "list", "-c", dir)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", out)

	out, err = run(t, "sessions", "purge", "alpha", "-c", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha: 2 items removed")

	out, err = run(t, "sessions", "list", "-c", dir)
	require.NoError(t, err)
	assert.Equal(t, "beta\n", out)

	_, err = run(t, "sessions", "purge", "-c", dir)
	require.Error(t, err)
}

func TestSessionsCommandOnEmptyStorage(t *testing.T) {
	dir := t.TempDir()

	main := `[Webserver]
Port = 8080
URL = "http://localhost:8080"

[Storage]
Driver = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(main), 0o600))

	out, err := run(t, "sessions", "list", "-c", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}
