package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func configDir(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	// Test storage and session config
	if !cfg.Storage.IsKnownDriver() {
		t.Errorf("Storage.Driver %q is not a known driver", cfg.Storage.Driver)
	}

	if cfg.Session.ExpiryTime != 24*time.Hour {
		t.Errorf("Session.ExpiryTime = %v, want 24h", cfg.Session.ExpiryTime)
	}

	if cfg.Session.StateKey != DefaultStateKey {
		t.Errorf("Session.StateKey = %q, want %q", cfg.Session.StateKey, DefaultStateKey)
	}

	if cfg.Log.File.AccessLog != "access.log" {
		t.Errorf("Log.File.AccessLog = %q, want access.log", cfg.Log.File.AccessLog)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{
					Port: 0,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "",
				},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "upper case driver",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Storage:   Storage{Driver: "Redis"},
			},
		},
		{
			name: "unknown driver",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Storage:   Storage{Driver: "etcd"},
			},
			wantErr: ErrUnknownStorageDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("validate() error = %v, want nil", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"}}

	if err := validate(&cfg); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if cfg.Webserver.ShutDownTime != 5 {
		t.Errorf("ShutDownTime = %d, want 5", cfg.Webserver.ShutDownTime)
	}

	if cfg.Storage.Driver != StorageDriverMemory {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverMemory)
	}

	want := Session{
		CookieName:    DefaultCookieName,
		ExpiryTime:    DefaultSessionExpiry,
		TokenKey:      DefaultTokenKey,
		TenantIDKey:   DefaultTenantIDKey,
		TenantCodeKey: DefaultTenantCodeKey,
		StateKey:      DefaultStateKey,
	}
	if cfg.Session != want {
		t.Errorf("Session = %+v, want %+v", cfg.Session, want)
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	// Set JSON override environment variable
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},"Storage":{"Driver":"memory"}}`
	t.Setenv(EnvConfigJSON, jsonOverride)

	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	// untouched values survive the merge
	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should survive the override")
	}

	if cfg.Storage.Driver != StorageDriverMemory {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverMemory)
	}
}

func TestReadConfigErrors(t *testing.T) {
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Error("ReadConfig() without main.toml should fail")
	}

	t.Setenv(EnvConfigJSON, `{"Title":`)

	if _, err := ReadConfig(configDir(t)); err == nil {
		t.Error("ReadConfig() with broken JSON override should fail")
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Storage: Storage{Driver: StorageDriverRedis, Host: "cache"},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if tomlStr == "" {
		t.Error("DumpConfig() returned empty string")
	}

	// Check if output contains expected values
	for _, want := range []string{"Test", "redis", "cache"} {
		if !strings.Contains(tomlStr, want) {
			t.Errorf("DumpConfig() output should contain %q", want)
		}
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if jsonStr == "" {
		t.Error("DumpConfigJSON() returned empty string")
	}

	// Check if output is valid JSON by checking for expected fields
	if !strings.Contains(jsonStr, `"Title": "Test"`) {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}
