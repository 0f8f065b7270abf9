package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_DevDefaults(t *testing.T) {
	configPath := writeConfig(t, `environment: dev
siteName: "Maple Court HOA"`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Port != DefaultDevPort {
		t.Errorf("Expected port %d, got %d", DefaultDevPort, config.Port)
	}
	if config.Session.Store != "memory" {
		t.Errorf("Expected memory session store, got %q", config.Session.Store)
	}
	if config.Session.TTL != 12*time.Hour {
		t.Errorf("Expected 12h session ttl, got %v", config.Session.TTL)
	}
	if config.Database.Type != "sqlite" {
		t.Errorf("Expected sqlite database, got %q", config.Database.Type)
	}
}

func TestLoadConfig_ProdDefaults(t *testing.T) {
	configPath := writeConfig(t, `environment: prod
siteName: "Maple Court HOA"
session:
  store: redis
  redisAddr: "redis:6379"
  ttl: 2h
  cookieSecure: true`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Port != DefaultProdPort {
		t.Errorf("Expected port %d, got %d", DefaultProdPort, config.Port)
	}
	if !config.IsProd() {
		t.Error("Expected prod environment")
	}
	if config.Session.TTL != 2*time.Hour {
		t.Errorf("Expected 2h ttl, got %v", config.Session.TTL)
	}
	if !config.Session.CookieSecure {
		t.Error("Expected secure cookies in prod config")
	}
}

func TestLoadConfig_EnvironmentOverridesYAML(t *testing.T) {
	configPath := writeConfig(t, `environment: dev
port: 5000
database:
  connectionString: "from-yaml.db"`)

	t.Setenv("HOA_PORT", "9090")
	t.Setenv("HOA_DATABASE_CONNECTION_STRING", "from-env.db")
	t.Setenv("HOA_ADMIN_USERNAME", "board")
	t.Setenv("HOA_ADMIN_PASSWORD", "changeme123")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Port != 9090 {
		t.Errorf("Expected env port 9090, got %d", config.Port)
	}
	if config.Database.ConnectionString != "from-env.db" {
		t.Errorf("Expected env connection string, got %q", config.Database.ConnectionString)
	}
	if config.Admin.Username != "board" || config.Admin.Password != "changeme123" {
		t.Errorf("Expected admin from env, got %+v", config.Admin)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown environment", "environment: staging"},
		{"unknown session store", "session:\n  store: memcached"},
		{"redis without address", "session:\n  store: redis"},
		{"port out of range", "port: 70000"},
		{"unsupported database", "database:\n  type: postgres"},
		{"admin without password", "admin:\n  username: board"},
		{"malformed yaml", "port: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Expected error, got config %+v", config)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestLoadEnvFiles_SpecificFileWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HOA_SITE_NAME=generic\nHOA_TEST_ONLY_BASE=base\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.prod"), []byte("HOA_SITE_NAME=production\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// register for cleanup; godotenv only sets variables that are unset
	t.Setenv("HOA_SITE_NAME", "")
	t.Setenv("HOA_TEST_ONLY_BASE", "")
	os.Unsetenv("HOA_SITE_NAME")
	os.Unsetenv("HOA_TEST_ONLY_BASE")

	if err := LoadEnvFiles(dir, EnvProd); err != nil {
		t.Fatalf("LoadEnvFiles failed: %v", err)
	}
	if got := os.Getenv("HOA_SITE_NAME"); got != "production" {
		t.Errorf("Expected .env.prod to win, got %q", got)
	}
	if got := os.Getenv("HOA_TEST_ONLY_BASE"); got != "base" {
		t.Errorf("Expected .env value, got %q", got)
	}
}

func TestLoadEnvFiles_ProcessEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.dev"), []byte("HOA_PORT=1234\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOA_PORT", "5000")

	if err := LoadEnvFiles(dir, EnvDev); err != nil {
		t.Fatalf("LoadEnvFiles failed: %v", err)
	}
	if got := os.Getenv("HOA_PORT"); got != "5000" {
		t.Errorf("Expected process value to win, got %q", got)
	}
}

func TestLoadEnvFiles_MissingFilesIgnored(t *testing.T) {
	if err := LoadEnvFiles(t.TempDir(), EnvDev); err != nil {
		t.Fatalf("Expected no error for missing env files, got %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", "")

	if got, want := ConfigPath(dir, EnvDev), filepath.Join(dir, "config.yaml"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}

	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	perEnv := filepath.Join(dir, "config", "dev.yaml")
	if err := os.WriteFile(perEnv, []byte("environment: dev"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := ConfigPath(dir, EnvDev); got != perEnv {
		t.Errorf("ConfigPath() = %q, want %q", got, perEnv)
	}

	t.Setenv("CONFIG_PATH", "/etc/hoa/config.yaml")
	if got := ConfigPath(dir, EnvDev); got != "/etc/hoa/config.yaml" {
		t.Errorf("ConfigPath() = %q, want CONFIG_PATH value", got)
	}
}
