package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	DefaultDevPort  = 5000
	DefaultProdPort = 8000

	// EnvPrefix is put in front of every environment variable that overrides
	// the YAML configuration, e.g. HOA_PORT or HOA_SESSION_STORE.
	EnvPrefix = "HOA_"
)

type Database struct {
	Type             string `yaml:"type" env:"TYPE" validate:"required,oneof=sqlite"`
	ConnectionString string `yaml:"connectionString" env:"CONNECTION_STRING" validate:"required"`
}

type Session struct {
	Store         string        `yaml:"store" env:"STORE" validate:"required,oneof=memory redis"`
	RedisAddr     string        `yaml:"redisAddr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redisPassword" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redisDB" env:"REDIS_DB" validate:"min=0"`
	TTL           time.Duration `yaml:"ttl" env:"TTL" validate:"min=1"`
	CookieName    string        `yaml:"cookieName" env:"COOKIE_NAME" validate:"required"`
	CookieSecure  bool          `yaml:"cookieSecure" env:"COOKIE_SECURE"`
}

type Finance struct {
	CheckingCSV string `yaml:"checkingCSV" env:"CHECKING_CSV"`
	SavingsCSV  string `yaml:"savingsCSV" env:"SAVINGS_CSV"`
}

// Admin is the account created on first start, when the database has no
// users yet.
type Admin struct {
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
}

type ServiceConfig struct {
	Environment string   `yaml:"environment" env:"ENV" validate:"required,oneof=dev prod"`
	Port        int      `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	SiteName    string   `yaml:"siteName" env:"SITE_NAME" validate:"required"`
	Contact     string   `yaml:"contact" env:"CONTACT_EMAIL" validate:"omitempty,email"`
	Database    Database `yaml:"database" envPrefix:"DATABASE_"`
	Session     Session  `yaml:"session" envPrefix:"SESSION_"`
	Finance     Finance  `yaml:"finance" envPrefix:"FINANCE_"`
	Admin       Admin    `yaml:"admin" envPrefix:"ADMIN_"`
}

// IsProd reports whether the site runs with production settings.
func (c *ServiceConfig) IsProd() bool {
	return c.Environment == EnvProd
}

// LoadConfig loads configuration from the specified YAML file and overlays
// HOA_* environment variables on top of it.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	config := defaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	config.applyPortDefault()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

func defaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Environment: EnvDev,
		SiteName:    "Homeowners Association",
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "hoa.db",
		},
		Session: Session{
			Store:      "memory",
			TTL:        12 * time.Hour,
			CookieName: "hoa_session",
		},
	}
}

// applyPortDefault picks the port of the environment when none is set.
func (c *ServiceConfig) applyPortDefault() {
	if c.Port != 0 {
		return
	}
	if c.IsProd() {
		c.Port = DefaultProdPort
		return
	}
	c.Port = DefaultDevPort
}

// Validate checks struct tags and the rules that span fields.
func (c *ServiceConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Session.Store == "redis" && c.Session.RedisAddr == "" {
		return errors.New("session.redisAddr is required for the redis session store")
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return errors.New("admin.username and admin.password must be set together")
	}
	return nil
}
