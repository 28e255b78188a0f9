package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Mode selects the reservation store the CLI uses.
type Mode string

const (
	// ModeAuto tries the backend at login and falls back to the local store.
	ModeAuto Mode = "auto"
	// ModeOnline always uses the backend.
	ModeOnline Mode = "online"
	// ModeOffline always uses the local store (demo mode).
	ModeOffline Mode = "offline"
)

// Log holds logger settings.
type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// Config holds runtime settings for the UniRent CLI.
//
// Units: RequestTimeout is a time.Duration ("5s" in files and env); zero
// disables the timeout.
type Config struct {
	ServerURL      string        `koanf:"server_url" validate:"required,http_url"`
	Mode           Mode          `koanf:"mode" validate:"oneof=auto online offline"`
	DatabasePath   string        `koanf:"database_path" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gte=0"`
	PageSize       int           `koanf:"page_size" validate:"gte=1,lte=500"`
	Log            Log           `koanf:"log"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.Mode = ModeAuto
	c.DatabasePath = "unirent.db"
	c.RequestTimeout = 0
	c.PageSize = 50
	c.Log = Log{Level: "info", Format: "text"}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// Load builds a Config from defaults, then the config file named by -c or
// -config, then UNIRENT_* environment variables, then the -a, -m and -d
// flags found in args. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadSources(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
