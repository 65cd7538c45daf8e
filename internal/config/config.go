package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	"github.com/dbforge/mssql-provision-agent/pkg/sizeunit"
)

// Configuration is the agent's full runtime configuration, populated once at
// startup from file and environment and validated before anything runs.
type Configuration struct {
	Server       Server       `mapstructure:"server"`
	Agent        Agent        `mapstructure:"agent"`
	Instance     Instance     `mapstructure:"instance"`
	Provisioning Provisioning `mapstructure:"provisioning"`
	Auth         Auth         `mapstructure:"auth"`
	LogLevel     string       `mapstructure:"log_level" default:"info"`
	LogFormat    string       `mapstructure:"log_format" default:"console"`
}

// Server holds the HTTP server settings.
type Server struct {
	Mode     string `mapstructure:"mode" default:"dev"`
	HTTPPort int    `mapstructure:"http_port" default:"8000"`
}

// Agent holds agent behavior settings.
type Agent struct {
	NumWorkers int    `mapstructure:"num_workers" default:"3"`
	DataFolder string `mapstructure:"data_folder" default:"."`
}

// Instance holds the target SQL Server connection settings.
type Instance struct {
	Host           string        `mapstructure:"host" default:"localhost"`
	Port           int           `mapstructure:"port" default:"1433"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Encrypt        bool          `mapstructure:"encrypt"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" default:"15s"`
	MaxRetryTime   time.Duration `mapstructure:"max_retry_time" default:"30s"`
}

// Provisioning holds the planning defaults applied to every database that
// does not override them. Sizes are literals ("10GB"); they are parsed during
// Validate and exposed through the *MB accessors.
type Provisioning struct {
	PerFileThreshold string `mapstructure:"per_file_threshold" default:"10GB"`
	DefaultLogSize   string `mapstructure:"default_log_size" default:"1GB"`
	Growth           string `mapstructure:"growth" default:"256MB"`
	MarginPercent    int    `mapstructure:"margin_percent" default:"10"`
	DataPath         string `mapstructure:"data_path" default:"/var/opt/mssql/data"`
	LogPath          string `mapstructure:"log_path" default:"/var/opt/mssql/log"`
	LoginPassword    string `mapstructure:"login_password"`

	perFileThresholdMB int64
	defaultLogSizeMB   int64
	growthMB           int64
}

// Auth holds the API authentication settings.
type Auth struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// New returns a Configuration carrying only defaults.
func New() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration file (optional) and MSSQLPROV_* environment
// overrides on top of the defaults, then validates the result.
func Load(path string) (*Configuration, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("MSSQLPROV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvKeys(v, reflect.TypeOf(Configuration{}), ""); err != nil {
		return nil, fmt.Errorf("failed to bind environment keys: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvKeys walks the mapstructure tags and binds every configuration key
// with viper. Viper only consults the environment for keys it already knows
// about, so without the explicit binds AutomaticEnv sees none of them.
func bindEnvKeys(v *viper.Viper, t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			if err := bindEnvKeys(v, field.Type, key); err != nil {
				return err
			}
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the configuration and normalizes the size literals.
// All malformed values fail here, at the boundary, not at point of use.
func (c *Configuration) Validate() error {
	if c.Server.Mode != "dev" && c.Server.Mode != "prod" {
		return fmt.Errorf("invalid server mode %q: must be 'dev' or 'prod'", c.Server.Mode)
	}
	if c.Agent.NumWorkers < 1 {
		return fmt.Errorf("num_workers must be at least 1, got %d", c.Agent.NumWorkers)
	}
	if c.Provisioning.MarginPercent < 0 || c.Provisioning.MarginPercent > 100 {
		return fmt.Errorf("margin_percent must be between 0 and 100, got %d", c.Provisioning.MarginPercent)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth is enabled but jwt_secret is empty")
	}

	var err error
	if c.Provisioning.perFileThresholdMB, err = sizeunit.Parse(c.Provisioning.PerFileThreshold); err != nil {
		return fmt.Errorf("invalid per_file_threshold: %w", err)
	}
	if c.Provisioning.perFileThresholdMB <= 0 {
		return fmt.Errorf("per_file_threshold must be positive, got %s", c.Provisioning.PerFileThreshold)
	}
	if c.Provisioning.defaultLogSizeMB, err = sizeunit.Parse(c.Provisioning.DefaultLogSize); err != nil {
		return fmt.Errorf("invalid default_log_size: %w", err)
	}
	if c.Provisioning.growthMB, err = sizeunit.Parse(c.Provisioning.Growth); err != nil {
		return fmt.Errorf("invalid growth: %w", err)
	}
	return nil
}

// PerFileThresholdMB returns the normalized per-file size ceiling.
func (p Provisioning) PerFileThresholdMB() int64 { return p.perFileThresholdMB }

// DefaultLogSizeMB returns the normalized default log size.
func (p Provisioning) DefaultLogSizeMB() int64 { return p.defaultLogSizeMB }

// GrowthMB returns the normalized file growth increment.
func (p Provisioning) GrowthMB() int64 { return p.growthMB }
