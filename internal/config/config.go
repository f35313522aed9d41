package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. EVALFORM_HTTP_ADDR.
const EnvPrefix = "EVALFORM"

// Storage and cache drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env        string     `mapstructure:"env"` // local, dev, prod
	HTTP       HTTP       `mapstructure:"http"`
	Storage    Storage    `mapstructure:"storage"`
	Mongo      Mongo      `mapstructure:"mongo"`
	Cache      Cache      `mapstructure:"cache"`
	Redis      Redis      `mapstructure:"redis"`
	Forms      Forms      `mapstructure:"forms"`
	Wizard     Wizard     `mapstructure:"wizard"`
	Submission Submission `mapstructure:"submission"`
	Log        Log        `mapstructure:"log"`
}

type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type Storage struct {
	Driver string `mapstructure:"driver"` // mongo or memory
}

type Mongo struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type Cache struct {
	Driver string `mapstructure:"driver"` // redis or memory
}

type Redis struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Forms points at a directory of definitions seeded into storage at start.
type Forms struct {
	Dir string `mapstructure:"dir"`
}

type Wizard struct {
	NoticeTimeout time.Duration `mapstructure:"notice_timeout"`
}

// Submission configures the optional webhook every finished evaluation is
// forwarded to, in addition to storage.
type Submission struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Option tweaks how Load finds its sources.
type Option func(*loader)

type loader struct {
	configPaths []string
	configFile  string
	dotEnvPath  string
}

// WithConfigPaths replaces the directories searched for config.yaml.
func WithConfigPaths(paths ...string) Option {
	return func(l *loader) {
		l.configPaths = paths
	}
}

// WithConfigFile reads exactly this file; it must exist.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithDotEnv changes the optional .env file location. An empty path disables it.
func WithDotEnv(path string) Option {
	return func(l *loader) {
		l.dotEnvPath = path
	}
}

// Load reads defaults, then config.yaml, then .env, then the environment.
func Load(opts ...Option) (*Config, error) {
	l := loader{
		configPaths: []string{"./config", "."},
		dotEnvPath:  ".env",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&l)
		}
	}

	if l.dotEnvPath != "" {
		if _, err := os.Stat(l.dotEnvPath); err == nil {
			if err := godotenv.Load(l.dotEnvPath); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", l.dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: stat %s: %w", l.dotEnvPath, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range l.configPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "evalform")
	v.SetDefault("mongo.connect_timeout", "10s")

	v.SetDefault("cache.driver", DriverMemory)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", "24h")

	v.SetDefault("forms.dir", "")
	v.SetDefault("wizard.notice_timeout", "5s")
	v.SetDefault("submission.webhook_url", "")
	v.SetDefault("submission.timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Forms.Dir = strings.TrimSpace(c.Forms.Dir)
	c.Submission.WebhookURL = strings.TrimSpace(c.Submission.WebhookURL)
}

// Validate rejects unknown drivers and missing connection details.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("%w: mongo.uri and mongo.database are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Cache.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache driver %q", ErrInvalidConfig, c.Cache.Driver)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("%w: http.addr is required", ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether Env names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "prod" || env == "production"
}
