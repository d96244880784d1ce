package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the server configuration
type Config struct {
	Port     string `mapstructure:"port"`
	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
	RedisURI string `mapstructure:"redis_uri"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Upload and profiling limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	ProfileRowCap  int   `mapstructure:"profile_row_cap"`
	SampleRowCap   int   `mapstructure:"sample_row_cap"`
	MaxFollowups   int   `mapstructure:"max_followups"`

	// Auth is off by default; when on, write routes need a bearer token
	AuthRequired bool   `mapstructure:"auth_required"`
	HostUsername string `mapstructure:"host_username"`
	HostPassword string `mapstructure:"host_password"`
	JWTSecret    string `mapstructure:"jwt_secret"`

	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	AI *AIConfig `mapstructure:"-"`
}

// Load reads configuration from an optional .env file, the environment
// and defaults. Environment variables win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("mongo_uri", "MONGO_URI", "MONGODB_URI")

	v.SetDefault("port", "4000")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_db", "csvinsights")
	v.SetDefault("redis_uri", "localhost:6379")
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("profile_row_cap", 5000)
	v.SetDefault("sample_row_cap", 30)
	v.SetDefault("max_followups", 10)
	v.SetDefault("auth_required", false)
	v.SetDefault("host_username", "admin")
	v.SetDefault("host_password", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.RedisURI = strings.TrimPrefix(c.RedisURI, "redis://")

	ai, err := DefaultAIConfig()
	if err != nil {
		return nil, err
	}
	c.AI = ai
	return &c, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI")
	}
	if c.ProfileRowCap <= 0 || c.SampleRowCap < 0 || c.MaxFollowups <= 0 {
		return fmt.Errorf("row caps and follow-up limit must be positive")
	}
	if c.AuthRequired {
		if c.JWTSecret == "" || weakSecrets[c.JWTSecret] {
			return fmt.Errorf("AUTH_REQUIRED needs a private JWT_SECRET")
		}
		if c.HostPassword == "" || weakSecrets[c.HostPassword] {
			return fmt.Errorf("AUTH_REQUIRED needs a private HOST_PASSWORD")
		}
	}
	return nil
}

// weakSecrets are sample values that must never sign or guard anything
var weakSecrets = map[string]bool{
	"super-secret-key-change-in-production": true,
	"password123":                           true,
	"changeme":                              true,
	"secret":                                true,
}
