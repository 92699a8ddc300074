// README: Config loader (viper) with defaults, optional config.yaml and TELEPORT_* env overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type MatchingConfig struct {
	TickSeconds int     `mapstructure:"tick_seconds"`
	RadiusKm    float64 `mapstructure:"radius_km"`
}

type TripConfig struct {
	StageDelay time.Duration `mapstructure:"stage_delay"`
	TrackSteps int           `mapstructure:"track_steps"`
}

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`
	DB struct {
		DSN     string `mapstructure:"dsn"`
		Migrate bool   `mapstructure:"migrate"`
	} `mapstructure:"db"`
	Redis struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"redis"`
	Matching MatchingConfig `mapstructure:"matching"`
	Pricing  struct {
		PreferredProvider string `mapstructure:"preferred_provider"`
	} `mapstructure:"pricing"`
	Trip     TripConfig `mapstructure:"trip"`
	Location struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"location"`
	Maps struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"maps"`
	AI struct {
		GeminiKey string `mapstructure:"gemini_key"`
	} `mapstructure:"ai"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

const envPrefix = "TELEPORT"

// Load reads config.yaml from dir (if present) and applies TELEPORT_* env
// overrides, e.g. TELEPORT_MATCHING_RADIUS_KM. An empty db.dsn or
// redis.addr leaves that backend disabled.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.migrate", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("matching.tick_seconds", 3)
	v.SetDefault("matching.radius_km", 3.0)
	v.SetDefault("pricing.preferred_provider", "Teleport Fleet")
	v.SetDefault("trip.stage_delay", 4*time.Second)
	v.SetDefault("trip.track_steps", 10)
	v.SetDefault("location.ttl", 24*time.Hour)
	v.SetDefault("maps.api_key", "")
	v.SetDefault("ai.gemini_key", "")
	v.SetDefault("log.level", "info")
}

func (c Config) validate() error {
	switch {
	case c.Matching.TickSeconds <= 0:
		return fmt.Errorf("matching.tick_seconds must be positive, got %d", c.Matching.TickSeconds)
	case c.Matching.RadiusKm <= 0:
		return fmt.Errorf("matching.radius_km must be positive, got %v", c.Matching.RadiusKm)
	case c.Trip.StageDelay <= 0:
		return fmt.Errorf("trip.stage_delay must be positive, got %s", c.Trip.StageDelay)
	case c.Trip.TrackSteps <= 0:
		return fmt.Errorf("trip.track_steps must be positive, got %d", c.Trip.TrackSteps)
	}
	return nil
}
