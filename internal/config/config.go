package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                    string   `mapstructure:"PORT"`
	Env                     string   `mapstructure:"ENV"`
	DatabaseURL             string   `mapstructure:"DATABASE_URL"`
	DBMaxConns              int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns              int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret               string   `mapstructure:"JWT_SECRET"`
	TokenTTLMinutes         int      `mapstructure:"TOKEN_TTL_MINUTES"`
	CORSOrigins             []string `mapstructure:"-"`
	AuthRateLimitRPS        float64  `mapstructure:"AUTH_RATE_LIMIT_RPS"`
	AuthRateLimitBurst      int      `mapstructure:"AUTH_RATE_LIMIT_BURST"`
	CancellationWindowHours int      `mapstructure:"CANCELLATION_WINDOW_HOURS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)
	v.SetDefault("CANCELLATION_WINDOW_HOURS", 24)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_RATE_LIMIT_RPS")
	v.BindEnv("AUTH_RATE_LIMIT_BURST")
	v.BindEnv("CANCELLATION_WINDOW_HOURS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated env value; viper cannot decode it into a slice
	// without a hook, so split it by hand.
	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
		log.Println("WARNING: JWT_SECRET not set, using insecure development secret")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT secret is mandatory; a server that silently fell back to a
// known signing key would accept forged tokens.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	if c.CancellationWindowHours < 0 {
		return fmt.Errorf("CANCELLATION_WINDOW_HOURS must not be negative, got %d", c.CancellationWindowHours)
	}
	return nil
}
