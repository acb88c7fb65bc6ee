package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Allocator AllocatorConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AllocatorWeights tunes the candidate scoring model.
type AllocatorWeights struct {
	Capacity                float64
	SoftRule                float64
	PreferredRoom           float64
	PreferredCharacteristic float64
	History                 float64
}

// AllocatorConfig governs allocation engine behaviour.
type AllocatorConfig struct {
	HardRuleFallback bool
	DecisionLog      bool
	RunTTL           time.Duration
	LockTTL          time.Duration
	Workers          int
	Weights          AllocatorWeights
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Allocator = AllocatorConfig{
		HardRuleFallback: v.GetBool("ALLOCATOR_HARD_RULE_FALLBACK"),
		DecisionLog:      v.GetBool("ALLOCATOR_DECISION_LOG"),
		RunTTL:           parseDuration(v.GetString("ALLOCATOR_RUN_TTL"), 2*time.Hour),
		LockTTL:          parseDuration(v.GetString("ALLOCATOR_LOCK_TTL"), 10*time.Minute),
		Workers:          v.GetInt("ALLOCATOR_WORKERS"),
		Weights: AllocatorWeights{
			Capacity:                v.GetFloat64("ALLOCATOR_WEIGHT_CAPACITY"),
			SoftRule:                v.GetFloat64("ALLOCATOR_WEIGHT_SOFT_RULE"),
			PreferredRoom:           v.GetFloat64("ALLOCATOR_WEIGHT_PREFERRED_ROOM"),
			PreferredCharacteristic: v.GetFloat64("ALLOCATOR_WEIGHT_PREFERRED_CHARACTERISTIC"),
			History:                 v.GetFloat64("ALLOCATOR_WEIGHT_HISTORY"),
		},
	}

	return cfg, nil
}

// DefaultWeights returns the scoring weights used when none are configured.
func DefaultWeights() AllocatorWeights {
	return AllocatorWeights{
		Capacity:                20,
		SoftRule:                10,
		PreferredRoom:           15,
		PreferredCharacteristic: 5,
		History:                 3,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "room_alloc")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ALLOCATOR_HARD_RULE_FALLBACK", true)
	v.SetDefault("ALLOCATOR_DECISION_LOG", false)
	v.SetDefault("ALLOCATOR_RUN_TTL", "2h")
	v.SetDefault("ALLOCATOR_LOCK_TTL", "10m")
	v.SetDefault("ALLOCATOR_WORKERS", 1)

	defaults := DefaultWeights()
	v.SetDefault("ALLOCATOR_WEIGHT_CAPACITY", defaults.Capacity)
	v.SetDefault("ALLOCATOR_WEIGHT_SOFT_RULE", defaults.SoftRule)
	v.SetDefault("ALLOCATOR_WEIGHT_PREFERRED_ROOM", defaults.PreferredRoom)
	v.SetDefault("ALLOCATOR_WEIGHT_PREFERRED_CHARACTERISTIC", defaults.PreferredCharacteristic)
	v.SetDefault("ALLOCATOR_WEIGHT_HISTORY", defaults.History)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
