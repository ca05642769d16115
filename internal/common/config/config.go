// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"contractor-rag/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ScoringConfig holds the engine's weighting policy and operational knobs.
type ScoringConfig struct {
	Weights models.RAGWeights `mapstructure:"weights"`

	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	BatchConcurrency  int           `mapstructure:"batch_concurrency"`
	ContractorTimeout time.Duration `mapstructure:"contractor_timeout"` // per-contractor budget in batch mode, 0 = none
	HistoryRetries    int           `mapstructure:"history_retries"`
	RefreshInterval   time.Duration `mapstructure:"refresh_interval"` // periodic bulk refresh, 0 = disabled
	RankingLimit      int           `mapstructure:"ranking_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds the metrics/health listener settings.
type ServerConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
}
