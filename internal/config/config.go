package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Organizer OrganizerConfig `mapstructure:"organizer"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AIConfig represents the Gemini client configuration
type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

// Timeout returns the per-attempt timeout for AI calls.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OrganizerConfig holds the thresholds and caps of the organization engine.
type OrganizerConfig struct {
	// MinThoughtsForClustering gates a clustering run: below this many
	// unclustered active thoughts the run is a no-op.
	MinThoughtsForClustering int `mapstructure:"min_thoughts_for_clustering"`
	// ChunkSize bounds the number of thoughts sent to the AI per call.
	ChunkSize int `mapstructure:"chunk_size"`
	// Connection discovery caps: rows fetched, summaries analyzed,
	// connections reported.
	ConnectionFetchLimit   int `mapstructure:"connection_fetch_limit"`
	ConnectionAnalyzeLimit int `mapstructure:"connection_analyze_limit"`
	ConnectionReportLimit  int `mapstructure:"connection_report_limit"`
	// Name length caps applied after sanitization.
	CategoryNameMax int `mapstructure:"category_name_max"`
	ClusterNameMax  int `mapstructure:"cluster_name_max"`
}

// DefaultOrganizer returns the organizer thresholds used when no config
// overrides them. Also used directly by tests.
func DefaultOrganizer() OrganizerConfig {
	return OrganizerConfig{
		MinThoughtsForClustering: 10,
		ChunkSize:                200,
		ConnectionFetchLimit:     50,
		ConnectionAnalyzeLimit:   20,
		ConnectionReportLimit:    10,
		CategoryNameMax:          50,
		ClusterNameMax:           100,
	}
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// .env is optional; absence is not an error
	_ = godotenv.Load(".env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.host", getEnv("PG_HOST", "localhost"))
	viper.SetDefault("database.port", getEnvInt("PG_PORT", 5432))
	viper.SetDefault("database.user", getEnv("PG_USER", "postgres"))
	viper.SetDefault("database.password", getEnv("PG_PASSWORD", ""))
	viper.SetDefault("database.name", getEnv("PG_DATABASE", "braindump_dev"))
	viper.SetDefault("database.ssl_mode", getEnv("PG_SSL_MODE", "disable"))

	viper.SetDefault("server.host", getEnv("SERVER_HOST", "localhost"))
	viper.SetDefault("server.port", getEnvInt("SERVER_PORT", 8080))

	viper.SetDefault("ai.provider", getEnv("AI_PROVIDER", "google"))
	viper.SetDefault("ai.model", getEnv("AI_MODEL", "gemini-2.0-flash"))
	viper.SetDefault("ai.api_key", getEnv("GEMINI_API_KEY", ""))
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("ai.max_retries", 2)

	def := DefaultOrganizer()
	viper.SetDefault("organizer.min_thoughts_for_clustering", def.MinThoughtsForClustering)
	viper.SetDefault("organizer.chunk_size", def.ChunkSize)
	viper.SetDefault("organizer.connection_fetch_limit", def.ConnectionFetchLimit)
	viper.SetDefault("organizer.connection_analyze_limit", def.ConnectionAnalyzeLimit)
	viper.SetDefault("organizer.connection_report_limit", def.ConnectionReportLimit)
	viper.SetDefault("organizer.category_name_max", def.CategoryNameMax)
	viper.SetDefault("organizer.cluster_name_max", def.ClusterNameMax)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults and env vars cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
