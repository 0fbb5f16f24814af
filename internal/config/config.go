package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/labelpilot/labelpilot/internal/logger"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// DBConfig holds the Postgres connection settings for the repository catalog.
// An empty host or database name means the catalog runs on the in-memory
// fallback store.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Enabled reports whether a Postgres catalog is configured.
func (c *DBConfig) Enabled() bool {
	return c.Host != "" && c.Database != ""
}

// GitHubConfig holds the OAuth app credentials.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// EngineConfig holds the automation engine settings. A missing API key leaves
// the engine unconfigured: webhook deliveries are still recorded but jobs are
// never executed, and retries fail with a service-unavailable error.
type EngineConfig struct {
	OpenAIAPIKey string
	Model        string
}

// Enabled reports whether the automation engine is configured.
func (c *EngineConfig) Enabled() bool {
	return c.OpenAIAPIKey != ""
}

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig
	Logging  logger.Config
	Database DBConfig
	GitHub   GitHubConfig
	Engine   EngineConfig

	// FrontendURL is where OAuth callbacks redirect the browser.
	FrontendURL string
	// BackendURL is the public base URL registered in webhook configs.
	BackendURL string
	// PolicyPath optionally points at a YAML automation policy file.
	PolicyPath string

	MaxWorkers int
	QueueSize  int
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and assembles the nested Config. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("QUEUE_SIZE", 100)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no .env file loaded", "error", err)
		}
	}

	redirectURL := viper.GetString("GITHUB_REDIRECT_URI")
	if redirectURL == "" {
		redirectURL = viper.GetString("BACKEND_URL") + "/auth/github/callback"
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Database: DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		GitHub: GitHubConfig{
			ClientID:     viper.GetString("GITHUB_CLIENT_ID"),
			ClientSecret: viper.GetString("GITHUB_CLIENT_SECRET"),
			RedirectURL:  redirectURL,
		},
		Engine: EngineConfig{
			OpenAIAPIKey: viper.GetString("OPENAI_API_KEY"),
			Model:        viper.GetString("OPENAI_MODEL"),
		},
		FrontendURL: viper.GetString("FRONTEND_URL"),
		BackendURL:  viper.GetString("BACKEND_URL"),
		PolicyPath:  viper.GetString("POLICY_PATH"),
		MaxWorkers:  viper.GetInt("MAX_WORKERS"),
		QueueSize:   viper.GetInt("QUEUE_SIZE"),
	}, nil
}
