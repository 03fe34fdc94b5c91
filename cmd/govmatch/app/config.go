package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/govmatch/internal/llm"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Matching configuration
	RulesFile string
	Workers   int

	// Verification configuration
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBackend  string
	GoogleProject  string
	GoogleLocation string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (the given path, or ~/.govmatch.yaml / ./.govmatch.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("GOVMATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("gemini.model", llm.DefaultModel)
	v.SetDefault("gemini.backend", string(llm.BackendGemini))
	v.SetDefault("google.location", "us-central1")

	// Provider credentials use their conventional names
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("google.project", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("google.location", "GOOGLE_CLOUD_LOCATION")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".govmatch")

		// Read config file (ignore error if not found)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	config := &Config{
		Output:     v.GetString("output"),
		ConfigFile: v.ConfigFileUsed(),

		RulesFile: v.GetString("rules"),
		Workers:   v.GetInt("workers"),

		GeminiAPIKey:   v.GetString("gemini.api_key"),
		GeminiModel:    v.GetString("gemini.model"),
		GeminiBackend:  v.GetString("gemini.backend"),
		GoogleProject:  v.GetString("google.project"),
		GoogleLocation: v.GetString("google.location"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log.level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", stringOr(v.GetString("log.format"), "auto")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", stringOr(v.GetString("log.output"), "stderr")),
	}

	if config.Workers < 1 || config.Workers > constants.MaxWorkers {
		return nil, errors.NewValidationError("workers", config.Workers, "must be between 1 and 64")
	}
	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// VerifierConfig returns the verification client settings for model. An
// empty model uses the configured one.
func (c *Config) VerifierConfig(model string) llm.Config {
	if model == "" {
		model = c.GeminiModel
	}
	return llm.Config{
		Backend:  llm.Backend(c.GeminiBackend),
		APIKey:   c.GeminiAPIKey,
		Project:  c.GoogleProject,
		Location: c.GoogleLocation,
		Model:    model,
		Timeout:  constants.VerifyRequestTimeout,
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv.Load never overrides variables that are already set, so
	// loading .env.local first gives it precedence over .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
