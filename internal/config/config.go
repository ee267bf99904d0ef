package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigFileName is the JSON config file looked up in the config dir.
const ConfigFileName = "annotator.cfg.json"

// EnvPrefix prefixes environment overrides: db.host is ANNOTATOR_DB_HOST.
const EnvPrefix = "ANNOTATOR"

// ErrNoConfigFile is returned by Load when the config file is absent.
// Defaults and environment overrides are still in effect.
var ErrNoConfigFile = errors.New("config file not found")

// EditorConfig holds the editing settings
type EditorConfig struct {
	StepMeters float64 `json:"stepMeters" mapstructure:"stepMeters"`
	Mode       string  `json:"mode" mapstructure:"mode"`
}

// SourceConfig selects where courses come from: the REST API or a local
// sqlite/postgres mirror.
type SourceConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	ServerURL  string `json:"serverUrl" mapstructure:"serverUrl"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// GraylogConfig holds the GELF output settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file and an optional .env.
func Load(configDir string) error {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err == nil {
		viper.Set("envFile", filepath.Join(configDir, ".env"))
	}

	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./annotatorlogs")

	viper.SetDefault("source.type", "api")
	viper.SetDefault("api.serverUrl", "http://localhost:5000/api")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "golf_annotations")

	viper.SetDefault("sqlite.path", "./annotator.db")

	viper.SetDefault("editor.stepMeters", 0.1)
	viper.SetDefault("editor.mode", "shift")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w in %s", ErrNoConfigFile, configDir)
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetEditorConfig returns the editor settings.
func GetEditorConfig() EditorConfig {
	return EditorConfig{
		StepMeters: viper.GetFloat64("editor.stepMeters"),
		Mode:       viper.GetString("editor.mode"),
	}
}

// GetSourceConfig returns the course source settings.
func GetSourceConfig() SourceConfig {
	return SourceConfig{
		Type:       strings.ToLower(viper.GetString("source.type")),
		ServerURL:  viper.GetString("api.serverUrl"),
		SqlitePath: viper.GetString("sqlite.path"),
	}
}

// GetGraylogConfig returns the GELF output settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
