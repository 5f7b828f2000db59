package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	Upload         UploadConfig
	Classification ClassificationConfig
	Jobs           JobsConfig
	Log            LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxZipSizeMB int64 `mapstructure:"max_zip_size_mb"`
}

// MaxZipBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxZipBytes() int64 {
	return u.MaxZipSizeMB << 20
}

// ClassificationConfig locates the cClass description workbook.
type ClassificationConfig struct {
	TablePath string `mapstructure:"table_path"`
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	Capacity int    `mapstructure:"capacity"`
	Dir      string `mapstructure:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TROCAXML_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TROCAXML")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Upload defaults
	v.SetDefault("upload.max_zip_size_mb", 100)

	// Classification defaults
	v.SetDefault("classification.table_path", "Tabela-cClass.xlsx")

	// Jobs defaults
	v.SetDefault("jobs.capacity", 100)
	v.SetDefault("jobs.dir", os.TempDir())

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TROCAXML_SERVER_PORT",
		"server.read_timeout":       "TROCAXML_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TROCAXML_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TROCAXML_SERVER_ENVIRONMENT",
		"upload.max_zip_size_mb":    "TROCAXML_UPLOAD_MAX_ZIP_SIZE_MB",
		"classification.table_path": "TROCAXML_CLASSIFICATION_TABLE_PATH",
		"jobs.capacity":             "TROCAXML_JOBS_CAPACITY",
		"jobs.dir":                  "TROCAXML_JOBS_DIR",
		"log.level":                 "TROCAXML_LOG_LEVEL",
		"log.format":                "TROCAXML_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it when
	// TROCAXML_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TROCAXML_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Upload = UploadConfig{
		MaxZipSizeMB: v.GetInt64("upload.max_zip_size_mb"),
	}
	cfg.Classification = ClassificationConfig{
		TablePath: v.GetString("classification.table_path"),
	}
	cfg.Jobs = JobsConfig{
		Capacity: v.GetInt("jobs.capacity"),
		Dir:      v.GetString("jobs.dir"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
