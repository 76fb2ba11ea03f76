package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"tweetClone/database"
	"tweetClone/domain"
	"tweetClone/http"
)

// Config holds the configuration of the app. It's built from DefaultConfig, a json
// file, .env files and environment variables, in that order, each overriding the one before.
type Config struct {
	Host         string         `json:"host" env:"HTTP_HOST"`
	Port         int            `json:"port" env:"HTTP_PORT" validate:"gt=0,lte=65535"`
	Env          string         `json:"env" env:"APP_ENV" validate:"oneof=dev prod"`
	LogLevel     string         `json:"log_level" env:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	APIKeyHeader string         `json:"api_key_header" env:"API_KEY_HEADER" validate:"required"`
	Database     DatabaseConfig `json:"database" envPrefix:"DB_"`
	Media        MediaConfig    `json:"media" envPrefix:"MEDIA_"`
}

// DatabaseConfig describes the database connection. Postgres is used in production,
// sqlite is handy for local runs.
type DatabaseConfig struct {
	Driver     string `json:"driver" env:"DRIVER" validate:"oneof=postgres sqlite"`
	Host       string `json:"host" env:"HOST"`
	Port       int    `json:"port" env:"PORT"`
	User       string `json:"user" env:"USER"`
	Password   string `json:"password" env:"PASSWORD"`
	Name       string `json:"name" env:"NAME"`
	SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`
}

// MediaConfig describes where uploaded media files are kept.
type MediaConfig struct {
	Store         string      `json:"store" env:"STORE" validate:"oneof=local minio"`
	Dir           string      `json:"dir" env:"DIR" validate:"required_if=Store local"`
	BaseURL       string      `json:"base_url" env:"BASE_URL"`
	MaxUploadSize int64       `json:"max_upload_size" env:"MAX_UPLOAD_SIZE" validate:"gt=0"`
	Minio         MinioConfig `json:"minio" envPrefix:"MINIO_"`
}

// MinioConfig describes an S3 compatible object storage.
type MinioConfig struct {
	Endpoint  string `json:"endpoint" env:"ENDPOINT"`
	AccessKey string `json:"access_key" env:"ACCESS_KEY"`
	SecretKey string `json:"secret_key" env:"SECRET_KEY"`
	Bucket    string `json:"bucket" env:"BUCKET"`
	PublicURL string `json:"public_url" env:"PUBLIC_URL"`
	UseSSL    bool   `json:"use_ssl" env:"USE_SSL"`
}

// IsProd reports whether the app runs in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// Addr returns the address the server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConnectionInfo returns the connection string for the configured driver.
func (dc DatabaseConfig) ConnectionInfo() string {
	if dc.Driver == database.DriverSQLite {
		return database.SQLiteDSN(dc.SQLitePath)
	}
	if dc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Password, dc.Name)
}

// DefaultConfig returns the configuration of a local development setup.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         3000,
		Env:          "dev",
		LogLevel:     "debug",
		APIKeyHeader: http.DefaultAPIKeyHeader,
		Database:     DefaultDatabaseConfig(),
		Media:        DefaultMediaConfig(),
	}
}

// DefaultDatabaseConfig returns the configuration of a local postgres database.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:     database.DriverPostgres,
		Host:       "localhost",
		Port:       5432,
		User:       "postgres",
		Password:   "",
		Name:       "tweet_clone",
		SQLitePath: "tweet_clone.db",
	}
}

// DefaultMediaConfig returns the configuration of a media directory next to the binary.
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		Store:         "local",
		Dir:           "media",
		BaseURL:       "http://localhost:3000/media",
		MaxUploadSize: domain.MaxUploadSize,
	}
}

// LoadConfig builds the configuration. The json file at path is optional in development,
// but required in production. Values from .env files and the environment win over the file.
func LoadConfig(isProd bool, path string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return c, errors.Wrapf(err, "decoding %s", path)
		}
	case isProd:
		return c, errors.Wrapf(err, "%s is required in production", path)
	}
	if isProd {
		c.Env = "prod"
	}

	loadDotEnvs("", c.Env)
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "parsing environment")
	}
	if isProd {
		c.Env = "prod"
	}
	if err := validator.New().Struct(c); err != nil {
		return c, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

// loadDotEnvs loads .env files, without overriding variables that are already set.
// Files loaded first win: .env.[env].local, .env.local, .env.[env], .env.
func loadDotEnvs(rootPath, appEnv string) {
	for _, name := range []string{
		".env." + appEnv + ".local",
		".env.local",
		".env." + appEnv,
		".env",
	} {
		// Missing files are fine.
		_ = godotenv.Load(rootPath + name)
	}
}
