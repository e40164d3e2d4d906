package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	PDF      PDFConfig      `json:"pdf" yaml:"pdf"`
	Garage   GarageConfig   `json:"garage" yaml:"garage"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host                string `json:"host" yaml:"host"`
	Port                int    `json:"port" yaml:"port"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	// WriteTimeoutSeconds bounds a whole response. A document waits up to the fetch timeout
	// for the photo and for every certificate, so this must exceed that sum for the largest
	// expected request.
	WriteTimeoutSeconds int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `json:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	Mode                string `json:"mode" yaml:"mode"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver         string `json:"driver" yaml:"driver"` // postgres or sqlite3
	Host           string `json:"host" yaml:"host"`
	Port           int    `json:"port" yaml:"port"`
	User           string `json:"user" yaml:"user"`
	Password       string `json:"password" yaml:"password"`
	DBName         string `json:"db_name" yaml:"db_name"`
	SSLMode        string `json:"ssl_mode" yaml:"ssl_mode"`
	Path           string `json:"path" yaml:"path"` // sqlite3 file
	MaxConnections int    `json:"max_connections" yaml:"max_connections"`
	MaxIdleConns   int    `json:"max_idle_conns" yaml:"max_idle_conns"`
}

// StorageConfig selects how stored certificate and photo references become URLs.
type StorageConfig struct {
	Provider          string `json:"provider" yaml:"provider"` // public or s3
	BaseURL           string `json:"base_url" yaml:"base_url"`
	Bucket            string `json:"bucket" yaml:"bucket"`
	Region            string `json:"region" yaml:"region"`
	Endpoint          string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID       string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey   string `json:"secret_access_key" yaml:"secret_access_key"`
	PresignTTLMinutes int    `json:"presign_ttl_minutes" yaml:"presign_ttl_minutes"`
}

// PDFConfig holds document generation settings.
type PDFConfig struct {
	PageSize            string `json:"page_size" yaml:"page_size"`
	FileName            string `json:"file_name" yaml:"file_name"`
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
	ImageCacheMinutes   int    `json:"image_cache_minutes" yaml:"image_cache_minutes"`
	MaxImageBytes       int64  `json:"max_image_bytes" yaml:"max_image_bytes"`
	MaxImageMegapixels  int    `json:"max_image_megapixels" yaml:"max_image_megapixels"`
}

// GarageConfig
type GarageConfig struct {
	WhatsApp string `json:"whatsapp" yaml:"whatsapp"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 120,
			IdleTimeoutSeconds:  60,
			Mode:                "release",
		},
		Database: DatabaseConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "hojadevida",
			SSLMode:        "disable",
			Path:           "hojadevida.db",
			MaxConnections: 10,
			MaxIdleConns:   5,
		},
		Storage: StorageConfig{
			Provider:          "public",
			PresignTTLMinutes: 15,
		},
		PDF: PDFConfig{
			PageSize:            "Letter",
			FileName:            "hoja_vida.pdf",
			FetchTimeoutSeconds: 7,
			ImageCacheMinutes:   10,
			MaxImageBytes:       20 << 20,
			MaxImageMegapixels:  25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file and environment variables. A .env file in the
// working directory is read first; variables already set in the environment win.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := unmarshal(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func unmarshal(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

func overrideWithEnv(config *Config) {
	setString(&config.Server.Host, "SERVER_HOST")
	setInt(&config.Server.Port, "SERVER_PORT")
	setString(&config.Server.Mode, "GIN_MODE")

	setString(&config.Database.Driver, "DATABASE_DRIVER")
	setString(&config.Database.Host, "DATABASE_HOST")
	setInt(&config.Database.Port, "DATABASE_PORT")
	setString(&config.Database.User, "DATABASE_USER")
	setString(&config.Database.Password, "DATABASE_PASSWORD")
	setString(&config.Database.DBName, "DATABASE_DBNAME")
	setString(&config.Database.SSLMode, "DATABASE_SSLMODE")
	setString(&config.Database.Path, "DATABASE_PATH")

	setString(&config.Storage.Provider, "STORAGE_PROVIDER")
	setString(&config.Storage.BaseURL, "STORAGE_BASE_URL")
	setString(&config.Storage.Bucket, "STORAGE_BUCKET")
	setString(&config.Storage.Region, "AWS_REGION")
	setString(&config.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&config.Storage.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.Storage.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")

	setString(&config.PDF.PageSize, "PDF_PAGE_SIZE")
	setString(&config.PDF.FileName, "PDF_FILE_NAME")
	setInt(&config.PDF.FetchTimeoutSeconds, "PDF_FETCH_TIMEOUT_SECONDS")
	setInt(&config.PDF.ImageCacheMinutes, "PDF_IMAGE_CACHE_MINUTES")
	setInt(&config.PDF.MaxImageMegapixels, "PDF_MAX_IMAGE_MEGAPIXELS")

	setString(&config.Garage.WhatsApp, "GARAGE_WHATSAPP")
	setString(&config.Logging.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Provider {
	case "public":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the s3 provider")
		}
	default:
		return fmt.Errorf("unsupported storage provider %q", c.Storage.Provider)
	}
	if c.PDF.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("pdf fetch timeout must be positive")
	}
	if !validPageSize(c.PDF.PageSize) {
		return fmt.Errorf("unsupported pdf page size %q (want A4, Letter or Legal)", c.PDF.PageSize)
	}
	return nil
}

func validPageSize(size string) bool {
	for _, s := range []string{"A4", "Letter", "Legal"} {
		if strings.EqualFold(size, s) {
			return true
		}
	}
	return false
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	if c.Driver == "sqlite3" {
		return c.Path
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FetchTimeout is the per-image fetch bound.
func (c *PDFConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// MaxImagePixels is the decoded size limit of a fetched image.
func (c *PDFConfig) MaxImagePixels() int {
	return c.MaxImageMegapixels * 1_000_000
}

// ImageCacheTTL is how long fetched images are reused.
func (c *PDFConfig) ImageCacheTTL() time.Duration {
	return time.Duration(c.ImageCacheMinutes) * time.Minute
}

// PresignTTL is the validity of presigned object URLs.
func (c *StorageConfig) PresignTTL() time.Duration {
	return time.Duration(c.PresignTTLMinutes) * time.Minute
}
