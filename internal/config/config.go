package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMinIO    = "minio"
)

// DefaultNotesKey is the storage entry that holds the saved notes.
const DefaultNotesKey = "my_tech_notes"

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// StoreConfig selects and configures the note store backend.
type StoreConfig struct {
	Backend    string
	Key        string
	BoltPath   string
	SQLitePath string
}

// RefinerConfig holds settings for the refinement call.
// Endpoint is used by clients that call a remote /api/refine instead of the LLM directly.
type RefinerConfig struct {
	APIKey       string
	Model        string
	MaxTokens    int
	Timeout      time.Duration
	MaxNoteChars int
	Endpoint     string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Store    StoreConfig
	Refiner  RefinerConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// If CONFIG_FILE names a YAML file of KEY: value pairs, those values act as defaults
// that real environment variables override.
func Load() (*AppConfig, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		AppHost: src.getEnv("APP_HOST", "localhost:8080"),
		Port:    src.getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               src.getEnv("DB_HOST", ""),
			Port:               src.getEnv("DB_PORT", "5432"),
			User:               src.getEnv("DB_USER", ""),
			Password:           src.getEnv("DB_PASSWORD", ""),
			Name:               src.getEnv("DB_NAME", ""),
			SSLMode:            src.getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       src.getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       src.getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: src.getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  src.getEnv("MINIO_ENDPOINT", ""),
			AccessKey: src.getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: src.getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    src.getEnv("MINIO_BUCKET", ""),
			Prefix:    src.getEnv("MINIO_PREFIX", ""),
			UseSSL:    src.getEnvBool("MINIO_USE_SSL", false),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(src.getEnv("STORE_BACKEND", BackendBolt)),
			Key:        src.getEnv("STORE_KEY", DefaultNotesKey),
			BoltPath:   src.getEnv("STORE_BOLT_PATH", "data/notes.bolt"),
			SQLitePath: src.getEnv("STORE_SQLITE_PATH", "data/notes.db"),
		},
		Refiner: RefinerConfig{
			APIKey:       src.getEnv("ANTHROPIC_API_KEY", ""),
			Model:        src.getEnv("REFINE_MODEL", "claude-sonnet-4-5-20250929"),
			MaxTokens:    src.getEnvInt("REFINE_MAX_TOKENS", 2048),
			Timeout:      src.getEnvDuration("REFINE_TIMEOUT", 60*time.Second),
			MaxNoteChars: src.getEnvInt("REFINE_MAX_NOTE_CHARS", 20000),
			Endpoint:     src.getEnv("REFINE_ENDPOINT", "http://localhost:8080"),
		},
		Log: LogConfig{
			Level: src.getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// Validate checks the settings the selected store backend depends on.
func (c *AppConfig) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendBolt, BackendSQLite, BackendPostgres, BackendMinIO:
	default:
		return fmt.Errorf("store backend must be one of memory, bolt, sqlite, postgres, minio; got %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return fmt.Errorf("store key is required")
	}
	if c.Refiner.MaxNoteChars <= 0 {
		return fmt.Errorf("REFINE_MAX_NOTE_CHARS must be positive")
	}
	return nil
}

// source resolves keys against the environment first, then the optional file.
type source struct {
	file map[string]string
}

func newSource(path string) (*source, error) {
	s := &source{file: map[string]string{}}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		s.file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return s, nil
}

func (s *source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.file[key]
}

func (s *source) getEnv(key, def string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return def
}

func (s *source) getEnvBool(key string, def bool) bool {
	if v := s.lookup(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func (s *source) getEnvInt(key string, def int) int {
	if v := s.lookup(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("30s") or a bare number of seconds.
func (s *source) getEnvDuration(key string, def time.Duration) time.Duration {
	v := s.lookup(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
