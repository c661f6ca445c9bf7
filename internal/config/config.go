package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"development"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Auth       Auth       `yaml:"auth"`
	Database   Database   `yaml:"database"`
	Redis      Redis      `yaml:"redis"`
	MinIO      MinIO      `yaml:"minio"`
	Media      Media      `yaml:"media"`
	Worker     Worker     `yaml:"worker"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS"`
	Port    string `yaml:"port" env:"PORT" env-default:"3000"`
}

type Auth struct {
	PasswordSalt string `yaml:"password_salt" env:"PASSWORD_SALT" env-default:"forum_secret_salt_2024"`
	AdminToken   string `yaml:"admin_token" env:"ADMIN_TOKEN" env-default:"change-me-admin-token"`
	JWTSecret    string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	// Accept passwords stored in plaintext by the legacy backend and re-hash
	// them on first successful login. Disable once every account has logged
	// in since the migration.
	LegacyPlaintextPasswords bool `yaml:"legacy_plaintext_passwords" env:"LEGACY_PLAINTEXT_PASSWORDS" env-default:"true"`
}

type Database struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	DSN      string `yaml:"dsn" env:"DB_DSN"`
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password string `yaml:"password" env:"PGPASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PGDATABASE" env-default:"forum"`
	SSLMode  string `yaml:"sslmode" env:"PGSSLMODE" env-default:"disable"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_KEY"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"forum-avatars"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type Media struct {
	AllowedMimeTypes []string `yaml:"allowed_mime_types" env:"MEDIA_ALLOWED_TYPES" env-default:"image/jpeg,image/png,image/gif,image/webp"`
	MaxFileSize      int64    `yaml:"max_file_size" env:"MEDIA_MAX_FILE_SIZE" env-default:"5242880"`
	PresignedURLTTL  int      `yaml:"presigned_url_ttl" env:"MEDIA_PRESIGNED_TTL" env-default:"900"`
}

type Worker struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval" env:"RECONCILE_INTERVAL" env-default:"10m"`
}

// IsProduction reports whether authorization checks must be enforced.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ListenAddress returns the explicit address if set, otherwise all
// interfaces on the configured port.
func (c *Config) ListenAddress() string {
	if c.HTTPServer.Address != "" {
		return c.HTTPServer.Address
	}
	return "0.0.0.0:" + c.HTTPServer.Port
}

// DataSource returns the driver name and DSN for database/sql.
func (d Database) DataSource() (string, string) {
	if d.DSN != "" {
		return d.Driver, d.DSN
	}
	if d.Driver == "sqlite" {
		return d.Driver, "forum.db?_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	}
	return d.Driver, fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Load reads configuration from an optional YAML file and the environment.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist at path: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return cfg
}
