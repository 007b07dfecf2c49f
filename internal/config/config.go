package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"Thread_of_Hope/internal/pkg"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "THREAD_CONFIG"
	defaultPath      = "config.yaml"
	databaseDSNEnv   = "DATABASE_DSN"
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	jwtSecretEnv     = "JWT_SECRET"
	httpAddrEnv      = "HTTP_ADDR"
	storageDriverEnv = "STORAGE_DRIVER"
	kafkaBrokersEnv  = "KAFKA_BROKERS"
	smtpHostEnv      = "SMTP_HOST"
	smtpPortEnv      = "SMTP_PORT"
	smtpUserEnv      = "SMTP_USERNAME"
	smtpPasswordEnv  = "SMTP_PASSWORD"
	smtpFromEnv      = "SMTP_FROM"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Auth     AuthConfig      `yaml:"auth"`
	Upload   UploadConfig    `yaml:"upload"`
	Outbox   OutboxConfig    `yaml:"outbox"`
	Kafka    pkg.KafkaConfig `yaml:"kafka"`
	SMTP     pkg.SMTPConfig  `yaml:"smtp"`
	Notify   NotifyConfig    `yaml:"notify"`
	Log      LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"` // gin 模式：debug / release / test
}

// DatabaseConfig driver=memory 时不连 MySQL 和 Redis，进程内存储，重启即丢
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwtSecret"`
	TokenTTL     time.Duration `yaml:"tokenTTL"`
	SessionTTL   time.Duration `yaml:"sessionTTL"`
	CookieName   string        `yaml:"cookieName"`
	SecureCookie bool          `yaml:"secureCookie"`
}

type UploadConfig struct {
	Dir          string `yaml:"dir"`
	PublicPrefix string `yaml:"publicPrefix"`
	MaxImageSize int64  `yaml:"maxImageSize"`
	MaxEbookSize int64  `yaml:"maxEbookSize"`
}

type OutboxConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batchSize"`
}

type NotifyConfig struct {
	AdminEmail string `yaml:"adminEmail"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json / text
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080", Mode: "release"},
		Database: DatabaseConfig{Driver: DriverMySQL},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379"},
		Auth: AuthConfig{
			TokenTTL:   30 * time.Minute,
			SessionTTL: 24 * time.Hour,
			CookieName: "admin_session",
		},
		Upload: UploadConfig{
			Dir:          "uploads",
			PublicPrefix: "/uploads",
			MaxImageSize: 5 << 20,
			MaxEbookSize: 50 << 20,
		},
		Outbox: OutboxConfig{Enabled: true, Interval: 2 * time.Second, BatchSize: 100},
		Kafka:  pkg.KafkaConfig{Topic: "thread-of-hope.moderation"},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load 默认值 -> .env -> YAML 文件 -> 环境变量，后者覆盖前者
func Load() (Config, error) {
	_ = godotenv.Load()
	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultPath
	}
	return LoadFile(path)
}

// LoadFile 文件不存在时只用默认值和环境变量
func LoadFile(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(storageDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(jwtSecretEnv); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(kafkaBrokersEnv); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", smtpPortEnv, err)
		}
		c.SMTP.Port = port
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv(smtpFromEnv); v != "" {
		c.SMTP.From = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwtSecret is required")
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.DSN == "" {
			return errors.New("config: database.dsn is required for mysql driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Upload.MaxImageSize <= 0 || c.Upload.MaxEbookSize <= 0 {
		return errors.New("config: upload size limits must be positive")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.SessionTTL <= 0 {
		return errors.New("config: auth ttl must be positive")
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("config: unknown server mode %q", c.Server.Mode)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
