package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAppliesYAMLOverDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9000"
database:
  driver: memory
auth:
  jwtSecret: file-secret
  tokenTTL: 10m
upload:
  maxImageSize: 1024
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(1024), cfg.Upload.MaxImageSize)
	// 未写的字段保留默认值
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxEbookSize)
	assert.Equal(t, "admin_session", cfg.Auth.CookieName)
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := writeFile(t, `
auth:
  jwtSecret: file-secret
database:
  dsn: "file-dsn"
`)
	t.Setenv(jwtSecretEnv, "env-secret")
	t.Setenv(databaseDSNEnv, "env-dsn")
	t.Setenv(kafkaBrokersEnv, "k1:9092, k2:9092")
	t.Setenv(smtpPortEnv, "465")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 465, cfg.SMTP.Port)
}

func TestLoadFileMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(jwtSecretEnv, "s")
	t.Setenv(storageDriverEnv, DriverMemory)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFileBadPort(t *testing.T) {
	t.Setenv(jwtSecretEnv, "s")
	t.Setenv(storageDriverEnv, DriverMemory)
	t.Setenv(smtpPortEnv, "abc")

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Auth.JWTSecret = "s"
	base.Database.DSN = "dsn"
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"empty secret":    func(c *Config) { c.Auth.JWTSecret = "" },
		"mysql no dsn":    func(c *Config) { c.Database.DSN = "" },
		"unknown driver":  func(c *Config) { c.Database.Driver = "sqlite" },
		"zero image size": func(c *Config) { c.Upload.MaxImageSize = 0 },
		"zero ttl":        func(c *Config) { c.Auth.SessionTTL = 0 },
		"bad gin mode":    func(c *Config) { c.Server.Mode = "prod" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
