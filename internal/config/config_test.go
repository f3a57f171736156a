package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		JWTSecret:            "a-test-secret-that-is-long-enough-123456",
		Port:                 "8480",
		DBHost:               "localhost",
		DBPort:               "5432",
		DBUser:               "user",
		DBPassword:           "hunter22hunter22",
		DBName:               "snapdare",
		DBSSLMode:            "require",
		RedisURL:             "localhost:6379",
		AllowedOrigins:       "https://snapdare.example.com",
		Env:                  "development",
		MediaUploadDir:       "/tmp/snapdare/uploads",
		MediaMaxUploadSizeMB: 10,
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingPort(t *testing.T) {
	cfg := validTestConfig()
	cfg.Port = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.JWTSecret = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "your-secret-key-change-in-production"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "short"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.DBPassword = "password"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidate_RejectsNonPositiveUploadLimit(t *testing.T) {
	cfg := validTestConfig()
	cfg.MediaMaxUploadSizeMB = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIA_MAX_UPLOAD_SIZE_MB")
}
