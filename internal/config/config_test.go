package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	setDefaults()
	cfg := fromViper()

	assert.Equal(t, "oracle", cfg.DB.Driver)
	assert.Equal(t, 20, cfg.Engine.MaxQuestions)
	assert.Equal(t, 5, cfg.Unlock.RequiredShares)
	assert.Equal(t, 5, cfg.Unlock.RequiredAdViews)
	assert.Equal(t, 2, cfg.Unlock.AdRevenueCents)
	assert.Equal(t, 24*time.Hour, cfg.Cache.ReportTTL)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := &Config{}
	applyEnvOverrides(cfg)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 20, cfg.Engine.MaxQuestions, "a non-positive cap falls back to 20")
}

func TestGetDSN(t *testing.T) {
	base := DBConfig{Host: "localhost", Port: 1521, User: "iq", Password: "pw", DBName: "FREEPDB1", SSLMode: "disable"}

	tests := []struct {
		name   string
		driver string
		want   string
	}{
		{"go-ora", "oracle", "oracle://iq:pw@localhost:1521/FREEPDB1"},
		{"empty driver uses go-ora", "", "oracle://iq:pw@localhost:1521/FREEPDB1"},
		{"godror", "godror", `user="iq" password="pw" connectString="localhost:1521/FREEPDB1"`},
		{"postgres", "postgres", "host=localhost port=1521 user=iq password=pw dbname=FREEPDB1 sslmode=disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := base
			db.Driver = tt.driver
			cfg := &Config{DB: db}
			assert.Equal(t, tt.want, cfg.GetDSN())
		})
	}
}
