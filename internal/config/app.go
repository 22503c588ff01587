package config

import (
	"log"
	"sync"
)

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	BaseURL     string
	LogLevel    string
	UploadDir   string
	MaxUploadMB int
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = newAppConfig()
	})
	return appConfig
}

func newAppConfig() *AppConfig {
	v := newEnv(map[string]any{
		"APP_NAME":      "Pitch Deck Analyzer",
		"APP_PORT":      ":8000",
		"LOG_LEVEL":     "info",
		"UPLOAD_DIR":    "uploads",
		"UPLOAD_MAX_MB": 20,
	})
	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
		log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
	}
	return &AppConfig{
		Name:        v.GetString("APP_NAME"),
		Env:         env,
		Port:        v.GetString("APP_PORT"),
		BaseURL:     v.GetString("APP_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		UploadDir:   v.GetString("UPLOAD_DIR"),
		MaxUploadMB: v.GetInt("UPLOAD_MAX_MB"),
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
