package config

import (
	"strings"
	"sync"
)

const (
	CacheMemory    = "memory"
	CacheRedis     = "redis"
	MirrorFile     = "file"
	MirrorPostgres = "postgres"
)

type StorageConfig struct {
	ReportsDir    string
	Cache         string
	Mirror        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	PDFEngine     string
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		storageConfig = newStorageConfig()
	})
	return storageConfig
}

func newStorageConfig() *StorageConfig {
	v := newEnv(map[string]any{
		"REPORTS_DIR":  "reports",
		"STORE_CACHE":  CacheMemory,
		"STORE_MIRROR": MirrorFile,
		"REDIS_ADDR":   "localhost:6379",
		"REDIS_DB":     0,
		"REDIS_PREFIX": "evaluation:",
		"PDF_ENGINE":   "fitz",
	})
	return &StorageConfig{
		ReportsDir:    v.GetString("REPORTS_DIR"),
		Cache:         strings.ToLower(v.GetString("STORE_CACHE")),
		Mirror:        strings.ToLower(v.GetString("STORE_MIRROR")),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPrefix:   v.GetString("REDIS_PREFIX"),
		PDFEngine:     strings.ToLower(v.GetString("PDF_ENGINE")),
	}
}
