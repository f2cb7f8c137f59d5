package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	HTTPAddr string

	DatasetDriver string // json|sqlite|postgres
	DatasetDSN    string
	DataDir       string // for the json driver

	CurvePath     string // optional score-to-rank curve file
	MetadataCache string // "" disables the cache file

	EnableMetrics bool

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	dataDir := envOr("DATA_DIR", "./data")
	defCache := filepath.Join(dataDir, "metadata.json")
	return Config{
		HTTPAddr:      addr,
		DatasetDriver: envOr("DATASET_DRIVER", "json"),
		DatasetDSN:    envOr("DATASET_DSN", ""),
		DataDir:       dataDir,
		CurvePath:     envOr("CURVE_PATH", ""),
		MetadataCache: envOr("METADATA_CACHE", defCache),
		EnableMetrics: envBool("ENABLE_METRICS", true),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
