package app

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Env      string
	HTTPAddr string

	CORSAllow []string // "*" by default, the frontend is served elsewhere

	RateMax       int // HTTP requests per window per IP
	RateWindowSec int
}

func LoadConfig() Config {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
	}
	cfg.RateMax = getEnvInt("RATE_MAX", 120)
	cfg.RateWindowSec = getEnvInt("RATE_WINDOW_SEC", 60)
	cfg.CORSAllow = splitCSV(getEnv("CORS_ALLOW", "*"))
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
