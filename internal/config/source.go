package config

import (
	"os"
	"time"
)

type source struct {
	file map[string]string
}

func (s source) get(name, defaultValue string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := s.file[name]; v != "" {
		return v
	}
	return defaultValue
}

// duration parses Go duration strings ("5s") and falls back to the default on
// anything unparseable or non-positive.
func (s source) duration(name string, defaultValue time.Duration) time.Duration {
	raw := s.get(name, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
