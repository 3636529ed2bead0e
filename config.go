package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DeviceName     string
	Port           string
	DatabasePath   string
	MaxStatusPolls int
}

// LoadConfiguration reads settings from a .env file or the environment,
// falling back to defaults that suit a PT-P300BT on the local machine.
func LoadConfiguration() *Config {
	_ = godotenv.Load()

	return &Config{
		DeviceName:     getEnv("PTGO_DEVICE_NAME", "PT-P300BT"),
		Port:           getEnv("PTGO_PORT", "8080"),
		DatabasePath:   getEnv("PTGO_DATABASE", "file:app.db"),
		MaxStatusPolls: getEnvInt("PTGO_MAX_STATUS_POLLS", 120),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
