package utils

import (
	"log"
	"maps"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads the given .env files and the process environment into one map.
// Later files take precedence over earlier ones and the process environment
// takes precedence over every file. Missing files are skipped
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			continue
		}
		maps.Copy(config, values)
	}

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if ok && key != "" {
			config[key] = value
		}
	}

	return config
}

// EnvFile returns the .env path to load, honoring the ENV_FILE override
func EnvFile() string {
	if file := os.Getenv("ENV_FILE"); file != "" {
		return file
	}
	return ".env"
}
