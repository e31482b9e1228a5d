package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files from dir, most specific first:
// .env.<APP_ENV>.local, .env.local, .env.<APP_ENV>, .env.
// Variables already set are never overwritten, so the process environment
// wins and an earlier file wins over a later one. Returns the files loaded.
func LoadDotEnv(dir string) []string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	candidates := []string{
		".env." + env + ".local",
		".env.local",
		".env." + env,
		".env",
	}

	var loaded []string
	seen := make(map[string]bool)
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
