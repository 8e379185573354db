package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bgee-translator/internal/index"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	GameDir           string
	TempDir           string
	SourceLocale      string
	TargetLocale      string
	TargetName        string
	TargetDisplayName string
	Collections       []string
	Extension         string
	MaxPageLines      int
	DatabaseURL       string
	Neo4jURI          string
	Neo4jUser         string
	Neo4jPassword     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		GameDir:           getEnv("GAME_DIR", "."),
		TempDir:           getEnv("TEMP_DIR", "temp"),
		SourceLocale:      getEnv("SOURCE_LOCALE", "en"),
		TargetLocale:      getEnv("TARGET_LOCALE", "pt"),
		TargetName:        getEnv("TARGET_NAME", "portuguese"),
		TargetDisplayName: getEnv("TARGET_DISPLAY_NAME", "Português (Brasil)"),
		Collections:       getEnvList("COLLECTIONS", []string{"data", "data_vx1", "data_vx2", "data_vx3"}),
		Extension:         getEnv("STRINGTABLE_EXT", ".stringtable"),
		MaxPageLines:      getEnvInt("MAX_PAGE_LINES", 35000),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Neo4jURI:          getEnv("NEO4J_URI", ""),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", "password"),
	}
}

// IndexPath returns the location of the persisted index.
func (c *Config) IndexPath() string {
	return filepath.Join(c.TempDir, index.FileName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
