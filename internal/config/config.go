// Package config reads application settings from the environment, after
// loading an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/NCATS-Gamma/ginhashids/internal/hashids"
)

type Config struct {
	Addr         string
	DatabaseFile string
	CORSOrigins  []string
	SeedData     bool
	LogLevel     log.Level

	Hashids hashids.Config
}

func getenv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}

// lookup treats an empty variable like an unset one.
func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Load reads the settings. A malformed value is a configuration error and
// should stop the application.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Addr:         getenv("ADDR", ":8080"),
		DatabaseFile: getenv("DATABASE_FILE", "./data/users.db"),
		LogLevel:     log.WarnLevel,
	}
	if gin.Mode() == gin.DebugMode {
		cfg.LogLevel = log.DebugLevel
	}

	if v, ok := lookup("CORS_ORIGINS"); ok {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if v, ok := lookup("SEED_DATA"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("SEED_DATA: %w", err)
		}
		cfg.SeedData = seed
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		level, err := log.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	hc, err := loadHashids()
	if err != nil {
		return cfg, err
	}
	cfg.Hashids = hc
	return cfg, nil
}

// Options that are not set stay nil so the codec keeps its own defaults.
func loadHashids() (hashids.Config, error) {
	var hc hashids.Config
	if v, ok := lookup("HASHIDS_ALPHABET"); ok {
		hc.Alphabet = &v
	}
	if v, ok := lookup("HASHIDS_MIN_LENGTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return hc, fmt.Errorf("HASHIDS_MIN_LENGTH must be an integer, got %q: %w", v, err)
		}
		hc.MinLength = &n
	}
	if v, ok := lookup("HASHIDS_SALT"); ok {
		hc.Salt = &v
	} else if v, ok := lookup("SECRET_KEY"); ok {
		hc.Salt = &v
	}
	hc.Backend = getenv("HASHIDS_BACKEND", hashids.BackendHashids)
	return hc, nil
}
