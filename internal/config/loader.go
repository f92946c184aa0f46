package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names read by Load.
const (
	envPrefix = "EXTRACK_"
	envConfig = "EXTRACK_CONFIG"
	envFile   = "EXTRACK_ENV_FILE"

	defaultEnvFile = ".env"

	// Hosting conventions honoured when no EXTRACK_ override is set.
	envPort     = "PORT"
	envMongoURI = "MONGO_URI"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Variables from a dotenv file (EXTRACK_ENV_FILE, default ".env") are
// added to the process environment first; variables already set win.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. PORT / MONGO_URI hosting variables
//  3. file (YAML) if EXTRACK_CONFIG is set
//  4. env (prefix EXTRACK_)
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()

	// PORT and MONGO_URI are the variables most platforms inject. A bare
	// MONGO_URI also implies the mongo driver.
	if port := strings.TrimSpace(os.Getenv(envPort)); port != "" {
		base.Addr = ":" + port
	}
	if uri := strings.TrimSpace(os.Getenv(envMongoURI)); uri != "" {
		base.MongoURI = uri
		base.StoreDriver = DriverMongo
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like EXTRACK_STORE_DRIVER -> store_driver (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads the dotenv file if present. A missing default file is
// not an error; a missing file named by EXTRACK_ENV_FILE is.
func loadDotEnv() error {
	path := os.Getenv(envFile)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
