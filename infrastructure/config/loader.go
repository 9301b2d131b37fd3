// Package config loads YAML configuration with environment overrides.
//
// Before overrides are applied, .env files are loaded:
//
//  1. ENV_FILE, when set, is the only file loaded.
//  2. Otherwise .env.local, then .env.
//
// Fields opt into overrides with an `env:"NAME"` struct tag:
//
//	type Config struct {
//	    Port int `yaml:"port" env:"APP_PORT"`
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	// godotenv.Load never overwrites variables that are already set, so
	// .env.local takes precedence over .env.
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the YAML file at path into a new T and applies env overrides.
func Load[T any](path string) (*T, error) {
	return load[T](path, false)
}

// LoadWithDefaults is Load with setDefaults run before the env overrides
// are re-applied, so the environment always wins.
func LoadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	return loadWithDefaults(path, false, setDefaults)
}

// LoadOptionalWithDefaults behaves like LoadWithDefaults but treats a
// missing file as an empty document.
func LoadOptionalWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	return loadWithDefaults(path, true, setDefaults)
}

func loadWithDefaults[T any](path string, optional bool, setDefaults func(*T)) (*T, error) {
	cfg, err := load[T](path, optional)
	if err != nil {
		return nil, err
	}
	if setDefaults == nil {
		return cfg, nil
	}
	setDefaults(cfg)
	if err = applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load[T any](path string, optional bool) (*T, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	var cfg T
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, unmarshalErr)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err = applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides walks cfg, which must be a struct pointer, and sets
// every field tagged env:"NAME" from a non-empty NAME variable.
func applyEnvOverrides(cfg any) error {
	return walkEnv(reflect.ValueOf(cfg).Elem())
}

func walkEnv(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := walkEnv(field); err != nil {
				return err
			}
			continue
		}

		name, ok := t.Field(i).Tag.Lookup("env")
		if !ok {
			continue
		}
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("env %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

var durationType = reflect.TypeFor[time.Duration]()

func setField(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.CanInt():
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case field.Kind() == reflect.Bool:
		field.SetBool(parseBool(raw))
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	}
	return nil
}

// parseBool accepts true, 1 and yes, case-insensitively.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// GetConfigPath returns CONFIG_PATH when set, otherwise defaultPath.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}
