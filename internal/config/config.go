// Package config loads application configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Port  string      `yaml:"port"`
	Depot DepotConfig `yaml:"depot"`
	Truck TruckConfig `yaml:"truck"`
	Store StoreConfig `yaml:"store"`
}

// DepotConfig is the truck's fixed start position.
type DepotConfig struct {
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
	Address string  `yaml:"address"`
}

// TruckConfig defines the single truck's capacity budget.
type TruckConfig struct {
	CapacityKg float64 `yaml:"capacityKg"`
}

// StoreConfig selects and parameterizes the shared bin store backend.
type StoreConfig struct {
	Backend     string `yaml:"backend"` // "redis" or "postgres"
	RedisAddr   string `yaml:"redisAddr"`
	Key         string `yaml:"key"`
	DatabaseURL string `yaml:"databaseUrl"`
}

// Load reads the configuration file, applies environment overrides and
// validates the result. A missing file falls back to defaults so the
// service can run from environment variables alone.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port: "8080",
		Depot: DepotConfig{
			Lat:     6.9271,
			Lng:     79.8612,
			Address: "Depot",
		},
		Truck: TruckConfig{CapacityKg: 100},
		Store: StoreConfig{
			Backend:   "redis",
			RedisAddr: "localhost:6379",
			Key:       "waste:bins",
		},
	}
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Depot.Lat = getFloatEnv("DEPOT_LAT", c.Depot.Lat)
	c.Depot.Lng = getFloatEnv("DEPOT_LNG", c.Depot.Lng)
	c.Depot.Address = getEnv("DEPOT_ADDRESS", c.Depot.Address)
	c.Truck.CapacityKg = getFloatEnv("TRUCK_CAPACITY_KG", c.Truck.CapacityKg)
	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.Key = getEnv("BIN_SET_KEY", c.Store.Key)
	c.Store.DatabaseURL = getEnv("DATABASE_URL", c.Store.DatabaseURL)
}

// Validate ensures configuration is valid.
func (c *Config) Validate() error {
	if c.Truck.CapacityKg <= 0 {
		return fmt.Errorf("truck capacityKg must be positive")
	}

	if math.IsNaN(c.Depot.Lat) || math.IsInf(c.Depot.Lat, 0) ||
		math.IsNaN(c.Depot.Lng) || math.IsInf(c.Depot.Lng, 0) {
		return fmt.Errorf("depot coordinates must be finite")
	}

	switch c.Store.Backend {
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redisAddr is required for the redis backend")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("databaseUrl is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Store.Key == "" {
		return fmt.Errorf("store key is required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
