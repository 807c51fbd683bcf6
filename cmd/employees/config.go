package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gartstein/workforce/internal/employee/db"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "EMPLOYEES_CONFIG"

// Config struct for YAML configuration
type Config struct {
	GRPCPort         int           `yaml:"GRPC_PORT"`
	HTTPPort         int           `yaml:"HTTP_PORT"`
	DBHost           string        `yaml:"DB_HOST"`
	DBPort           int           `yaml:"DB_PORT"`
	DBUser           string        `yaml:"DB_USER"`
	DBPassword       string        `yaml:"DB_PASSWORD"`
	DBName           string        `yaml:"DB_NAME"`
	DBSSLMode        string        `yaml:"DB_SSLMODE"`
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT"`
	KafkaBrokers     []string      `yaml:"KAFKA_BROKERS"`
	Topic            string        `yaml:"TOPIC"`
}

// loadConfig reads an optional .env file, then the YAML config with ${VAR}
// references expanded from the environment.
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		configPath = filepath.Join("internal", "employee", "config", "config.yaml")
	}
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return parseConfig(file)
}

func parseConfig(raw []byte) (*Config, error) {
	cfg := Config{
		GRPCPort:         50051,
		HTTPPort:         8000,
		DBPort:           5432,
		DBSSLMode:        "disable",
		DBConnectTimeout: 30 * time.Second,
		Topic:            "employee-events",
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DBHost == "" || cfg.DBName == "" {
		return nil, errors.New("config: DB_HOST and DB_NAME are required")
	}
	return &cfg, nil
}

// databaseConfig extracts the connection parameters handed to the repository.
func (c *Config) databaseConfig() *db.Config {
	return &db.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}
