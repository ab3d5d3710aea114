package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
)

// Environment variables that override file values.
const (
	EnvAuthToken = "JSONMODEL_AUTH_TOKEN"
	EnvAddr      = "JSONMODEL_ADDR"
	EnvLanguage  = "JSONMODEL_LANGUAGE"
)

// Config represents the complete configuration for jsonmodel
type Config struct {
	Language string        `yaml:"language"`
	RootName string        `yaml:"root_name"`
	Options  OptionsConfig `yaml:"options"`
	Fetch    FetchConfig   `yaml:"fetch"`
	Server   ServerConfig  `yaml:"server"`
	Output   OutputConfig  `yaml:"output"`
}

// OptionsConfig holds the generation options
type OptionsConfig struct {
	IncludeConstructor bool   `yaml:"include_constructor"`
	NullSafety         bool   `yaml:"null_safety"`
	SerializationStyle string `yaml:"serialization_style"`
	// Package is the Kotlin package of generated files
	Package string `yaml:"package"`
}

// FetchConfig controls retrieval of documents by URL
type FetchConfig struct {
	Timeout   time.Duration     `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
	AuthToken string            `yaml:"auth_token"`
	CacheSize int               `yaml:"cache_size"`
	CacheTTL  time.Duration     `yaml:"cache_ttl"`
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// OutputConfig controls where and how generated files are written
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	FileHeader string `yaml:"file_header"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Language: string(models.TypeScript),
		RootName: "Model",
		Options: OptionsConfig{
			IncludeConstructor: true,
			NullSafety:         true,
			SerializationStyle: models.StyleNone,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			Headers:   make(map[string]string),
			CacheSize: 128,
			CacheTTL:  5 * time.Minute,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}
	if cfg.Fetch.Headers == nil {
		cfg.Fetch.Headers = make(map[string]string)
	}

	return cfg, nil
}

// Load builds the effective configuration: defaults, then the file at path
// (or the nearest discovered config file when path is empty), then the
// environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}

	cfg := NewConfig()
	if path != "" {
		fileConfig, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files, or from ./.env when
// none are given. Missing files are skipped; variables that are already set
// are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return errors.NewConfigError("failed to load .env file", err)
	}
	return nil
}

// ApplyEnv overrides values with the JSONMODEL_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAuthToken); ok && strings.TrimSpace(v) != "" {
		c.Fetch.AuthToken = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAddr); ok && strings.TrimSpace(v) != "" {
		addr := strings.TrimSpace(v)
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		c.Server.Addr = addr
	}
	if v, ok := lookup(EnvLanguage); ok && strings.TrimSpace(v) != "" {
		c.Language = strings.TrimSpace(v)
	}
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonmodel.yml", ".jsonmodel.yaml", "jsonmodel.yml", "jsonmodel.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// TargetLanguage resolves the configured language name.
func (c *Config) TargetLanguage() (models.Language, error) {
	return models.ParseLanguage(c.Language)
}

// GenerationOptions converts the options section into engine options.
func (c *Config) GenerationOptions() models.GenerationOptions {
	return models.GenerationOptions{
		IncludeConstructor: c.Options.IncludeConstructor,
		NullSafety:         c.Options.NullSafety,
		SerializationStyle: c.Options.SerializationStyle,
		PackageName:        c.Options.Package,
	}
}

// Validate checks that the configuration can drive a generation.
func (c *Config) Validate() error {
	lang, err := c.TargetLanguage()
	if err != nil {
		return err
	}
	if err := c.GenerationOptions().Validate(lang); err != nil {
		return err
	}
	if c.Fetch.Timeout <= 0 {
		return errors.NewConfigError(fmt.Sprintf("fetch timeout must be positive, got %s", c.Fetch.Timeout), nil)
	}
	if c.Fetch.CacheSize < 0 {
		return errors.NewConfigError(fmt.Sprintf("fetch cache_size must not be negative, got %d", c.Fetch.CacheSize), nil)
	}
	if c.Fetch.CacheTTL < 0 {
		return errors.NewConfigError(fmt.Sprintf("fetch cache_ttl must not be negative, got %s", c.Fetch.CacheTTL), nil)
	}
	return nil
}
