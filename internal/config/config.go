// Package config loads trainer settings from a YAML file with sensible
// defaults, so the binary works out of the box with no config present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type QuizConfig struct {
	Mode        string `mapstructure:"mode"`
	CatalogPath string `mapstructure:"catalog_path"`
}

type SandboxConfig struct {
	MaxSteps int `mapstructure:"max_steps"`
	MaxElems int `mapstructure:"max_elems"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type Config struct {
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("typedrill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.typedrill")

	v.SetDefault("quiz.mode", "mixed")
	v.SetDefault("quiz.catalog_path", "")
	v.SetDefault("sandbox.max_steps", 2_000_000)
	v.SetDefault("sandbox.max_elems", 1_000_000)
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.db_path", filepath.Join(os.Getenv("HOME"), ".typedrill", "typedrill.db"))

	if err := v.ReadInConfig(); err != nil {
		// A missing config file just means defaults; anything else is real.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
