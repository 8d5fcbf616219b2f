package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/scholarit/ai"
	"github.com/urfave/cli/v2"
)

// fileConfig mirrors the optional YAML configuration file. Every field is
// optional; command-line flags take precedence over file values.
type fileConfig struct {
	DB string       `yaml:"db"`
	AI aiFileConfig `yaml:"ai"`
}

type aiFileConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	GeneratorHost  string `yaml:"generator_host"`
	GeneratorModel string `yaml:"generator_model"`
}

// loadFileConfig reads and parses a YAML configuration file.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &config, nil
}

// resolveDBPath returns the database path from the --db flag, falling back to
// the config file.
func resolveDBPath(c *cli.Context, config *fileConfig) (string, error) {
	if c.String("db") != "" {
		return c.String("db"), nil
	}
	if config != nil && config.DB != "" {
		return config.DB, nil
	}
	return "", fmt.Errorf("database path required: pass --db or set db in the config file")
}

// resolveAIConfig merges flag and file settings into an AI provider config.
// Flags win over file values; anything left unset keeps the package defaults.
func resolveAIConfig(c *cli.Context, config *fileConfig) *ai.Config {
	var opts []ai.ConfigOption

	if config != nil {
		if config.AI.EmbeddingHost != "" {
			opts = append(opts, ai.WithEmbeddingHost(config.AI.EmbeddingHost))
		}
		if config.AI.EmbeddingModel != "" {
			opts = append(opts, ai.WithEmbeddingModel(config.AI.EmbeddingModel))
		}
		if config.AI.GeneratorHost != "" {
			opts = append(opts, ai.WithGeneratorHost(config.AI.GeneratorHost))
		}
		if config.AI.GeneratorModel != "" {
			opts = append(opts, ai.WithGeneratorModel(config.AI.GeneratorModel))
		}
	}

	if c.String("embedding-host") != "" {
		opts = append(opts, ai.WithEmbeddingHost(c.String("embedding-host")))
	}
	if c.String("embedding-model") != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.String("embedding-model")))
	}
	if c.String("generator-host") != "" {
		opts = append(opts, ai.WithGeneratorHost(c.String("generator-host")))
	}
	if c.String("generator-model") != "" {
		opts = append(opts, ai.WithGeneratorModel(c.String("generator-model")))
	}

	return ai.NewConfig(opts...)
}

// loadConfigIfSet reads the --config file when the flag is present.
func loadConfigIfSet(c *cli.Context) (*fileConfig, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	return loadFileConfig(path)
}
