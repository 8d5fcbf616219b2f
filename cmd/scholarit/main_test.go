package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/scholarit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPrintResult(t *testing.T) {
	hit := &core.SearchResult{
		Paper: &core.Paper{
			ArxivID:    "2101.00001",
			Title:      "Neural Network Pruning",
			Categories: []string{"cs.LG", "stat.ML"},
			Published:  time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
		},
		ScoredResult: core.ScoredResult{
			ArxivID:       "2101.00001",
			LexicalScore:  0.875,
			SemanticScore: 0.5,
			Score:         0.6875,
			Rank:          1,
		},
	}

	var out strings.Builder
	printResult(&out, hit)

	assert.Equal(t,
		" 1. [0.688] 2101.00001: Neural Network Pruning (2021-01-04)\n"+
			"    lexical 0.875, semantic 0.500, cs.LG, stat.ML\n",
		out.String())
}

func TestReembedCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "scholarit",
		Commands: []*cli.Command{
			{
				Name:   "reembed",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Required: true,
					},
				},
			},
		},
	}

	t.Run("missing db flag fails", func(t *testing.T) {
		err := app.Run([]string{"scholarit", "reembed", "--embedding-model", "test-model"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing embedding-model flag fails", func(t *testing.T) {
		err := app.Run([]string{"scholarit", "reembed", "--db", "/tmp/test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding-model")
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
db: /var/lib/scholarit
ai:
  embedding_host: http://embed:11434
  embedding_model: nomic-embed-text
  generator_host: http://gen:11434
  generator_model: gemma2:2b
`), 0644))

		config, err := loadFileConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/scholarit", config.DB)
		assert.Equal(t, "http://embed:11434", config.AI.EmbeddingHost)
		assert.Equal(t, "gemma2:2b", config.AI.GeneratorModel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0644))
		_, err := loadFileConfig(path)
		assert.Error(t, err)
	})
}

func TestResolveAIConfig(t *testing.T) {
	t.Run("flags override file", func(t *testing.T) {
		config := &fileConfig{}
		config.AI.EmbeddingHost = "http://file-host:11434"
		config.AI.EmbeddingModel = "file-model"

		app := &cli.App{
			Name:  "test",
			Flags: aiFlags(),
			Action: func(c *cli.Context) error {
				resolved := resolveAIConfig(c, config)
				assert.Equal(t, "http://flag-host:11434/v1", func() string {
					resolved.Normalize()
					return resolved.EmbeddingHost
				}())
				assert.Equal(t, "file-model", resolved.EmbeddingModel)
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test", "--embedding-host", "http://flag-host:11434"}))
	})

	t.Run("defaults when nothing set", func(t *testing.T) {
		app := &cli.App{
			Name:  "test",
			Flags: aiFlags(),
			Action: func(c *cli.Context) error {
				resolved := resolveAIConfig(c, nil)
				assert.NoError(t, resolved.Validate())
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test"}))
	})
}

func TestResolveDBPath(t *testing.T) {
	run := func(args []string, config *fileConfig) (string, error) {
		var got string
		var gotErr error
		app := &cli.App{
			Name:  "test",
			Flags: []cli.Flag{&cli.StringFlag{Name: "db"}},
			Action: func(c *cli.Context) error {
				got, gotErr = resolveDBPath(c, config)
				return nil
			},
		}
		require.NoError(t, app.Run(args))
		return got, gotErr
	}

	path, err := run([]string{"test"}, &fileConfig{DB: "/from/file"})
	require.NoError(t, err)
	assert.Equal(t, "/from/file", path)

	path, err = run([]string{"test", "--db", "/from/flag"}, &fileConfig{DB: "/from/file"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", path)

	_, err = run([]string{"test"}, nil)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		require.NoError(t, newApp().Run([]string{"test", "-l", "debug"}))
	})
}
