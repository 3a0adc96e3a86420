package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobradar/internal/aggregator"
	"github.com/spigell/jobradar/internal/secrets"
	"github.com/spigell/jobradar/internal/source"
)

const (
	app = "jobradar"
)

type Config struct {
	Sources         []*SourceConfig `mapstructure:"sources"`
	Candidate       string          `mapstructure:"candidate"`
	Output          *OutputConfig   `mapstructure:"output"`
	MinimumDecision string          `mapstructure:"minimum-decision"`
	SeenFile        string          `mapstructure:"seen-file"`
	Exclude         *struct {
		Companies []string
	} `mapstructure:"exclude"`
	AI *AIConfig `mapstructure:"ai"`
}

type SourceConfig struct {
	Name      string `mapstructure:"name"`
	Type      string `mapstructure:"type"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	TokenFile string `mapstructure:"token-file"`
	TokenEnv  string `mapstructure:"token-env"`
	UserAgent string `mapstructure:"user-agent"`
	Timeout   int    `mapstructure:"timeout-seconds"`
}

type OutputConfig struct {
	Jobs    string `mapstructure:"jobs"`
	Matches string `mapstructure:"matches"`
	Errors  string `mapstructure:"errors"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	APIKeyEnv    string `mapstructure:"api-key-env"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar aggregates job postings from multiple feeds and scores candidate fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for discover and match. Skip initialization
	// for everything else.
	if discoverCmd.CalledAs() == "" && matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// buildSources turns configured feeds into aggregator sources.
func buildSources(configs []*SourceConfig, logger *zap.Logger) ([]aggregator.Source, error) {
	sources := make([]aggregator.Source, 0, len(configs))

	for _, cfg := range configs {
		if cfg.Name == "" {
			return nil, fmt.Errorf("source name is required")
		}

		switch cfg.Type {
		case "file":
			if cfg.Path == "" {
				return nil, fmt.Errorf("source %q: path is required for file sources", cfg.Name)
			}
			sources = append(sources, source.NewFile(cfg.Name, cfg.Path))
		case "http":
			if cfg.URL == "" {
				return nil, fmt.Errorf("source %q: url is required for http sources", cfg.Name)
			}

			token := ""
			if cfg.TokenFile != "" || cfg.TokenEnv != "" {
				loaded, err := secrets.Load(secrets.Source{
					Name: fmt.Sprintf("source %q token", cfg.Name),
					File: cfg.TokenFile,
					Env:  cfg.TokenEnv,
				})
				if err != nil {
					return nil, err
				}
				token = loaded
			}

			sources = append(sources, source.NewHTTP(source.HTTPConfig{
				Name:      cfg.Name,
				URL:       cfg.URL,
				Token:     token,
				UserAgent: cfg.UserAgent,
				Timeout:   time.Duration(cfg.Timeout) * time.Second,
			}, logger))
		default:
			return nil, fmt.Errorf("source %q: unsupported type %q", cfg.Name, cfg.Type)
		}
	}

	return sources, nil
}
