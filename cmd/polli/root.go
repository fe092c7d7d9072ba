package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spetersoncode/polli/client"
)

var rootCmd = &cobra.Command{
	Use:           "polli",
	Short:         "Pollinations API client",
	Long:          "polli generates images, text, speech and transcripts with the Pollinations API, follows the public feeds, and serves the API over MCP and AG-UI.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./polli.yaml or ~/.config/polli/polli.yaml)")
	flags.String("referrer", "", "Referrer sent with every request")
	flags.String("token", "", "API token")
	flags.String("token-placement", string(client.PlacementHeader), "Where to send the token: header, query or body")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.Duration("min-interval", 3*time.Second, "Minimum time between a successful request and the next")
	flags.Duration("timeout", 10*time.Second, "Timeout for model list requests")

	_ = viper.BindPFlag("referrer", flags.Lookup("referrer"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("token_placement", flags.Lookup("token-placement"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("min_interval", flags.Lookup("min-interval"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

func initConfig() {
	_ = godotenv.Load() // .env is optional

	viper.SetEnvPrefix("POLLI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if file, _ := rootCmd.PersistentFlags().GetString("config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("polli")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "polli"))
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "polli: reading config: %v\n", err)
		}
	}
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func placement(s string) (client.TokenPlacement, error) {
	switch p := client.TokenPlacement(strings.ToLower(s)); p {
	case client.PlacementHeader, client.PlacementQuery, client.PlacementBody:
		return p, nil
	case "":
		return client.PlacementHeader, nil
	default:
		return "", fmt.Errorf("invalid token placement %q (want header, query or body)", s)
	}
}

// clientConfig builds the client configuration from flags, environment and
// config file.
func clientConfig(logger *slog.Logger) (client.Config, error) {
	p, err := placement(viper.GetString("token_placement"))
	if err != nil {
		return client.Config{}, err
	}

	cfg := client.DefaultConfig()
	cfg.MinInterval = viper.GetDuration("min_interval")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.Logger = logger
	cfg.Auth = client.Auth{
		Referrer:  viper.GetString("referrer"),
		Token:     viper.GetString("token"),
		Placement: p,
	}
	for key, dst := range map[string]*string{
		"image_prompt_base": &cfg.ImagePromptBase,
		"text_prompt_base":  &cfg.TextPromptBase,
		"image_models_url":  &cfg.ImageModelsURL,
		"text_models_url":   &cfg.TextModelsURL,
		"image_feed_url":    &cfg.ImageFeedURL,
		"text_feed_url":     &cfg.TextFeedURL,
	} {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	return cfg, nil
}

func newClient() (*client.Client, *slog.Logger, error) {
	logger := newLogger()
	cfg, err := clientConfig(logger)
	if err != nil {
		return nil, nil, err
	}
	c, err := client.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}
