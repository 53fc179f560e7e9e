package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tinyflix/config"
)

// configEnv names the config file when --config is not given.
const configEnv = "TINYFLIX_CONFIG"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "tinyflix",
		Short:        "TinyFlix media catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $"+configEnv+" or config.yaml)")

	loadConfig := func() (*config.Config, error) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		path := configPath
		if path == "" {
			path = os.Getenv(configEnv)
		}
		if path != "" {
			config.SetManager(config.NewManager(path))
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newCatalogCmd(loadConfig))
	return root
}
