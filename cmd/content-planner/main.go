// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the content-planner CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-planner/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the content-planner CLI.
var rootCmd = &cobra.Command{
	Use:   "content-planner",
	Short: "Plan a week of forum posts and comment threads for a company",
	Long: `content-planner generates a deterministic weekly calendar of subreddit posts
and seeded comment threads from a company's personas, subreddits and keywords,
then scores how natural the batch looks.

Use generate to produce a plan from an inputs file, and the plan subcommands
to store inputs and inspect or export saved plans.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./content-planner.yaml or ~/.config/content-planner/config.yaml)")
	pf.String("store-driver", "sqlite", "plan store backend: sqlite or postgres")
	pf.String("store-dir", "data", "directory for the SQLite database")
	pf.String("store-dsn", "", "PostgreSQL connection string (default: .secrets/postgres-dsn)")

	viper.BindPFlag("store.driver", pf.Lookup("store-driver"))
	viper.BindPFlag("store.dir", pf.Lookup("store-dir"))
	viper.BindPFlag("store.dsn", pf.Lookup("store-dsn"))

	viper.SetDefault("generation.recency_weeks", 4)
	viper.SetDefault("generation.format", "yaml")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("content-planner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "content-planner"))
		}
	}

	viper.SetEnvPrefix("CONTENT_PLANNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
