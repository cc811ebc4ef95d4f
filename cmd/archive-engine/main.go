// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the archive-engine CLI.
// Implements: prd001-archive-documents, prd002-signatures,
//             prd003-search, prd004-notes-tags (CLI surface).
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/logging"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appCfg holds the decoded configuration, populated before any
// subcommand runs.
var appCfg types.AppConfig

// logger is rebuilt with database capture once a command opens the
// store. Until then it writes to stderr only.
var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// rootCmd is the base command for the archive-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "archive-engine",
	Short: "Catalogue and search an archival record collection",
	Long: `archive-engine manages an archival catalogue in a local SQLite database:
units and documents with descriptive metadata, hierarchical signatures,
tags, and work notes.

Records are created and edited through the document, signature, tag, and
note subcommands. The search subcommand runs declarative paged queries
over any record type, loaded from YAML query files or assembled from
flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&appCfg); err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		if appCfg.Database.BusyRetries > 0 {
			db.DefaultMaxRetries = appCfg.Database.BusyRetries
		}
		if appCfg.Database.BusyBackoff > 0 {
			db.RetryBaseDelay = appCfg.Database.BusyBackoff
		}
		logger = logging.New(appCfg.Logging, nil)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./archive-engine.yaml or ~/.config/archive-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("archive-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "archive-engine"))
		}
	}

	viper.SetDefault("database.path", "data/archive.db")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.capture", true)
	viper.SetDefault("search.default_page_size", 20)
	viper.SetDefault("search.max_page_size", 500)

	viper.SetEnvPrefix("ARCHIVE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openDatabase opens the configured SQLite file and, when capture is
// enabled, rebinds the logger so events land in the logs table too.
func openDatabase() (*sql.DB, error) {
	conn, err := db.Open(appCfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if appCfg.Logging.Capture {
		logger = logging.New(appCfg.Logging, conn)
	}
	return conn, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Msg(err.Error())
		os.Exit(1)
	}
}
