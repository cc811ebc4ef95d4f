package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and database schema",
	Long: `Init creates the directory holding the configured database file and
applies the schema. Running it against an existing database is safe;
the schema statements are idempotent.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if dir := filepath.Dir(appCfg.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info().Str("category", "store").
		Str("path", appCfg.Database.Path).
		Msg("database initialized")
	fmt.Printf("Initialized archive database at %s\n", appCfg.Database.Path)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
