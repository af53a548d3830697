// Command dbinspect prints archive statistics from the bot's SQLite database.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "dbinspect",
		Short:         "Inspect the media archive database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "SQLite database file (env DB_PATH)")

	open := func() (*sqlite.Store, error) {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("database %s: %w", dbPath, err)
		}
		return sqlite.Open(dbPath, logger.Nop().Logger)
	}

	root.AddCommand(
		newStatsCmd(open),
		newTagsCmd(open),
		newUserCmd(open),
	)
	return root
}

func defaultDBPath() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "archive.db"
	}
	return filepath.Join(home, ".mediabot", "archive.db")
}
