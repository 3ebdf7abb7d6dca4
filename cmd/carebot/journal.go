package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityhospital/carebot/internal/config"
	"github.com/cityhospital/carebot/internal/store"
)

func newJournalCmd() *cobra.Command {
	var (
		limit int
		path  string
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print the most recent deliveries, newest first",
		Long: "Prints recent entries of the delivery journal as JSON lines. " +
			"bbolt allows a single process per file, so stop the server or point --db at a copy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				path = cfg.JournalPath()
			}

			journal, err := store.NewBoltStore(path)
			if err != nil {
				return fmt.Errorf("journal %s: %w", path, err)
			}
			defer journal.Close()

			return printDeliveries(cmd, journal, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to print")
	cmd.Flags().StringVar(&path, "db", "", "journal file (default DATA_DIR/carebot.db)")
	return cmd
}

func printDeliveries(cmd *cobra.Command, journal store.Journal, limit int) error {
	deliveries, err := journal.Recent(limit)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	for _, d := range deliveries {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}
