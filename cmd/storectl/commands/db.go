package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/platform/db"
	"strings"

	"github.com/spf13/cobra"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the Postgres geocode cache",
	}
	cmd.AddCommand(dbInitCmd(), dbPurgeCmd())
	return cmd
}

func dbInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the geocode cache schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(out, "Initializing database schema...")
			if err := repositories.InitSchema(conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			fmt.Fprintln(out, "Schema ready.")
			return nil
		},
	}
}

func dbPurgeCmd() *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached searches older than the given interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := repositories.PurgeGeocodeCache(conn, olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d cached searches.\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "7 days", "Postgres interval, e.g. \"7 days\" or \"12 hours\"")
	return cmd
}

func openDB(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Cache.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.Open(ctx, cfg.Cache.DatabaseURL, db.DefaultPool())
}
