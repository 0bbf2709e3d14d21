package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetmind/internal/infrastructure/database"
)

// NewMigrateCmd groups the schema migration commands
func NewMigrateCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(newMigrateRunCmd(deps, "up", "Apply pending migrations", migrate.Up, 0))
	cmd.AddCommand(newMigrateRunCmd(deps, "down", "Roll back applied migrations", migrate.Down, 1))
	cmd.AddCommand(newMigrateStatusCmd(deps))

	return cmd
}

func newMigrateRunCmd(deps *Dependencies, use, short string, direction migrate.MigrationDirection, defaultSteps int) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := deps.openDB()
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer database.CloseDB(db)

			n, err := database.Migrate(db, deps.Config.Database.MigrationsDir, direction, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %d migration(s)\n", use, n)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", defaultSteps, "Maximum number of migrations to run (0 means all)")
	return cmd
}

func newMigrateStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := deps.openDB()
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer database.CloseDB(db)

			rows, err := database.Status(db, deps.Config.Database.MigrationsDir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tAPPLIED AT")
			for _, r := range rows {
				appliedAt := "pending"
				if r.Applied && r.AppliedAt != nil {
					appliedAt = r.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\n", r.ID, appliedAt)
			}
			return w.Flush()
		},
	}
}
