package sugar

import (
	"amiigo/internal/services/api/store"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type MigrateCmd struct {
	cmd *cobra.Command
}

func newMigrateCmd(root *rootCmd) *MigrateCmd {
	migrate := &MigrateCmd{}
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	withRunner := func(run func(cmd *cobra.Command, runner *store.MigrationRunner) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			db, err := root.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDatabase(db, root.loggerInstance)

			return run(cmd, store.NewMigrationRunner(db))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: withRunner(func(cmd *cobra.Command, runner *store.MigrationRunner) error {
				applied, err := runner.Up(cmd.Context())
				for _, name := range applied {
					root.loggerInstance.Info().Str("migration", name).Msg("applied migration")
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					root.loggerInstance.Info().Msg("database is up to date")
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest applied migration",
			Args:  cobra.NoArgs,
			RunE: withRunner(func(cmd *cobra.Command, runner *store.MigrationRunner) error {
				name, err := runner.Down(cmd.Context())
				if err != nil {
					return err
				}
				if name == "" {
					root.loggerInstance.Info().Msg("no migration to roll back")
					return nil
				}
				root.loggerInstance.Info().Str("migration", name).Msg("rolled back migration")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: withRunner(func(cmd *cobra.Command, runner *store.MigrationRunner) error {
				statuses, err := runner.Status(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
				for _, s := range statuses {
					appliedAt := "pending"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, s.Name, appliedAt)
				}
				return w.Flush()
			}),
		},
	)

	migrate.cmd = cmd
	return migrate
}
