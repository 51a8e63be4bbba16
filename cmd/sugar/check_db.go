package sugar

import (
	"github.com/spf13/cobra"
)

type CheckDBCmd struct {
	cmd *cobra.Command
}

func newCheckDBCmd(root *rootCmd) *CheckDBCmd {
	check := &CheckDBCmd{}
	cmd := &cobra.Command{
		Use:           "check-db",
		Short:         "Check that the database is reachable",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := root.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDatabase(db, root.loggerInstance)

			root.loggerInstance.Info().Str("dsn", root.cfg.SafeDSN()).Msg("database connection successful")
			return nil
		},
	}

	check.cmd = cmd
	return check
}
