package sugar

import (
	"amiigo/internal/common"
	"amiigo/internal/config"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type rootCmd struct {
	cmd     *cobra.Command
	debug   bool
	envFile string
	exit    func(int)

	cfg            *config.Config
	loggerInstance *zerolog.Logger
}

func newRootCmd(exit func(int), loggerInstance *zerolog.Logger) *rootCmd {
	root := &rootCmd{
		exit:           exit,
		loggerInstance: loggerInstance,
	}

	cmd := &cobra.Command{
		Use:           "amiigo",
		Short:         "amiigo dating API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.envFile)
			if err != nil {
				return err
			}
			if root.debug {
				cfg.Debug = true
			}

			level := cfg.LogLevel
			if cfg.Debug {
				level = zerolog.LevelDebugValue
			}
			*root.loggerInstance = *common.NewLogger(level, cfg.Debug)

			root.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&root.debug, "debug", false, "Enable debug mode")
	cmd.PersistentFlags().StringVar(&root.envFile, "env-file", ".env", "Path of the .env file to load")
	cmd.AddCommand(
		newServeCmd(root).cmd,
		newMigrateCmd(root).cmd,
		newCheckDBCmd(root).cmd,
	)

	root.cmd = cmd

	return root
}

func (cmd *rootCmd) Execute(args []string) {
	cmd.cmd.SetArgs(commander(cmd.cmd, args))

	err := cmd.cmd.Execute()
	if err != nil {
		cmd.loggerInstance.Err(err).Msg("failed to execute command")
		cmd.exit(1) // exits with code 1, i.e. general error
	}
}

// openDatabase connects to the configured database and checks that it answers.
func (cmd *rootCmd) openDatabase(ctx context.Context) (*gorm.DB, error) {
	cmd.loggerInstance.Debug().Str("dsn", cmd.cfg.SafeDSN()).Msg("connecting to database")

	db, err := common.NewPostgresStore(cmd.cfg.DatabaseDSN(), cmd.cfg.Debug, cmd.loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database %s is not reachable: %w", cmd.cfg.SafeDSN(), err)
	}

	return db, nil
}

func closeDatabase(db *gorm.DB, loggerInstance *zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		loggerInstance.Err(err).Msg("failed to close database")
	}
}

func commander(cmd *cobra.Command, args []string) []string {
	set := map[string]bool{
		"-h":        true,
		"--help":    true,
		"--version": true,
		"help":      true,
	}

	xmd, _, _ := cmd.Find(args)

	if xmd != nil {
		if len(args) > 1 && args[1] == "help" {
			args[1] = "--help"
		}
		return args
	}

	if len(args) > 0 &&
		(args[0] == "completion" ||
			args[0] == cobra.ShellCompRequestCmd ||
			args[0] == cobra.ShellCompNoDescRequestCmd) {
		return args
	}

	if len(args) == 0 || (len(args) == 1 && set[args[0]]) {
		return args
	}

	return []string{"help"}
}

func Execute(exit func(int), args []string, loggerInstance *zerolog.Logger) {
	newRootCmd(exit, loggerInstance).Execute(args)
}
