// Package main implements the taskflow command, which serves the meeting
// notes API and offers operational subcommands for migrations and prompt
// iteration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Digest time zones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Every subcommand shares the --config flag.
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Turn meeting notes into summaries and tracked tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default ./config.yaml)")

	root.AddCommand(
		newServeCmd(&configFile),
		newMigrateCmd(&configFile),
		newExtractCmd(&configFile),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig(*configFile)
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, logger, db)
			if err != nil {
				_ = db.Close()
				return err
			}

			return app.Run(cmd.Context())
		},
	}
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, logger, err := loadAppConfig(*configFile)
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("error closing database connection", "error", err)
				}
			}()

			return runMigrations(cmd.Context(), db, command, logger)
		},
	}
}

func newExtractCmd(configFile *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Summarize a note and print its action items as JSON",
		Long: "Runs the extraction pipeline against notes read from --file or " +
			"standard input and prints the result without storing anything.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig(*configFile)
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg, logger, file, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read notes from this file instead of stdin")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
