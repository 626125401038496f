package main

import (
	"context"
	"fmt"
	"statekeeper/internal"
	"statekeeper/internal/di"
	"statekeeper/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	flags structures.CliFlags

	rootCmd = &cobra.Command{
		Use:           "statekeeper",
		Short:         "Local player-state daemon",
		Long:          `StateKeeper persists a player's state, reconciles server deltas into it and tracks purchase, stage and event limits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print the saved state as JSON",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Load the save, upgrade it to the current version and write it back",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
	wipeCmd = &cobra.Command{
		Use:   "wipe",
		Short: "Delete the saved state",
		Args:  cobra.NoArgs,
		RunE:  runWipe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "enable debug mode")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(wipeCmd)
}

// withApp builds the application graph, runs fn and releases the graph.
func withApp(fn func(app *internal.App) error) error {
	app, cleanup, err := di.InitApp(&flags)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()
	return fn(app)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(func(app *internal.App) error {
		return app.Run(cmd.Context())
	})
}

func runInspect(cmd *cobra.Command, _ []string) error {
	return withApp(func(app *internal.App) error {
		if err := app.Restore(cmd.Context()); err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(app.State.Snapshot())
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withApp(func(app *internal.App) error {
		ctx := cmd.Context()
		if err := app.Restore(ctx); err != nil {
			return err
		}
		if err := app.Store.Flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "save is at version %d\n", app.State.Version())
		return nil
	})
}

func runWipe(cmd *cobra.Command, _ []string) error {
	return withApp(func(app *internal.App) error {
		if err := app.Store.Delete(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "save deleted")
		return nil
	})
}

// executeContext lets tests drive the root command with their own context.
func executeContext(ctx context.Context, args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
