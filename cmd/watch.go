package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var providersWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload provider configurations when the providers file changes",
	Long: `Watch keeps the configuration manager in sync with edits made to the
providers file by other processes or by hand. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := GetManager()
		if err != nil {
			return err
		}
		// Prime the manager so the first change is a reload, not a load.
		if _, err := manager.List(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := GetProvidersFilePath()
		fmt.Printf("Watching %s (ctrl-c to stop)\n", path)
		if err := manager.Watch(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersWatchCmd)
}
