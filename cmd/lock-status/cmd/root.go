package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/service/status"
	"github.com/oshokin/door-lock/internal/version"
)

var (
	// configPath stores the path to the control node configuration YAML file.
	configPath string
	// watch keeps polling the status.
	watch bool
	// interval between polls in watch mode.
	interval time.Duration

	// rootCmd represents the base command for reading the control node status.
	rootCmd = &cobra.Command{
		Use:   "lock-status [address]",
		Short: "Print the door lock control node status.",
		Long: `Reads the control node status over gRPC and prints it as one line.

The address can be provided as argument or taken from status_addr in the control
node configuration file. With --watch the status is printed on every poll until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use address argument if provided, otherwise rely on config.
			var address string
			if len(args) > 0 {
				address = args[0]
			}

			options := &status.Options{
				ConfigPath:   configPath,
				Address:      address,
				Watch:        watch,
				PollInterval: interval,
				Out:          cmd.OutOrStdout(),
			}

			return status.Run(ctx, options)
		},
	}
)

// Execute runs the lock-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().
		StringVarP(&configPath, "config", "c", config.DefaultControlConfigFilename, "path to configuration file")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling the status")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", status.DefaultPollInterval, "poll interval in watch mode")
}
