package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/service/control"
	"github.com/oshokin/door-lock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// statusAddress overrides the status API listen address.
	statusAddress string

	// rootCmd represents the base command for running the control node.
	rootCmd = &cobra.Command{
		Use:   "control-node",
		Short: "Run the door lock control node.",
		Long: `Runs the control node of the door lock: credential storage, lock motor and alarm buzzer.

At boot the node waits for the interface node to send a new credential twice and
stores it once both entries match. It then serves commands from the interface node:
credential checks, door openings, alarms and credential changes.

The link to the interface node, the storage device and the GPIO pins come from the
configuration file. When a status address is configured the node also serves its
status over gRPC for lock-status.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &control.Options{
				ConfigPath:    configPath,
				StatusAddress: statusAddress,
			}

			return control.Run(ctx, options)
		},
	}
)

// Execute runs the control-node CLI and exits with non-zero status on error.
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
	rootCmd.Flags().
		StringVarP(&statusAddress, "status-addr", "s", "", "status API listen address, overrides the configuration")
}
