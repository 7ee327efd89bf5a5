package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/service/hmi"
	"github.com/oshokin/door-lock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the interface node.
	rootCmd = &cobra.Command{
		Use:   "hmi-node",
		Short: "Run the door lock interface node on this terminal.",
		Long: `Runs the interface node of the door lock with the terminal as display and keypad.

Type digits and press Enter to submit a credential; '+' opens the door and '-'
changes the credential from the menu. Logs go to stderr so the display keeps stdout.

The link to the control node comes from the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			logger.SetLogger(logger.NewWithSink(os.Stderr, nil))

			options := &hmi.Options{
				ConfigPath: configPath,
				Screen:     os.Stdout,
				Keys:       os.Stdin,
			}

			return hmi.Run(ctx, options)
		},
	}
)

// Execute runs the hmi-node CLI and exits with non-zero status on error.
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
		StringVarP(&configPath, "config", "c", config.DefaultHMIConfigFilename, "path to configuration file")
}
