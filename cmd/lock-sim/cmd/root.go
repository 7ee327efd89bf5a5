package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/service/simulate"
	"github.com/oshokin/door-lock/internal/version"
)

var (
	// eepromPath keeps the credential in an image file between runs.
	eepromPath string
	// logLevel is the minimum level of log entries.
	logLevel string
	// debug dumps the link traffic.
	debug bool

	// rootCmd represents the base command for the simulator.
	rootCmd = &cobra.Command{
		Use:   "lock-sim",
		Short: "Run both door lock nodes in one process.",
		Long: `Runs the control node and the interface node connected by an in-memory link.

The terminal is the interface node display and keypad: type digits and press Enter
to submit a credential, '+' to open the door and '-' to change the credential.
Motor and buzzer activity is logged to stderr together with the node logs.
All durations are the real ones: a door opening takes 33 seconds and an alarm a minute.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			logger.SetLogger(logger.NewWithSink(os.Stderr, nil))

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &simulate.Options{
				EEPROMPath: eepromPath,
				Screen:     os.Stdout,
				Keys:       os.Stdin,
				Debug:      debug,
			}

			return simulate.Run(ctx, options)
		},
	}
)

// Execute runs the lock-sim CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&eepromPath, "eeprom", "e", "", "EEPROM image file, empty keeps the credential in memory")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "dump link traffic")
}
