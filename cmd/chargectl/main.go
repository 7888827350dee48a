package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chargectl/pkg/config"
	"chargectl/pkg/lockfile"
)

var (
	logLevel   = "info"
	configPath = config.DefaultPath
	lockPath   = lockfile.DefaultPath
)

var (
	gCharge       = "Charge control:"
	gCalibration  = "Calibration:"
	commandGroups = []string{
		gCharge,
		gCalibration,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chargectl",
		Short: "chargectl controls battery charge thresholds and forced discharge on ThinkPad-family laptops",
		Long: `chargectl controls battery charge thresholds and forced discharge on ThinkPad-family laptops.

It picks the best usable control mechanism on every run: the kernel's
native ACPI interface, the tpacpi-bat wrapper, or the tp_smapi module.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&lockPath, "lock", lockPath, "run lock file path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewSetChargeCommand(),
		NewFullChargeCommand(),
		NewDischargeCommand(),
		NewRecalibrateCommand(),
		NewStatusCommand(),
	)

	return cmd
}
