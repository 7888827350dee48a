package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chargectl/pkg/power"
)

func NewSetChargeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "setcharge [START STOP] [BAT]",
		Short:   "Set battery charge thresholds",
		GroupID: gCharge,
		Long: `Set the start and stop charge thresholds of a battery.

START is the charge percentage below which charging begins, STOP the
percentage at which it ends. 0 selects the factory default (96/100).
Without explicit values, the configured per-battery thresholds are
applied. Without a battery, the first present battery is used.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			request := ""
			explicit := false
			var want power.Thresholds
			switch len(args) {
			case 1:
				request = args[0]
			case 2:
				want = power.Normalize(args[0], args[1])
				explicit = true
			case 3:
				want = power.Normalize(args[0], args[1])
				request = args[2]
				explicit = true
			}

			return withRunLock(func() error {
				ctrl, _, cfg, err := newController()
				if err != nil {
					return err
				}

				slot, err := ctrl.Locate(request)
				if err != nil {
					return err
				}
				if !explicit {
					want = power.Normalize(cfg.StartThreshold(slot.Label), cfg.StopThreshold(slot.Label))
				}

				return ctrl.SetThresholds(slot, want, true)
			})
		},
	}
}

func NewFullChargeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "fullcharge [BAT]",
		Short:   "Charge to 100% once",
		GroupID: gCharge,
		Long: `Set the charge thresholds to the factory default so the battery
charges to 100% once. The configured thresholds apply again on the next
setcharge run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withRunLock(func() error {
				ctrl, _, _, err := newController()
				if err != nil {
					return err
				}

				slot, err := ctrl.Locate(batteryArg(args, 0))
				if err != nil {
					return err
				}

				if err := ctrl.SetThresholds(slot, power.Normalize("0", "0"), true); err != nil {
					return err
				}

				logrus.Infof("%s will charge to 100%% once; run setcharge to restore your thresholds", slot.Label)

				return nil
			})
		},
	}
}
