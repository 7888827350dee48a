package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chargectl/pkg/power"
)

func NewDischargeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "discharge [BAT]",
		Short:   "Force-discharge the battery completely",
		GroupID: gCalibration,
		Long: `Force the battery to discharge, even on AC power, until it is empty.

This blocks until the battery is drained and can take hours. Press
Ctrl-C to cancel; charging behavior is restored on cancellation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunLock(func() error {
				ctrl, _, _, err := newController()
				if err != nil {
					return err
				}

				slot, err := ctrl.Locate(batteryArg(args, 0))
				if err != nil {
					return err
				}

				sess, err := ctrl.Discharge(cmd.Context(), slot)
				if err != nil {
					return err
				}
				if sess.State == power.SessionCancelled {
					logrus.Infof("discharge of %s cancelled", slot.Label)
				}
				return nil
			})
		},
	}
}

func NewRecalibrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "recalibrate [BAT]",
		Short:   "Recalibrate the battery gauge",
		GroupID: gCalibration,
		Long: `Recalibrate the battery's charge gauge: reset the thresholds to the
factory default, then force a complete discharge. Keep the laptop on AC
power for the whole cycle and until the battery has charged back to
100%.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

				sess, err := ctrl.Discharge(cmd.Context(), slot)
				if err != nil {
					return err
				}

				switch sess.State {
				case power.SessionCompleted:
					logrus.Infof("recalibration discharge of %s complete; keep the laptop on AC power until the battery is fully charged", slot.Label)
				case power.SessionCancelled:
					logrus.Infof("recalibration of %s cancelled", slot.Label)
				}
				return nil
			})
		},
	}
}
