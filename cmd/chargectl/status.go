package main

import (
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chargectl/pkg/lockfile"
	"chargectl/pkg/power"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show backends, thresholds and battery telemetry",
		GroupID: gCharge,
		Long:    `Show the detected charge-control backends, the resolved method for each capability, and per-battery thresholds and telemetry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, det, _, err := newController()
			if err != nil {
				return err
			}

			// Reads only, so do not wait on the lock; just warn when a
			// mutating command is mid-flight.
			lock := lockfile.New(lockPath)
			if held, err := lock.TryAcquire(); err == nil && held {
				defer func() {
					_ = lock.Release()
				}()
			} else {
				cmd.Println(color.YellowString("Another chargectl operation is running; values may be changing."))
				cmd.Println()
			}

			cmd.Println(bold("Backends:"))
			cmd.Printf("  natacpi:    %s\n", statusText(det.Native))
			cmd.Printf("  tpacpi-bat: %s\n", statusText(det.ACPICall))
			cmd.Printf("  tp-smapi:   %s\n", statusText(det.SMAPI))
			cmd.Println()

			methods := ctrl.Methods()
			cmd.Println(bold("Resolved methods:"))
			cmd.Printf("  read:      %s\n", methods.Read)
			cmd.Printf("  threshold: %s\n", methods.Threshold)
			cmd.Printf("  discharge: %s\n", methods.Discharge)
			cmd.Println()

			for _, label := range power.Labels {
				slot, err := ctrl.Locate(label)
				if err != nil {
					if errors.Is(err, power.ErrNoMethod) {
						cmd.Printf("%s no read backend available\n", bold("%s:", label))
						break
					}
					cmd.Printf("%s not present\n", bold("%s:", label))
					continue
				}

				printBattery(cmd, ctrl, slot)
			}

			return nil
		},
	}
}

func printBattery(cmd *cobra.Command, ctrl *power.Controller, slot power.BatterySlot) {
	cmd.Println(bold("%s (index %d):", slot.Label, slot.Index))

	if thresholds, err := ctrl.GetThresholds(slot); err == nil {
		cmd.Printf("  Thresholds: start %s, stop %s\n",
			bold("%d%%", thresholds.Start), bold("%d%%", thresholds.Stop))
	} else {
		cmd.Printf("  Thresholds: %s\n", "n/a")
	}

	snap := ctrl.Telemetry(slot)
	state := statusOrNA(snap.Status)
	switch snap.Status {
	case "charging":
		state = color.GreenString(snap.Status)
	case "discharging":
		state = color.RedString(snap.Status)
	}
	cmd.Printf("  State: %s\n", bold("%s", state))
	cmd.Printf("  Charge: %s\n", bold("%s", snap.RemainingPercent.Format("%.0f%%")))
	cmd.Printf("  Voltage: %s\n", bold("%s", snap.Voltage.Format("%.2f V")))
	cmd.Printf("  Power: %s\n", bold("%s", snap.Power.Format("%.1f W")))
	cmd.Printf("  Remaining capacity: %s\n", bold("%s", snap.RemainingCapacity.Format("%.1f Wh")))
	cmd.Printf("  Remaining time: %s\n", bold("%s", snap.RemainingMinutes.Format("%.0f min")))
	cmd.Println()
}

func statusText(s power.ProbeStatus) string {
	if s == power.StatusSupported {
		return color.New(color.Bold, color.FgGreen).Sprint(string(s))
	}
	return string(s)
}

func statusOrNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
