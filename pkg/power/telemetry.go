package power

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Metric is a telemetry value that may be unavailable from the active
// read backend. Unavailable values are reported as such, never invented.
type Metric struct {
	Value float64
	Known bool
}

func metric(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// Format renders the metric with the given verb, or "n/a".
func (m Metric) Format(format string) string {
	if !m.Known {
		return "n/a"
	}
	return fmt.Sprintf(format, m.Value)
}

// Snapshot is one live telemetry reading.
type Snapshot struct {
	Voltage           Metric // V
	RemainingCapacity Metric // Wh
	RemainingPercent  Metric
	RemainingMinutes  Metric
	Power             Metric // W
	Status            string
	ForceDischarge    Metric // current flag value, 0 or 1
}

// Telemetry reads a snapshot from whichever read backend is active.
// Individual metrics the backend cannot supply stay unknown.
func (c *Controller) Telemetry(slot BatterySlot) Snapshot {
	var snap Snapshot

	switch c.methods.Read {
	case NativeACPI, VendorACPICall:
		snap = c.nativeTelemetry(slot)
	case VendorSMAPI:
		snap = c.smapiTelemetry(slot)
	case None:
	}

	if on, err := c.getForceDischarge(slot); err == nil {
		v := 0.0
		if on {
			v = 1.0
		}
		snap.ForceDischarge = metric(v)
	}

	return snap
}

// nativeTelemetry converts the µV/µWh/µW power_supply attributes to
// display units. The kernel does not report a remaining-time estimate, so
// it is derived from energy and drain when both are known.
func (c *Controller) nativeTelemetry(slot BatterySlot) Snapshot {
	var snap Snapshot

	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "voltage_now")); err == nil {
		snap.Voltage = metric(float64(v) / 1e6)
	}

	var energyNow, energyFull int
	var haveNow, haveFull bool
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "energy_now")); err == nil {
		energyNow, haveNow = v, true
		snap.RemainingCapacity = metric(float64(v) / 1e6)
	}
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "energy_full")); err == nil {
		energyFull, haveFull = v, true
	}
	if haveNow && haveFull && energyFull > 0 {
		snap.RemainingPercent = metric(float64(energyNow) / float64(energyFull) * 100)
	}

	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "power_now")); err == nil {
		snap.Power = metric(float64(v) / 1e6)
		if haveNow && v > 0 {
			snap.RemainingMinutes = metric(float64(energyNow) / float64(v) * 60)
		}
	}

	if s, err := c.hw.ReadString(filepath.Join(slot.DataPath, "status")); err == nil {
		snap.Status = normalizeStatus(s)
	}

	return snap
}

// smapiTelemetry reads the richer tp_smapi attributes (mV/mWh/mW, minutes).
func (c *Controller) smapiTelemetry(slot BatterySlot) Snapshot {
	var snap Snapshot

	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "voltage")); err == nil {
		snap.Voltage = metric(float64(v) / 1e3)
	}
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "remaining_capacity")); err == nil {
		snap.RemainingCapacity = metric(float64(v) / 1e3)
	}
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "remaining_percent")); err == nil {
		snap.RemainingPercent = metric(float64(v))
	}
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "remaining_running_time_now")); err == nil {
		snap.RemainingMinutes = metric(float64(v))
	}
	if v, err := c.hw.ReadInt(filepath.Join(slot.DataPath, "power_avg")); err == nil {
		snap.Power = metric(float64(v) / 1e3)
	}
	if s, err := c.hw.ReadString(filepath.Join(slot.DataPath, "state")); err == nil {
		snap.Status = normalizeStatus(s)
	}

	return snap
}

func (c *Controller) reportTelemetry(slot BatterySlot) {
	snap := c.Telemetry(slot)

	logrus.WithFields(logrus.Fields{
		"battery":        slot.Label,
		"voltage":        snap.Voltage.Format("%.2fV"),
		"remaining":      snap.RemainingCapacity.Format("%.1fWh"),
		"percent":        snap.RemainingPercent.Format("%.0f%%"),
		"timeLeft":       snap.RemainingMinutes.Format("%.0fmin"),
		"power":          snap.Power.Format("%.1fW"),
		"status":         statusOrNA(snap.Status),
		"forceDischarge": snap.ForceDischarge.Format("%.0f"),
	}).Info("discharge telemetry")
}

func statusOrNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
