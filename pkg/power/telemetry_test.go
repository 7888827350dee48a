package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryNative(t *testing.T) {
	slot := nativeSlot("BAT0")
	hw := NewMockHardware(map[string]string{
		slot.DataPath + "/voltage_now": "12000000",
		slot.DataPath + "/energy_now":  "24000000",
		slot.DataPath + "/energy_full": "48000000",
		slot.DataPath + "/power_now":   "12000000",
		slot.DataPath + "/status":      "Discharging",
		slot.DischargePath:             "1",
	}, nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI, Threshold: NativeACPI, Discharge: NativeACPI})

	snap := ctrl.Telemetry(slot)

	assert.Equal(t, "12.00V", snap.Voltage.Format("%.2fV"))
	assert.Equal(t, "24.0Wh", snap.RemainingCapacity.Format("%.1fWh"))
	assert.Equal(t, "50%", snap.RemainingPercent.Format("%.0f%%"))
	assert.Equal(t, "120min", snap.RemainingMinutes.Format("%.0fmin"))
	assert.Equal(t, "12.0W", snap.Power.Format("%.1fW"))
	assert.Equal(t, "discharging", snap.Status)
	assert.Equal(t, "1", snap.ForceDischarge.Format("%.0f"))
}

func TestTelemetrySMAPI(t *testing.T) {
	base := "/sys/devices/platform/smapi/BAT0"
	slot := BatterySlot{
		Label:         "BAT0",
		Index:         1,
		DataPath:      base,
		DischargePath: base + "/force_discharge",
	}
	hw := NewMockHardware(map[string]string{
		base + "/voltage":                    "11100",
		base + "/remaining_capacity":         "23500",
		base + "/remaining_percent":          "42",
		base + "/remaining_running_time_now": "95",
		base + "/power_avg":                  "-14800",
		base + "/state":                      "discharging",
		base + "/force_discharge":            "1",
	}, nil)
	ctrl := NewController(hw, MethodSet{Read: VendorSMAPI, Threshold: VendorSMAPI, Discharge: VendorSMAPI})

	snap := ctrl.Telemetry(slot)

	assert.Equal(t, "11.10V", snap.Voltage.Format("%.2fV"))
	assert.Equal(t, "23.5Wh", snap.RemainingCapacity.Format("%.1fWh"))
	assert.Equal(t, "42%", snap.RemainingPercent.Format("%.0f%%"))
	assert.Equal(t, "95min", snap.RemainingMinutes.Format("%.0fmin"))
	assert.InDelta(t, -14.8, snap.Power.Value, 0.001)
	assert.Equal(t, "discharging", snap.Status)
}

func TestTelemetryUnavailableMetrics(t *testing.T) {
	slot := nativeSlot("BAT0")
	hw := NewMockHardware(map[string]string{
		slot.DataPath + "/voltage_now": "12000000",
		slot.DataPath + "/status":      "Idle",
	}, nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI, Threshold: NativeACPI, Discharge: NativeACPI})

	snap := ctrl.Telemetry(slot)

	assert.True(t, snap.Voltage.Known)
	assert.False(t, snap.Power.Known)
	assert.Equal(t, "n/a", snap.Power.Format("%.1fW"))
	assert.Equal(t, "n/a", snap.RemainingMinutes.Format("%.0fmin"))
	assert.False(t, snap.ForceDischarge.Known, "missing flag must not be invented")
}
