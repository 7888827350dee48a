package power

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presentNative(label string) map[string]string {
	base := "/sys/class/power_supply/" + label
	return map[string]string{
		base + "/present": "1",
		base + "/type":    "Battery",
	}
}

func mergeFiles(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func TestLocateNoReadMethod(t *testing.T) {
	hw := NewMockHardware(presentNative("BAT0"), nil)
	ctrl := NewController(hw, MethodSet{})

	_, err := ctrl.Locate("")
	assert.True(t, errors.Is(err, ErrNoMethod), "got %v", err)
}

func TestLocateDefaultPrefersBAT0(t *testing.T) {
	hw := NewMockHardware(mergeFiles(presentNative("BAT0"), presentNative("BAT1")), nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI, Threshold: NativeACPI, Discharge: NativeACPI})

	slot, err := ctrl.Locate("")
	require.NoError(t, err)
	assert.Equal(t, "BAT0", slot.Label)
	assert.Equal(t, 1, slot.Index)
}

func TestLocateDefaultFallsBackToBAT1(t *testing.T) {
	hw := NewMockHardware(presentNative("BAT1"), nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI})

	slot, err := ctrl.Locate("")
	require.NoError(t, err)
	assert.Equal(t, "BAT1", slot.Label)
	assert.Equal(t, 1, slot.Index, "BAT1 without BAT0 is the first battery")
}

func TestLocateBAT1IndexWithBothPresent(t *testing.T) {
	hw := NewMockHardware(mergeFiles(presentNative("BAT0"), presentNative("BAT1")), nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI})

	slot, err := ctrl.Locate("BAT1")
	require.NoError(t, err)
	assert.Equal(t, 2, slot.Index)
}

func TestLocateNotPresent(t *testing.T) {
	files := presentNative("BAT0")
	files["/sys/class/power_supply/BAT0/present"] = "0"
	hw := NewMockHardware(files, nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI})

	_, err := ctrl.Locate("BAT0")
	assert.True(t, errors.Is(err, ErrNotPresent), "got %v", err)
}

func TestLocateRejectsNonBatterySupply(t *testing.T) {
	files := presentNative("BAT0")
	files["/sys/class/power_supply/BAT0/type"] = "Mains"
	hw := NewMockHardware(files, nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI})

	_, err := ctrl.Locate("BAT0")
	assert.True(t, errors.Is(err, ErrNotPresent), "got %v", err)
}

func TestLocateUnknownLabel(t *testing.T) {
	hw := NewMockHardware(nil, nil)
	ctrl := NewController(hw, MethodSet{Read: NativeACPI})

	_, err := ctrl.Locate("BAT7")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotPresent))
}

func TestLocateSMAPIPresence(t *testing.T) {
	hw := NewMockHardware(map[string]string{
		"/sys/devices/platform/smapi/BAT0/installed": "1",
	}, nil)
	ctrl := NewController(hw, MethodSet{Read: VendorSMAPI, Threshold: VendorSMAPI, Discharge: VendorSMAPI})

	slot, err := ctrl.Locate("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "/sys/devices/platform/smapi/BAT0", slot.DataPath)
	assert.Equal(t, "/sys/devices/platform/smapi/BAT0/start_charge_thresh", slot.StartPath)
	assert.Equal(t, "/sys/devices/platform/smapi/BAT0/force_discharge", slot.DischargePath)
}

func TestLocateMixedBackendPaths(t *testing.T) {
	files := mergeFiles(presentNative("BAT0"), map[string]string{
		"/sys/devices/platform/smapi/BAT0/installed": "1",
	})
	hw := NewMockHardware(files, nil)
	// tp_smapi reads, native thresholds, wrapper discharge.
	ctrl := NewController(hw, MethodSet{
		Read:      VendorSMAPI,
		Threshold: NativeACPI,
		Discharge: VendorACPICall,
	})

	slot, err := ctrl.Locate("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "/sys/devices/platform/smapi/BAT0", slot.DataPath)
	assert.Equal(t, "/sys/class/power_supply/BAT0/charge_start_threshold", slot.StartPath)
	assert.Equal(t, "/sys/class/power_supply/BAT0/charge_stop_threshold", slot.StopPath)
	assert.Empty(t, slot.DischargePath, "wrapper backend addresses by index")
}
