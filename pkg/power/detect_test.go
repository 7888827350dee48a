package power

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allEnabled() Flags {
	return Flags{NativeEnabled: true, ACPICallEnabled: true, SMAPIEnabled: true}
}

func nativeBAT0Files() map[string]string {
	return map[string]string{
		"/sys/class/power_supply/BAT0/present":                "1",
		"/sys/class/power_supply/BAT0/type":                   "Battery",
		"/sys/class/power_supply/BAT0/charge_start_threshold": "96",
		"/sys/class/power_supply/BAT0/charge_stop_threshold":  "100",
		"/sys/class/power_supply/BAT0/force_discharge":        "0",
	}
}

func TestDetectNativeFullySupersedesWrapper(t *testing.T) {
	files := nativeBAT0Files()
	// Vendor hardware with a perfectly working wrapper tool: it must not
	// be probed at all.
	files["/sys/devices/platform/thinkpad_acpi/uevent"] = ""
	hw := NewMockHardware(files, map[string]string{
		"tpacpi-bat -g ST 1": "60",
	})

	det := Detect(hw, allEnabled())

	assert.Equal(t, NativeACPI, det.Methods.Threshold)
	assert.Equal(t, NativeACPI, det.Methods.Discharge)
	assert.Equal(t, NativeACPI, det.Methods.Read)
	assert.Equal(t, StatusSupported, det.Native)
	assert.Equal(t, StatusSuperseded, det.ACPICall)
	assert.Empty(t, hw.run.(*MockRunner).Calls)
}

func TestDetectNativeThresholdOnly(t *testing.T) {
	files := nativeBAT0Files()
	delete(files, "/sys/class/power_supply/BAT0/force_discharge")
	files["/sys/devices/platform/thinkpad_acpi/uevent"] = ""
	hw := NewMockHardware(files, map[string]string{
		"tpacpi-bat -g ST 1": "60",
	})

	det := Detect(hw, allEnabled())

	assert.Equal(t, NativeACPI, det.Methods.Threshold)
	assert.Equal(t, VendorACPICall, det.Methods.Discharge, "wrapper fills the discharge gap only")
	assert.Equal(t, StatusSupported, det.ACPICall)
}

func TestDetectEmptyThresholdAttributeIsNotReadable(t *testing.T) {
	files := nativeBAT0Files()
	// Attribute present but reads empty; some kernels do this.
	files["/sys/class/power_supply/BAT0/charge_start_threshold"] = ""
	hw := NewMockHardware(files, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, None, det.Methods.Threshold)
	assert.Equal(t, StatusNotApplicable, det.Native)
}

func TestDetectNativeDisabledByConfig(t *testing.T) {
	files := nativeBAT0Files()
	files["/sys/devices/platform/thinkpad_acpi/uevent"] = ""
	hw := NewMockHardware(files, map[string]string{
		"tpacpi-bat -g ST 1": "60",
	})

	flags := allEnabled()
	flags.NativeEnabled = false
	det := Detect(hw, flags)

	assert.Equal(t, StatusDisabled, det.Native)
	assert.Equal(t, VendorACPICall, det.Methods.Threshold)
	assert.Equal(t, VendorACPICall, det.Methods.Discharge)
	assert.Equal(t, VendorACPICall, det.Methods.Read, "reads fall back to the plain ACPI files")
}

func TestDetectWrapperNotInstalled(t *testing.T) {
	hw := NewMockHardware(map[string]string{
		"/sys/devices/platform/thinkpad_acpi/uevent": "",
	}, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, StatusNotInstalled, det.ACPICall)
	assert.Equal(t, None, det.Methods.Threshold)
}

func TestDetectWrapperModuleNotLoaded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sys/devices/platform/thinkpad_acpi/uevent", nil, 0644))
	hw := &Hardware{
		fs: fs,
		run: &MockRunner{
			Errs: map[string]error{
				"tpacpi-bat -g ST 1": fmt.Errorf("exit status 255"),
			},
		},
	}

	det := Detect(hw, allEnabled())

	assert.Equal(t, StatusNotLoaded, det.ACPICall)
	assert.Equal(t, None, det.Methods.Threshold)
}

func TestDetectWrapperNotApplicableOffFamilyHardware(t *testing.T) {
	hw := NewMockHardware(nil, map[string]string{
		"tpacpi-bat -g ST 1": "60",
	})

	det := Detect(hw, allEnabled())

	assert.Equal(t, StatusNotApplicable, det.ACPICall)
}

func TestDetectSMAPIPreferredForRead(t *testing.T) {
	files := nativeBAT0Files()
	files["/sys/devices/platform/smapi/BAT0/installed"] = "1"
	hw := NewMockHardware(files, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, VendorSMAPI, det.Methods.Read, "module telemetry is richer and wins reads")
	assert.Equal(t, NativeACPI, det.Methods.Threshold)
	assert.Equal(t, NativeACPI, det.Methods.Discharge)
	assert.Equal(t, StatusSupported, det.SMAPI)
}

func TestDetectSMAPIReadWriteFillsGaps(t *testing.T) {
	hw := NewMockHardware(map[string]string{
		"/sys/devices/platform/smapi/BAT0/installed":           "1",
		"/sys/devices/platform/smapi/BAT0/start_charge_thresh": "96",
		"/sys/devices/platform/smapi/BAT0/force_discharge":     "0",
	}, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, MethodSet{
		Read:      VendorSMAPI,
		Threshold: VendorSMAPI,
		Discharge: VendorSMAPI,
	}, det.Methods)
}

func TestDetectSMAPIWithoutForceDischarge(t *testing.T) {
	// A module build can expose thresholds without force_discharge; the
	// two capabilities must be probed on their own attributes.
	hw := NewMockHardware(map[string]string{
		"/sys/devices/platform/smapi/BAT0/installed":           "1",
		"/sys/devices/platform/smapi/BAT0/start_charge_thresh": "96",
	}, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, VendorSMAPI, det.Methods.Threshold)
	assert.Equal(t, None, det.Methods.Discharge)
}

func TestDetectSMAPIReadOnly(t *testing.T) {
	hw := NewMockHardware(map[string]string{
		"/sys/devices/platform/smapi/BAT0/installed": "1",
	}, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, VendorSMAPI, det.Methods.Read)
	assert.Equal(t, None, det.Methods.Threshold, "read-only module must not claim threshold writes")
	assert.Equal(t, None, det.Methods.Discharge)
}

func TestDetectSMAPIDisabledByConfig(t *testing.T) {
	files := nativeBAT0Files()
	files["/sys/devices/platform/smapi/BAT0/installed"] = "1"
	hw := NewMockHardware(files, nil)

	flags := allEnabled()
	flags.SMAPIEnabled = false
	det := Detect(hw, flags)

	assert.Equal(t, StatusDisabled, det.SMAPI)
	assert.Equal(t, NativeACPI, det.Methods.Read)
}

func TestDetectNothingAvailable(t *testing.T) {
	hw := NewMockHardware(nil, nil)

	det := Detect(hw, allEnabled())

	assert.Equal(t, MethodSet{}, det.Methods)
	assert.Equal(t, StatusNotApplicable, det.Native)
	assert.Equal(t, StatusNotApplicable, det.ACPICall)
	assert.Equal(t, StatusNotLoaded, det.SMAPI)
}

func TestDetectDeterministic(t *testing.T) {
	files := nativeBAT0Files()
	files["/sys/devices/platform/smapi/BAT0/installed"] = "1"
	hw := NewMockHardware(files, nil)

	first := Detect(hw, allEnabled())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Detect(hw, allEnabled()))
	}
}
