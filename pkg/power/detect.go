package power

import (
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Flags are the configuration switches consumed by detection. Each backend
// defaults to enabled.
type Flags struct {
	NativeEnabled   bool
	ACPICallEnabled bool
	SMAPIEnabled    bool
}

// Detection is the result of one capability probe: the resolved MethodSet
// plus the per-backend status for reporting.
type Detection struct {
	Methods  MethodSet
	Native   ProbeStatus
	ACPICall ProbeStatus
	SMAPI    ProbeStatus
}

// Detect probes the three backends and resolves one MethodSet. The cascade
// is strict priority: native kernel ACPI first, then the ACPI-call wrapper
// filling gaps, then the vendor module, which takes over telemetry reads
// unconditionally when usable (it is the only source of cycle counts and
// runtime estimates) and fills whatever is still unresolved.
//
// The result is deterministic for a fixed hardware+config snapshot: the
// only iteration order is the fixed BAT0-before-BAT1 label order. Module
// state can change between runs, so callers must re-detect per invocation.
func Detect(hw *Hardware, flags Flags) Detection {
	det := Detection{
		Native:   StatusNotApplicable,
		ACPICall: StatusNotApplicable,
		SMAPI:    StatusNotLoaded,
	}

	detectNative(hw, flags, &det)
	detectACPICall(hw, flags, &det)
	detectSMAPI(hw, flags, &det)

	logrus.WithFields(logrus.Fields{
		"read":      det.Methods.Read,
		"threshold": det.Methods.Threshold,
		"discharge": det.Methods.Discharge,
	}).Debug("resolved charge-control methods")

	return det
}

// detectNative scans present batteries for readable native threshold
// attributes. Readable means a read returns data: some kernels expose the
// attribute but it comes back empty.
func detectNative(hw *Hardware, flags Flags, det *Detection) {
	if !flags.NativeEnabled {
		det.Native = StatusDisabled
		return
	}

	for _, label := range Labels {
		base := filepath.Join(powerSupplyPath, label)
		if present, _ := nativePresent(hw, label); !present {
			continue
		}
		if !hw.Readable(filepath.Join(base, "charge_start_threshold")) {
			continue
		}

		det.Native = StatusSupported
		det.Methods.Threshold = NativeACPI
		det.Methods.Read = NativeACPI
		if hw.Readable(filepath.Join(base, "force_discharge")) {
			det.Methods.Discharge = NativeACPI
		}
		return
	}
}

// detectACPICall probes the tpacpi-bat wrapper. It fills the
// threshold/discharge gaps native left open. The tool itself has no
// telemetry surface; as a read method it stands for the plain ACPI
// power_supply files, so it claims reads only when nothing else did.
func detectACPICall(hw *Hardware, flags Flags, det *Detection) {
	if !flags.ACPICallEnabled {
		det.ACPICall = StatusDisabled
		return
	}
	if det.Methods.Threshold == NativeACPI && det.Methods.Discharge == NativeACPI {
		det.ACPICall = StatusSuperseded
		return
	}
	if !hw.Exists(thinkpadACPIPath) {
		det.ACPICall = StatusNotApplicable
		return
	}

	err := acpiCallProbe(hw)
	switch {
	case err == nil:
		det.ACPICall = StatusSupported
		if det.Methods.Threshold == None {
			det.Methods.Threshold = VendorACPICall
		}
		if det.Methods.Discharge == None {
			det.Methods.Discharge = VendorACPICall
		}
		if det.Methods.Read == None {
			det.Methods.Read = VendorACPICall
		}
	case errors.Is(err, exec.ErrNotFound):
		det.ACPICall = StatusNotInstalled
	default:
		// Tool is installed but the call failed, which on this hardware
		// family means the acpi_call module is not loaded.
		det.ACPICall = StatusNotLoaded
		logrus.WithError(err).Debug("tpacpi-bat probe failed")
	}
}

// detectSMAPI checks the tp_smapi module. When loaded and enabled it is
// the preferred read backend unconditionally; threshold and discharge are
// filled independently, each only when the module exposes the matching
// attribute and nothing of higher priority claimed it already.
func detectSMAPI(hw *Hardware, flags Flags, det *Detection) {
	if !flags.SMAPIEnabled {
		det.SMAPI = StatusDisabled
		return
	}
	if !hw.Exists(smapiPath) {
		det.SMAPI = StatusNotLoaded
		return
	}

	det.SMAPI = StatusSupported
	det.Methods.Read = VendorSMAPI

	for _, label := range Labels {
		base := filepath.Join(smapiPath, label)
		if !hw.Readable(filepath.Join(base, "start_charge_thresh")) {
			continue
		}

		if det.Methods.Threshold == None {
			det.Methods.Threshold = VendorSMAPI
		}
		if det.Methods.Discharge == None && hw.Readable(filepath.Join(base, "force_discharge")) {
			det.Methods.Discharge = VendorSMAPI
		}
		return
	}
}
