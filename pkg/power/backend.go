package power

// Backend identifies one of the competing charge-control mechanisms.
// Every dispatch on a Backend must switch exhaustively so that adding a
// backend is a compile-visible change.
type Backend int

const (
	// None means no backend resolves the capability.
	None Backend = iota
	// NativeACPI is the kernel's charge_control sysfs interface.
	NativeACPI
	// VendorACPICall is the tpacpi-bat wrapper around the acpi_call module.
	VendorACPICall
	// VendorSMAPI is the tp_smapi kernel module sysfs interface.
	VendorSMAPI
)

var backendNames = [...]string{"none", "natacpi", "tpacpi-bat", "tp-smapi"}

func (b Backend) String() string {
	if b < None || int(b) >= len(backendNames) {
		return "invalid"
	}
	return backendNames[b]
}

// ProbeStatus is the per-backend outcome of capability detection.
type ProbeStatus string

const (
	StatusSupported     ProbeStatus = "supported"
	StatusDisabled      ProbeStatus = "disabled by configuration"
	StatusNotLoaded     ProbeStatus = "module not loaded"
	StatusNotInstalled  ProbeStatus = "not installed"
	StatusSuperseded    ProbeStatus = "superseded by higher-priority backend"
	StatusNotApplicable ProbeStatus = "hardware not applicable"
)

// MethodSet assigns one backend to each capability. It is computed once
// per invocation and treated as immutable afterwards; kernel module state
// can change between runs, so it is never cached across invocations.
type MethodSet struct {
	Read      Backend
	Threshold Backend
	Discharge Backend
}

// BatterySlot is a located battery with its backend-specific resource
// handles. StartPath/StopPath/DischargePath are empty for the wrapper-tool
// backend, which addresses batteries by Index instead.
type BatterySlot struct {
	Label         string
	Index         int
	DataPath      string
	StartPath     string
	StopPath      string
	DischargePath string
}

// Labels are the supported battery slots, in locate order.
var Labels = []string{"BAT0", "BAT1"}

const (
	// Unset marks a threshold that was not requested or could not be parsed.
	Unset = -1

	// DefaultStart and DefaultStop are the factory default thresholds that
	// the raw value 0 expands to.
	DefaultStart = 96
	DefaultStop  = 100
)

// Thresholds is a normalized start/stop threshold pair. Either field may
// be Unset, meaning "leave unchanged". When both are set the pair honors
// Start <= Stop - 4.
type Thresholds struct {
	Start int
	Stop  int
}
