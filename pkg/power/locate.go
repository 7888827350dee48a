package power

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Controller performs all battery operations through one resolved
// MethodSet. It holds no other state; sessions and slots are explicit
// values threaded through calls.
type Controller struct {
	hw      *Hardware
	methods MethodSet
}

// NewController returns a Controller bound to an already-resolved
// MethodSet.
func NewController(hw *Hardware, methods MethodSet) *Controller {
	return &Controller{
		hw:      hw,
		methods: methods,
	}
}

// Methods returns the MethodSet this controller operates with.
func (c *Controller) Methods() MethodSet {
	return c.methods
}

// Locate validates that the requested battery is present under the
// resolved read backend and computes its backend-specific resource
// handles. An empty request means "first present battery", trying BAT0
// then BAT1.
func (c *Controller) Locate(request string) (BatterySlot, error) {
	if c.methods.Read == None {
		return BatterySlot{}, errors.Wrap(ErrNoMethod, "battery presence")
	}

	labels := Labels
	if request != "" {
		if request != "BAT0" && request != "BAT1" {
			return BatterySlot{}, errors.Errorf("unknown battery %q", request)
		}
		labels = []string{request}
	}

	for _, label := range labels {
		present, err := c.present(label)
		if err != nil {
			logrus.WithError(err).WithField("battery", label).Debug("presence check failed")
			continue
		}
		if present {
			return c.slotFor(label), nil
		}
	}

	return BatterySlot{}, errors.Wrapf(ErrNotPresent, "%s", request)
}

// present dispatches the presence check on the read backend: the ACPI
// family checks the present flag and the declared supply type, the vendor
// module has its own installed flag.
func (c *Controller) present(label string) (bool, error) {
	switch c.methods.Read {
	case NativeACPI, VendorACPICall:
		return nativePresent(c.hw, label)
	case VendorSMAPI:
		return smapiPresent(c.hw, label)
	case None:
		return false, ErrNoMethod
	default:
		return false, ErrNoMethod
	}
}

// slotFor computes the resource handles for a present battery. The index
// is 1 for the first present battery in label order; BAT1 is index 2 only
// when BAT0 is also present.
func (c *Controller) slotFor(label string) BatterySlot {
	index := 1
	if label == "BAT1" {
		if present, _ := c.present("BAT0"); present {
			index = 2
		}
	}

	slot := BatterySlot{
		Label: label,
		Index: index,
	}

	switch c.methods.Read {
	case NativeACPI, VendorACPICall:
		slot.DataPath = filepath.Join(powerSupplyPath, label)
	case VendorSMAPI:
		slot.DataPath = filepath.Join(smapiPath, label)
	case None:
	}

	switch c.methods.Threshold {
	case NativeACPI:
		slot.StartPath = filepath.Join(powerSupplyPath, label, "charge_start_threshold")
		slot.StopPath = filepath.Join(powerSupplyPath, label, "charge_stop_threshold")
	case VendorSMAPI:
		slot.StartPath = filepath.Join(smapiPath, label, "start_charge_thresh")
		slot.StopPath = filepath.Join(smapiPath, label, "stop_charge_thresh")
	case VendorACPICall, None:
		// Addressed by index, no paths.
	}

	switch c.methods.Discharge {
	case NativeACPI:
		slot.DischargePath = filepath.Join(powerSupplyPath, label, "force_discharge")
	case VendorSMAPI:
		slot.DischargePath = filepath.Join(smapiPath, label, "force_discharge")
	case VendorACPICall, None:
	}

	return slot
}

func nativePresent(hw *Hardware, label string) (bool, error) {
	base := filepath.Join(powerSupplyPath, label)
	if !hw.Exists(base) {
		return false, nil
	}

	present, err := hw.ReadInt(filepath.Join(base, "present"))
	if err != nil || present != 1 {
		return false, err
	}

	typ, err := hw.ReadString(filepath.Join(base, "type"))
	if err != nil {
		return false, err
	}

	return typ == "Battery", nil
}

func smapiPresent(hw *Hardware, label string) (bool, error) {
	base := filepath.Join(smapiPath, label)
	if !hw.Exists(base) {
		return false, nil
	}

	installed, err := hw.ReadInt(filepath.Join(base, "installed"))
	if err != nil {
		return false, err
	}

	return installed == 1, nil
}
