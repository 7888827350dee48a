package power

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ThresholdField selects the start or stop threshold of a battery.
type ThresholdField int

const (
	StartThreshold ThresholdField = iota
	StopThreshold
)

func (f ThresholdField) String() string {
	if f == StartThreshold {
		return "start"
	}
	return "stop"
}

const (
	// minStop is the floor for a requested stop threshold.
	minStop = 5
	// thresholdGap is the minimum distance the firmware requires between
	// start and stop.
	thresholdGap = 4
)

// Normalize parses raw threshold values and enforces the pair invariant.
//
// A raw value must be 1 to 3 ASCII digits; anything else (sign, decimal
// point, empty) invalidates the whole field and yields Unset. The value 0
// is the factory-default sentinel and expands to 96/100 before checks.
// Start is capped at 96, stop at 100 with a floor of 5. When both fields
// are set, start <= stop - 4 is enforced by lowering start, never by
// raising stop.
func Normalize(startRaw, stopRaw string) Thresholds {
	start := parseThreshold(startRaw)
	stop := parseThreshold(stopRaw)

	if start != Unset {
		if start == 0 {
			start = DefaultStart
		}
		if start > DefaultStart {
			start = DefaultStart
		}
	}

	if stop != Unset {
		if stop == 0 {
			stop = DefaultStop
		}
		if stop > DefaultStop {
			stop = DefaultStop
		}
		if stop < minStop {
			stop = minStop
		}
	}

	if start != Unset && stop != Unset && start > stop-thresholdGap {
		start = stop - thresholdGap
	}

	return Thresholds{Start: start, Stop: stop}
}

// parseThreshold accepts only 1-3 ASCII digits.
func parseThreshold(raw string) int {
	if len(raw) < 1 || len(raw) > 3 {
		return Unset
	}

	v := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return Unset
		}
		v = v*10 + int(ch-'0')
	}

	return v
}

// GetThreshold reads one threshold through the resolved backend.
func (c *Controller) GetThreshold(slot BatterySlot, field ThresholdField) (int, error) {
	switch c.methods.Threshold {
	case NativeACPI, VendorSMAPI:
		v, err := c.hw.ReadInt(thresholdPath(slot, field))
		if err != nil {
			return 0, errors.Wrapf(ErrRead, "%s threshold of %s: %v", field, slot.Label, err)
		}
		return v, nil
	case VendorACPICall:
		v, err := acpiCallGetThreshold(c.hw, acpiCallCode(field), slot.Index)
		if err != nil {
			return 0, errors.Wrapf(ErrRead, "%s threshold of %s: %v", field, slot.Label, err)
		}
		return v, nil
	case None:
		return 0, errors.Wrap(ErrNoMethod, "threshold read")
	default:
		return 0, errors.Wrap(ErrNoMethod, "threshold read")
	}
}

// GetThresholds reads the current start/stop pair.
func (c *Controller) GetThresholds(slot BatterySlot) (Thresholds, error) {
	start, err := c.GetThreshold(slot, StartThreshold)
	if err != nil {
		return Thresholds{}, err
	}

	stop, err := c.GetThreshold(slot, StopThreshold)
	if err != nil {
		return Thresholds{}, err
	}

	return Thresholds{Start: start, Stop: stop}, nil
}

// SetThresholds updates the battery's thresholds to want, writing as
// little as possible.
//
// Both current values must be readable before anything is written. An
// Unset field means "leave unchanged". When the new start would collide
// with the old stop, stop is written first so no intermediate state
// violates the firmware's start <= stop - 4 rule; otherwise start goes
// first. A write is skipped entirely when the value already matches, to
// spare the firmware. A failed write is recorded and the remaining step
// still runs; the first failure is the returned error.
func (c *Controller) SetThresholds(slot BatterySlot, want Thresholds, verbose bool) error {
	current, err := c.GetThresholds(slot)
	if err != nil {
		return err
	}

	newStart := want.Start
	if newStart == Unset {
		newStart = current.Start
	}
	newStop := want.Stop
	if newStop == Unset {
		newStop = current.Stop
	}

	order := []ThresholdField{StartThreshold, StopThreshold}
	if newStart > current.Stop-thresholdGap {
		order = []ThresholdField{StopThreshold, StartThreshold}
	}

	var firstErr error
	for _, field := range order {
		target, old := newStart, current.Start
		if field == StopThreshold {
			target, old = newStop, current.Stop
		}

		if target == old {
			stepReport(verbose, "%s threshold of %s already at %d", field, slot.Label, old)
			continue
		}

		if err := c.writeThreshold(slot, field, target); err != nil {
			if errors.Is(err, ErrNoMethod) {
				// Backend vanished mid-sequence; do not attempt the
				// remaining write.
				return err
			}
			stepErr := errors.Wrapf(ErrWrite, "%s threshold of %s: %v", field, slot.Label, err)
			logrus.WithError(stepErr).Error("threshold write step failed")
			if firstErr == nil {
				firstErr = stepErr
			}
			continue
		}

		stepReport(verbose, "set %s threshold of %s to %d", field, slot.Label, target)
	}

	return firstErr
}

func (c *Controller) writeThreshold(slot BatterySlot, field ThresholdField, value int) error {
	switch c.methods.Threshold {
	case NativeACPI, VendorSMAPI:
		return c.hw.WriteInt(thresholdPath(slot, field), value)
	case VendorACPICall:
		return acpiCallSetThreshold(c.hw, acpiCallCode(field), slot.Index, value)
	case None:
		return errors.Wrap(ErrNoMethod, "threshold write")
	default:
		return errors.Wrap(ErrNoMethod, "threshold write")
	}
}

func thresholdPath(slot BatterySlot, field ThresholdField) string {
	if field == StartThreshold {
		return slot.StartPath
	}
	return slot.StopPath
}

func acpiCallCode(field ThresholdField) string {
	if field == StartThreshold {
		return acpiCallStart
	}
	return acpiCallStop
}

func stepReport(verbose bool, format string, a ...interface{}) {
	if verbose {
		logrus.Infof(format, a...)
	} else {
		logrus.Debugf(format, a...)
	}
}
