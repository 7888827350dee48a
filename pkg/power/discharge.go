package power

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SessionState is the state of a forced-discharge session.
type SessionState string

const (
	SessionIdle        SessionState = "idle"
	SessionArmed       SessionState = "armed"
	SessionDischarging SessionState = "discharging"
	SessionCompleted   SessionState = "completed"
	SessionCancelled   SessionState = "cancelled"
	SessionMalfunction SessionState = "malfunction"
)

// Timing seams; tests shrink these.
var (
	armPollInterval    = 500 * time.Millisecond
	armPollAttempts    = 10
	statusPollInterval = 500 * time.Millisecond
	telemetryInterval  = 5 * time.Second
)

// Session is one forced-discharge run. It exists only for the duration of
// a single Discharge call and ends in Completed, Cancelled or Malfunction.
type Session struct {
	Battery BatterySlot
	State   SessionState
	ArmedAt time.Time
}

// Discharge drives a forced-discharge session to completion.
//
// The battery is armed, then polled until it reports discharging (10
// attempts at 500ms; expiry is a malfunction). While discharging, a
// telemetry snapshot is emitted every 5s. An interrupt signal cancels the
// session at any point after arming: the discharge flag is forced off and
// the call returns successfully. The signal hook is installed only for
// the lifetime of this call and released on every exit path. Whatever
// happens after arming, the hardware is left with forced discharge off.
func (c *Controller) Discharge(ctx context.Context, slot BatterySlot) (*Session, error) {
	s := &Session{Battery: slot, State: SessionIdle}

	if c.methods.Discharge == None {
		return s, errors.Wrap(ErrNoMethod, "force discharge")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log := logrus.WithField("battery", slot.Label)
	log.Info("forcing battery discharge")

	if err := c.setForceDischarge(slot, true); err != nil {
		s.State = SessionMalfunction
		return s, errors.Wrapf(ErrDischargeUnsupported, "%s: %v", slot.Label, err)
	}
	s.State = SessionArmed
	s.ArmedAt = time.Now()

	started := false
	for i := 0; i < armPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return c.cancelSession(s), nil
		case <-time.After(armPollInterval):
		}

		discharging, err := c.isDischarging(slot)
		if err != nil {
			log.WithError(err).Debug("discharge status not readable yet")
			continue
		}
		if discharging {
			started = true
			break
		}
	}

	if !started {
		c.forceDischargeOff(slot)
		s.State = SessionMalfunction
		return s, errors.Wrapf(ErrMalfunction, "%s: battery did not start discharging", slot.Label)
	}

	s.State = SessionDischarging
	log.Info("battery is discharging")

	poll := time.NewTicker(statusPollInterval)
	defer poll.Stop()
	telemetry := time.NewTicker(telemetryInterval)
	defer telemetry.Stop()

	for {
		select {
		case <-ctx.Done():
			return c.cancelSession(s), nil

		case <-telemetry.C:
			c.reportTelemetry(slot)

		case <-poll.C:
			discharging, err := c.isDischarging(slot)
			if err != nil {
				c.forceDischargeOff(slot)
				s.State = SessionMalfunction
				return s, errors.Wrapf(ErrMalfunction, "%s: %v", slot.Label, err)
			}
			if !discharging {
				// Some firmware leaves the flag set after the battery
				// stops discharging; clear it before declaring success.
				if on, err := c.getForceDischarge(slot); err == nil && on {
					c.forceDischargeOff(slot)
				}
				s.State = SessionCompleted
				log.Info("battery discharge complete")
				return s, nil
			}
		}
	}
}

func (c *Controller) cancelSession(s *Session) *Session {
	logrus.WithField("battery", s.Battery.Label).Info("discharge cancelled, restoring charge behavior")
	c.forceDischargeOff(s.Battery)
	s.State = SessionCancelled
	return s
}

// forceDischargeOff is the cleanup action: it must run on cancellation,
// malfunction and the stuck-flag quirk, and never be skipped on error.
func (c *Controller) forceDischargeOff(slot BatterySlot) {
	if err := c.setForceDischarge(slot, false); err != nil {
		logrus.WithError(err).WithField("battery", slot.Label).Error("failed to switch forced discharge off")
	}
}

func (c *Controller) setForceDischarge(slot BatterySlot, on bool) error {
	switch c.methods.Discharge {
	case NativeACPI, VendorSMAPI:
		v := 0
		if on {
			v = 1
		}
		return c.hw.WriteInt(slot.DischargePath, v)
	case VendorACPICall:
		return acpiCallSetForceDischarge(c.hw, slot.Index, on)
	case None:
		return errors.Wrap(ErrNoMethod, "force discharge")
	default:
		return errors.Wrap(ErrNoMethod, "force discharge")
	}
}

func (c *Controller) getForceDischarge(slot BatterySlot) (bool, error) {
	switch c.methods.Discharge {
	case NativeACPI, VendorSMAPI:
		v, err := c.hw.ReadInt(slot.DischargePath)
		return v == 1, err
	case VendorACPICall:
		return acpiCallGetForceDischarge(c.hw, slot.Index)
	case None:
		return false, errors.Wrap(ErrNoMethod, "force discharge")
	default:
		return false, errors.Wrap(ErrNoMethod, "force discharge")
	}
}

// isDischarging reads the charge state through the read backend.
func (c *Controller) isDischarging(slot BatterySlot) (bool, error) {
	status, err := c.chargeStatus(slot)
	if err != nil {
		return false, err
	}
	return status == "discharging", nil
}

// chargeStatus returns the lower-cased raw status string of the battery.
func (c *Controller) chargeStatus(slot BatterySlot) (string, error) {
	switch c.methods.Read {
	case NativeACPI, VendorACPICall:
		s, err := c.hw.ReadString(slot.DataPath + "/status")
		return normalizeStatus(s), err
	case VendorSMAPI:
		s, err := c.hw.ReadString(slot.DataPath + "/state")
		return normalizeStatus(s), err
	case None:
		return "", errors.Wrap(ErrNoMethod, "charge status")
	default:
		return "", errors.Wrap(ErrNoMethod, "charge status")
	}
}
