package power

import "github.com/pkg/errors"

var (
	// ErrNoMethod means no backend resolves the needed capability.
	ErrNoMethod = errors.New("no backend available for the requested capability")
	// ErrNotPresent means the requested battery slot failed its presence check.
	ErrNotPresent = errors.New("battery not present")
	// ErrRead aborts a threshold-write sequence before any write happens.
	ErrRead = errors.New("cannot read current threshold")
	// ErrWrite marks a failed write step; the sequence continues and the
	// first failure becomes the aggregate result.
	ErrWrite = errors.New("threshold write failed")
	// ErrDischargeUnsupported means arming forced discharge failed.
	ErrDischargeUnsupported = errors.New("force discharge not supported")
	// ErrMalfunction means the battery was armed but never started
	// discharging, or the driver failed mid-session.
	ErrMalfunction = errors.New("discharge malfunction")
)
