package main

import (
	"time"

	"chargectl/pkg/config"
	"chargectl/pkg/lockfile"
	"chargectl/pkg/power"
)

// lockTimeout bounds how long an interactive command waits for the run
// lock before giving up.
var lockTimeout = 5 * time.Second

// newController loads the configuration, probes the backends once and
// returns a controller bound to the resolved methods. Detection runs
// fresh on every invocation because module state can change between runs.
func newController() (*power.Controller, power.Detection, config.Config, error) {
	cfg, err := config.NewFile(configPath)
	if err != nil {
		return nil, power.Detection{}, nil, err
	}

	hw := power.NewHardware()
	det := power.Detect(hw, power.Flags{
		NativeEnabled:   cfg.NativeEnabled(),
		ACPICallEnabled: cfg.ACPICallEnabled(),
		SMAPIEnabled:    cfg.SMAPIEnabled(),
	})

	return power.NewController(hw, det.Methods), det, cfg, nil
}

// withRunLock runs fn while holding the inter-process run lock. Every
// hardware-mutating command goes through here, detection included: the
// wrapper-tool probe issues an ACPI call, so it must not interleave with
// another invocation's writes.
func withRunLock(fn func() error) error {
	lock := lockfile.New(lockPath)
	if err := lock.Acquire(lockTimeout); err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	return fn()
}

func batteryArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}
