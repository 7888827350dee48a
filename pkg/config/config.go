package config

// Config is the configuration surface consumed by charge control.
// Threshold values are kept raw: parsing and clamping is the threshold
// controller's job, and an absent key must stay distinguishable from 0
// (the factory-default sentinel).
type Config interface {
	NativeEnabled() bool
	ACPICallEnabled() bool
	SMAPIEnabled() bool

	// StartThreshold and StopThreshold return the configured raw value for
	// a battery label, or "" when not configured.
	StartThreshold(label string) string
	StopThreshold(label string) string

	// Load reads the configuration from the source.
	Load() error
}
