// Package throttle defines the admission gate guarding rating submissions.
package throttle

type gateConfig struct {
	capacity int
	ceiling  int
}

// Option applies a configuration option to the gate.
type Option func(*gateConfig)

// WithCapacity bounds the number of fingerprints tracked at once.
// Values below one are ignored.
func WithCapacity(capacity int) Option {
	return func(c *gateConfig) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithCeiling sets the admitted-attempt ceiling per fingerprint. The service
// wires this to the number of known formats: a generous multi-format bound,
// not a literal per-format quota.
func WithCeiling(ceiling int) Option {
	return func(c *gateConfig) {
		if ceiling > 0 {
			c.ceiling = ceiling
		}
	}
}
