package app

import (
	"github.com/mtgrater/mtgrater/internal/adapters/scryfall"
	"github.com/mtgrater/mtgrater/internal/domain/throttle"
	"github.com/mtgrater/mtgrater/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGate injects an admission gate, bypassing the default construction.
func WithGate(g throttle.Gate) Option {
	return func(s *Service) {
		if g != nil {
			s.gate = g
		}
	}
}

// WithGateCapacity bounds the default gate's fingerprint cache.
func WithGateCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.gateCapacity = capacity
		}
	}
}

// WithNewCardCeiling sets the plausibility threshold for backfilling card
// codes in releasing collections.
func WithNewCardCeiling(ceiling int) Option {
	return func(s *Service) {
		if ceiling > 0 {
			s.newCardCeiling = ceiling
		}
	}
}

// WithFetcher sets the catalog lookup used for seeding.
func WithFetcher(f scryfall.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSeedWorkers sets the number of concurrent seeding workers.
func WithSeedWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seedWorkers = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
