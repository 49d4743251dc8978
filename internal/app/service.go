// Package app wires the rating engine: the admission gate, catalog index and
// rating store behind one service consumed by the HTTP API.
package app

import (
	"context"

	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	"github.com/mtgrater/mtgrater/internal/adapters/scryfall"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
	"github.com/mtgrater/mtgrater/internal/domain/throttle"
	"github.com/mtgrater/mtgrater/pkg/logger"
	"github.com/mtgrater/mtgrater/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultGateCapacity   = 20000
	defaultNewCardCeiling = 1000
	defaultSeedWorkers    = 4
)

// Service implements rating submission, reads and catalog seeding.
type Service struct {
	index *catalog.Index
	store repository.Store
	gate  throttle.Gate

	fetcher scryfall.Fetcher

	gateCapacity   int
	newCardCeiling int
	seedWorkers    int

	log logger.Logger
}

// New constructs a Service over index and store. The gate's attempt ceiling
// is the catalog's format count unless a gate is injected.
func New(index *catalog.Index, store repository.Store, opts ...Option) *Service {
	s := &Service{
		index:          index,
		store:          store,
		gateCapacity:   defaultGateCapacity,
		newCardCeiling: defaultNewCardCeiling,
		seedWorkers:    defaultSeedWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Named("app")
	}
	if s.gate == nil {
		s.gate = throttle.NewLRUGate(
			throttle.WithCapacity(s.gateCapacity),
			throttle.WithCeiling(index.FormatCount()),
		)
	}

	metrics.UpdateCatalogCollections(index.Size())
	return s
}

// Collections returns the full catalog document for read-only export.
func (s *Service) Collections(_ context.Context) catalog.Document {
	return s.index.Document()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"collections":      s.index.Size(),
		"formats":          s.index.FormatCount(),
		"latest":           s.index.Latest(),
		"gateFingerprints": s.gate.Len(),
		"gateCapacity":     s.gateCapacity,
		"newCardCeiling":   s.newCardCeiling,
	}
}
