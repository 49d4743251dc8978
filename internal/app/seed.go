package app

import (
	"context"
	"sync"
	"time"

	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
	"github.com/mtgrater/mtgrater/pkg/logger"
	"github.com/mtgrater/mtgrater/pkg/metrics"
)

type seedJob struct {
	id   string
	coll catalog.Collection
}

// SeedCatalog resolves every collection's card list from the external
// catalog and registers the rows this service rates. Inserts ignore
// conflicts, so reseeding an existing database is safe. Collections are
// fetched by a small worker pool; one failing collection does not stop the
// others, and the first error is returned once the pool drains.
func (s *Service) SeedCatalog(ctx context.Context) error {
	if s.fetcher == nil {
		return ErrNoFetcher
	}

	doc := s.index.Document()
	jobs := make(chan seedJob, len(doc.Entries))
	for id, coll := range doc.Entries {
		jobs <- seedJob{id: id, coll: coll}
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for w := 0; w < s.seedWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := s.seedCollection(ctx, job.id, job.coll); err != nil {
					s.log.Error(ctx, "seeding collection failed",
						logger.String("collection", job.id),
						logger.Error(err),
					)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	return firstErr
}

func (s *Service) seedCollection(ctx context.Context, id string, coll catalog.Collection) error {
	start := time.Now()

	found, err := s.fetcher.Cards(ctx, coll.Query)
	if err != nil {
		return err
	}

	cards := make([]repository.Card, len(found))
	refs := make([]repository.CardRef, len(found))
	for i, c := range found {
		cards[i] = repository.Card{SetCode: c.SetCode, CardCode: c.CardCode, Name: c.Name}
		refs[i] = repository.CardRef{SetCode: c.SetCode, CardCode: c.CardCode}
	}

	if err := s.store.InsertCards(ctx, cards); err != nil {
		return err
	}
	for _, formatID := range s.index.RatingFormats(id) {
		if err := s.store.InsertEntries(ctx, id, formatID, refs); err != nil {
			return err
		}
	}

	metrics.RecordSeedCards(len(found))
	metrics.RecordSeedDuration(float64(time.Since(start).Milliseconds()))
	s.log.Info(ctx, "seeded collection",
		logger.String("collection", id),
		logger.Int("cards", len(found)),
	)
	return nil
}
