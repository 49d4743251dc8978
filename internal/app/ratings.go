package app

import (
	"context"
	"fmt"

	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
)

// Counts holds the five rating buckets of one (card, format) pair.
type Counts struct {
	Rated1 int32 `json:"rated_1"`
	Rated2 int32 `json:"rated_2"`
	Rated3 int32 `json:"rated_3"`
	Rated4 int32 `json:"rated_4"`
	Rated5 int32 `json:"rated_5"`
}

// CardRatings groups one card's counters across formats.
type CardRatings struct {
	SetCode        string            `json:"set_code"`
	CardCode       string            `json:"card_code"`
	RatingByFormat map[string]Counts `json:"rating_by_format"`
}

// RatingsView is the full read response for one collection.
type RatingsView struct {
	CollectionID string             `json:"collection_id"`
	Collection   catalog.Collection `json:"collection_info"`
	Ratings      []CardRatings      `json:"ratings"`
}

// Ratings returns every rated card of a collection in display order.
func (s *Service) Ratings(ctx context.Context, collectionID string) (RatingsView, error) {
	coll, ok := s.index.Collection(collectionID)
	if !ok {
		return RatingsView{}, fmt.Errorf("%w: %s", catalog.ErrUnknownCollection, collectionID)
	}

	rows, err := s.store.Ratings(ctx, collectionID, coll.SetOrder)
	if err != nil {
		return RatingsView{}, err
	}

	return RatingsView{
		CollectionID: collectionID,
		Collection:   coll,
		Ratings:      groupByCard(rows),
	}, nil
}

// groupByCard folds store rows into per-card groups. Rows arrive sorted with
// a card's formats adjacent, so comparing against the last group suffices
// and the store's ordering is preserved.
func groupByCard(rows []repository.Entry) []CardRatings {
	out := make([]CardRatings, 0, len(rows))
	for _, row := range rows {
		counts := Counts{
			Rated1: row.Rated1,
			Rated2: row.Rated2,
			Rated3: row.Rated3,
			Rated4: row.Rated4,
			Rated5: row.Rated5,
		}
		if n := len(out); n > 0 && out[n-1].SetCode == row.SetCode && out[n-1].CardCode == row.CardCode {
			out[n-1].RatingByFormat[row.FormatID] = counts
			continue
		}
		out = append(out, CardRatings{
			SetCode:        row.SetCode,
			CardCode:       row.CardCode,
			RatingByFormat: map[string]Counts{row.FormatID: counts},
		})
	}
	return out
}
