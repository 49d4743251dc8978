// Package repository persists rating counters and the card catalog.
package repository

import (
	"context"

	"github.com/mtgrater/mtgrater/internal/domain/rating"
)

// Entry is one ratings row: a (collection, set, card, format) tuple with its
// five counter buckets.
type Entry struct {
	CollectionID string `gorm:"column:collection_id;primaryKey;size:64" json:"collection_id"`
	SetCode      string `gorm:"column:set_code;primaryKey;size:16" json:"set_code"`
	CardCode     string `gorm:"column:card_code;primaryKey;size:32" json:"card_code"`
	FormatID     string `gorm:"column:format_id;primaryKey;size:64" json:"format_id"`

	Rated1 int32 `gorm:"column:rated_1;not null;default:0" json:"rated_1"`
	Rated2 int32 `gorm:"column:rated_2;not null;default:0" json:"rated_2"`
	Rated3 int32 `gorm:"column:rated_3;not null;default:0" json:"rated_3"`
	Rated4 int32 `gorm:"column:rated_4;not null;default:0" json:"rated_4"`
	Rated5 int32 `gorm:"column:rated_5;not null;default:0" json:"rated_5"`
}

// TableName implements gorm's table naming override.
func (Entry) TableName() string { return "ratings" }

// Card is a catalog row carrying the card's display name.
type Card struct {
	SetCode  string `gorm:"column:set_code;primaryKey;size:16" json:"set_code"`
	CardCode string `gorm:"column:card_code;primaryKey;size:32" json:"card_code"`
	Name     string `gorm:"column:card_name;size:256" json:"name"`
}

// TableName implements gorm's table naming override.
func (Card) TableName() string { return "cards" }

// CardRef addresses one card within a collection.
type CardRef struct {
	SetCode  string
	CardCode string
}

// Store provides the persistence operations used by the rating engine.
type Store interface {
	// IncrementRating bumps one counter on the row matching the full
	// four-part key and returns the number of rows affected. Zero rows is
	// the signal that the tuple is unknown; it is not an error.
	IncrementRating(ctx context.Context, collectionID, formatID, setCode, cardCode string, v rating.Value) (int64, error)

	// InsertEntries registers zeroed rating rows for refs under one
	// collection and format. Existing rows are left untouched, so the call
	// is safe to race with itself and with increments.
	InsertEntries(ctx context.Context, collectionID, formatID string, refs []CardRef) error

	// InsertCards registers card names, ignoring conflicts.
	InsertCards(ctx context.Context, cards []Card) error

	// Ratings returns every row of a collection ordered by each set code's
	// position in setOrder, then set code, card code and format id. Codes
	// absent from setOrder sort after all listed ones.
	Ratings(ctx context.Context, collectionID string, setOrder []string) ([]Entry, error)
}
