package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mtgrater/mtgrater/internal/domain/rating"
	"github.com/mtgrater/mtgrater/pkg/metrics"
)

const insertBatchSize = 500

// PostgresStore implements Store on a gorm connection.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps db in a Store.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates or updates the ratings and cards tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Entry{}, &Card{})
}

// IncrementRating implements Store.
func (s *PostgresStore) IncrementRating(ctx context.Context, collectionID, formatID, setCode, cardCode string, v rating.Value) (int64, error) {
	col := v.Column()
	if col == "" {
		return 0, fmt.Errorf("%w: %d", ErrBadValue, v)
	}

	start := time.Now()
	// The counter column comes from rating.Value, never from input.
	res := s.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE ratings SET %s = %s + 1
	WHERE collection_id = ? AND format_id = ? AND set_code = ? AND card_code = ?`, col, col),
		collectionID, formatID, setCode, cardCode,
	)
	metrics.RecordStoreLatency("increment", float64(time.Since(start).Milliseconds()))

	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrIncrement, res.Error)
	}
	return res.RowsAffected, nil
}

// InsertEntries implements Store.
func (s *PostgresStore) InsertEntries(ctx context.Context, collectionID, formatID string, refs []CardRef) error {
	if len(refs) == 0 {
		return nil
	}

	rows := make([]Entry, len(refs))
	for i, ref := range refs {
		rows[i] = Entry{
			CollectionID: collectionID,
			SetCode:      ref.SetCode,
			CardCode:     ref.CardCode,
			FormatID:     formatID,
		}
	}

	start := time.Now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, insertBatchSize).Error
	metrics.RecordStoreLatency("insert_entries", float64(time.Since(start).Milliseconds()))

	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsert, err)
	}
	return nil
}

// InsertCards implements Store.
func (s *PostgresStore) InsertCards(ctx context.Context, cards []Card) error {
	if len(cards) == 0 {
		return nil
	}

	start := time.Now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(cards, insertBatchSize).Error
	metrics.RecordStoreLatency("insert_cards", float64(time.Since(start).Milliseconds()))

	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsert, err)
	}
	return nil
}

// Ratings implements Store.
func (s *PostgresStore) Ratings(ctx context.Context, collectionID string, setOrder []string) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT collection_id, set_code, card_code, format_id,
	rated_1, rated_2, rated_3, rated_4, rated_5
	FROM ratings
	WHERE collection_id = ?
	ORDER BY %sset_code, card_code, format_id`, SetOrderExpr(setOrder))

	start := time.Now()
	var rows []Entry
	err := s.db.WithContext(ctx).Raw(query, collectionID).Scan(&rows).Error
	metrics.RecordStoreLatency("ratings", float64(time.Since(start).Milliseconds()))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return rows, nil
}
