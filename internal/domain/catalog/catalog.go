// Package catalog holds the process-wide view of rateable collections and
// formats. The index is built once at startup and never mutated afterwards;
// adding a collection is an edit-and-restart operation.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed collections.yaml
var defaultDocument []byte

// Collection describes one rateable grouping of cards.
type Collection struct {
	// Title is the display name shown to clients.
	Title string `koanf:"title" json:"title"`

	// Query is the upstream catalog search used only at seeding time.
	Query string `koanf:"query" json:"query"`

	// SetOrder lists set codes in display order; it doubles as the
	// tie-break key for ratings queries.
	SetOrder []string `koanf:"set_order" json:"set_order"`

	// ExcludedFormats names formats this collection is not rated in.
	ExcludedFormats []string `koanf:"excluded_formats" json:"excluded_formats"`

	// Releasing marks a collection still gaining new cards, which enables
	// on-demand backfill of unknown tuples.
	Releasing bool `koanf:"releasing" json:"releasing"`
}

// Document is the parsed collections file.
type Document struct {
	Latest  string                `koanf:"latest" json:"latest"`
	Formats []string              `koanf:"formats" json:"formats"`
	Entries map[string]Collection `koanf:"entries" json:"entries"`
}

// Index is the immutable runtime view over a Document.
type Index struct {
	doc     Document
	formats map[string]struct{}
}

// Load reads and validates a collections document. An empty path loads the
// embedded default.
func Load(_ context.Context, path string) (*Index, error) {
	k := koanf.New(".")
	if path == "" {
		if err := k.Load(rawbytes.Provider(defaultDocument), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse embedded collections: %w", err)
		}
	} else {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read collections file %s: %w", path, err)
		}
	}

	var doc Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal collections: %w", err)
	}
	return NewIndex(doc)
}

// NewIndex validates doc and builds an Index over it.
func NewIndex(doc Document) (*Index, error) {
	if len(doc.Formats) == 0 {
		return nil, fmt.Errorf("%w: no formats", ErrInvalidDocument)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("%w: no collections", ErrInvalidDocument)
	}

	formats := make(map[string]struct{}, len(doc.Formats))
	for _, f := range doc.Formats {
		formats[f] = struct{}{}
	}

	for id, c := range doc.Entries {
		if c.Title == "" {
			return nil, fmt.Errorf("%w: collection %s has no title", ErrInvalidDocument, id)
		}
		if len(c.SetOrder) == 0 {
			return nil, fmt.Errorf("%w: collection %s has an empty set order", ErrInvalidDocument, id)
		}
		for _, f := range c.ExcludedFormats {
			if _, ok := formats[f]; !ok {
				return nil, fmt.Errorf("%w: collection %s excludes unknown format %s", ErrInvalidDocument, id, f)
			}
		}
	}

	if doc.Latest != "" {
		if _, ok := doc.Entries[doc.Latest]; !ok {
			return nil, fmt.Errorf("%w: latest points at unknown collection %s", ErrInvalidDocument, doc.Latest)
		}
	}

	return &Index{doc: doc, formats: formats}, nil
}

// Collection returns the collection registered under id.
func (i *Index) Collection(id string) (Collection, bool) {
	c, ok := i.doc.Entries[id]
	return c, ok
}

// IsKnownFormat reports whether id names a configured format.
func (i *Index) IsKnownFormat(id string) bool {
	_, ok := i.formats[id]
	return ok
}

// FormatCount returns the number of configured formats. The admission gate
// uses it as the per-fingerprint attempt ceiling.
func (i *Index) FormatCount() int {
	return len(i.doc.Formats)
}

// Formats returns the configured formats in document order.
func (i *Index) Formats() []string {
	out := make([]string, len(i.doc.Formats))
	copy(out, i.doc.Formats)
	return out
}

// RatingFormats returns the formats collectionID is rated in: the configured
// formats minus the collection's exclusions, order preserved.
func (i *Index) RatingFormats(collectionID string) []string {
	c, ok := i.doc.Entries[collectionID]
	if !ok {
		return nil
	}
	excluded := make(map[string]struct{}, len(c.ExcludedFormats))
	for _, f := range c.ExcludedFormats {
		excluded[f] = struct{}{}
	}
	out := make([]string, 0, len(i.doc.Formats))
	for _, f := range i.doc.Formats {
		if _, skip := excluded[f]; !skip {
			out = append(out, f)
		}
	}
	return out
}

// InSetOrder reports whether setCode appears in collectionID's set order.
func (i *Index) InSetOrder(collectionID, setCode string) bool {
	c, ok := i.doc.Entries[collectionID]
	if !ok {
		return false
	}
	for _, s := range c.SetOrder {
		if s == setCode {
			return true
		}
	}
	return false
}

// Latest returns the id of the collection flagged as most recent.
func (i *Index) Latest() string {
	return i.doc.Latest
}

// Document returns a copy of the underlying document for read-only export.
func (i *Index) Document() Document {
	entries := make(map[string]Collection, len(i.doc.Entries))
	for id, c := range i.doc.Entries {
		entries[id] = c
	}
	return Document{
		Latest:  i.doc.Latest,
		Formats: i.Formats(),
		Entries: entries,
	}
}

// Size returns the number of collections in the index.
func (i *Index) Size() int {
	return len(i.doc.Entries)
}
