package catalog_test

import (
	"context"
	"testing"

	"github.com/mtgrater/mtgrater/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func testDocument() catalog.Document {
	return catalog.Document{
		Latest:  "draft_otj",
		Formats: []string{"draft", "standard", "modern", "commander"},
		Entries: map[string]catalog.Collection{
			"mh2": {
				Title:     "Modern Horizons 2",
				Query:     "e%3Amh2",
				SetOrder:  []string{"MH2"},
				Releasing: false,
			},
			"draft_otj": {
				Title:           "Outlaws of Thunder Junction Draft",
				Query:           "set%3Aotj",
				SetOrder:        []string{"OTJ", "OTP", "BIG", "SPG"},
				ExcludedFormats: []string{"standard", "modern"},
				Releasing:       true,
			},
		},
	}
}

func TestLoadEmbedded(t *testing.T) {
	Convey("Given the embedded collections document", t, func() {
		idx, err := catalog.Load(context.Background(), "")

		Convey("Then it loads and validates", func() {
			So(err, ShouldBeNil)
			So(idx, ShouldNotBeNil)
			So(idx.FormatCount(), ShouldBeGreaterThan, 0)
			So(idx.Size(), ShouldBeGreaterThan, 0)
		})

		Convey("And the known entries are present", func() {
			_, ok := idx.Collection("mh2")
			So(ok, ShouldBeTrue)
			otj, ok := idx.Collection("draft_otj")
			So(ok, ShouldBeTrue)
			So(otj.Releasing, ShouldBeTrue)
			So(idx.Latest(), ShouldEqual, "draft_otj")
		})
	})

	Convey("Given a missing collections file", t, func() {
		_, err := catalog.Load(context.Background(), "does-not-exist.yaml")

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewIndexValidation(t *testing.T) {
	Convey("Given collection documents", t, func() {
		Convey("When the document is well formed", func() {
			idx, err := catalog.NewIndex(testDocument())
			So(err, ShouldBeNil)
			So(idx, ShouldNotBeNil)
		})

		Convey("When the document has no formats", func() {
			doc := testDocument()
			doc.Formats = nil
			_, err := catalog.NewIndex(doc)
			So(err, ShouldWrap, catalog.ErrInvalidDocument)
		})

		Convey("When a collection has no title", func() {
			doc := testDocument()
			c := doc.Entries["mh2"]
			c.Title = ""
			doc.Entries["mh2"] = c
			_, err := catalog.NewIndex(doc)
			So(err, ShouldWrap, catalog.ErrInvalidDocument)
		})

		Convey("When a collection has an empty set order", func() {
			doc := testDocument()
			c := doc.Entries["mh2"]
			c.SetOrder = nil
			doc.Entries["mh2"] = c
			_, err := catalog.NewIndex(doc)
			So(err, ShouldWrap, catalog.ErrInvalidDocument)
		})

		Convey("When a collection excludes an unknown format", func() {
			doc := testDocument()
			c := doc.Entries["mh2"]
			c.ExcludedFormats = []string{"pauper"}
			doc.Entries["mh2"] = c
			_, err := catalog.NewIndex(doc)
			So(err, ShouldWrap, catalog.ErrInvalidDocument)
		})

		Convey("When latest names an unknown collection", func() {
			doc := testDocument()
			doc.Latest = "nope"
			_, err := catalog.NewIndex(doc)
			So(err, ShouldWrap, catalog.ErrInvalidDocument)
		})
	})
}

func TestIndexLookups(t *testing.T) {
	Convey("Given a built index", t, func() {
		idx, err := catalog.NewIndex(testDocument())
		So(err, ShouldBeNil)

		Convey("Then format lookups behave", func() {
			So(idx.IsKnownFormat("modern"), ShouldBeTrue)
			So(idx.IsKnownFormat("pauper"), ShouldBeFalse)
			So(idx.FormatCount(), ShouldEqual, 4)
		})

		Convey("Then RatingFormats respects exclusions and order", func() {
			So(idx.RatingFormats("mh2"), ShouldResemble, []string{"draft", "standard", "modern", "commander"})
			So(idx.RatingFormats("draft_otj"), ShouldResemble, []string{"draft", "commander"})
			So(idx.RatingFormats("nope"), ShouldBeNil)
		})

		Convey("Then set-order membership works", func() {
			So(idx.InSetOrder("draft_otj", "OTP"), ShouldBeTrue)
			So(idx.InSetOrder("draft_otj", "NEO"), ShouldBeFalse)
			So(idx.InSetOrder("nope", "OTJ"), ShouldBeFalse)
		})

		Convey("Then the exported document is a copy", func() {
			doc := idx.Document()
			doc.Entries["mh2"] = catalog.Collection{Title: "mutated"}
			fresh, _ := idx.Collection("mh2")
			So(fresh.Title, ShouldEqual, "Modern Horizons 2")
		})
	})
}
