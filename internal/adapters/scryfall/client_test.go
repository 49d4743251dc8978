package scryfall_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtgrater/mtgrater/internal/adapters/scryfall"
	"github.com/mtgrater/mtgrater/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func pagedServer(pages map[int]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		var n int
		fmt.Sscanf(page, "%d", &n)
		body, ok := pages[n]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"object":"error","code":"not_found"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestCardsPaging(t *testing.T) {
	Convey("Given a paginated search result", t, func() {
		srv := pagedServer(map[int]any{
			1: map[string]any{
				"data": []map[string]string{
					{"set": "mh2", "name": "Ragavan", "collector_number": "138"},
					{"set": "mh2", "name": "Grief", "collector_number": "87"},
				},
				"has_more": true,
			},
			2: map[string]any{
				"data": []map[string]string{
					{"set": "mh2", "name": "Grief", "collector_number": "87"}, // repeated across pages
					{"set": "h2r", "name": "Ragavan", "collector_number": "1"},
				},
				"has_more": false,
			},
		})
		defer srv.Close()

		c := scryfall.NewClient(
			scryfall.WithBaseURL(srv.URL),
			scryfall.WithPageDelay(0),
		)

		Convey("When fetching all cards", func() {
			cards, err := c.Cards(context.Background(), "e%3Amh2")

			Convey("Then pages are walked and duplicates dropped", func() {
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, 3)
				So(cards[0].CardCode, ShouldEqual, "138")
				So(cards[0].SetCode, ShouldEqual, "mh2")
			})
		})
	})
}

func TestCardsEndConditions(t *testing.T) {
	Convey("Given an empty page mid-scan", t, func() {
		srv := pagedServer(map[int]any{
			1: map[string]any{
				"data":     []map[string]string{{"set": "neo", "name": "X", "collector_number": "1"}},
				"has_more": true,
			},
			2: map[string]any{"data": []map[string]string{}, "has_more": false},
		})
		defer srv.Close()

		c := scryfall.NewClient(scryfall.WithBaseURL(srv.URL), scryfall.WithPageDelay(0))

		Convey("When fetching", func() {
			cards, err := c.Cards(context.Background(), "e%3Aneo")

			Convey("Then the scan ends cleanly", func() {
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a query with no results at all", t, func() {
		srv := pagedServer(map[int]any{})
		defer srv.Close()

		c := scryfall.NewClient(scryfall.WithBaseURL(srv.URL), scryfall.WithPageDelay(0))

		Convey("When fetching", func() {
			cards, err := c.Cards(context.Background(), "e%3Anope")

			Convey("Then the not-found answer yields an empty list, not an error", func() {
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, 0)
			})
		})
	})
}

func TestCardsServerError(t *testing.T) {
	Convey("Given an upstream failure", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := scryfall.NewClient(scryfall.WithBaseURL(srv.URL), scryfall.WithPageDelay(0))

		Convey("When fetching", func() {
			_, err := c.Cards(context.Background(), "e%3Amh2")

			Convey("Then the error carries the lookup kind", func() {
				So(err, ShouldWrap, scryfall.ErrFetch)
			})
		})
	})
}

func TestCardsContextCancel(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		srv := pagedServer(map[int]any{})
		defer srv.Close()

		c := scryfall.NewClient(scryfall.WithBaseURL(srv.URL), scryfall.WithPageDelay(0))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When fetching", func() {
			_, err := c.Cards(ctx, "e%3Amh2")

			Convey("Then the call fails fast", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
