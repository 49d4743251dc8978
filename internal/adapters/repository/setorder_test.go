package repository_test

import (
	"testing"

	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSetOrderExpr(t *testing.T) {
	Convey("Given set display orders", t, func() {
		Convey("When compiling a two-set order", func() {
			expr := repository.SetOrderExpr([]string{"NEO", "SNC"})

			Convey("Then listed codes rank by position and the rest sort last", func() {
				So(expr, ShouldEqual, "(case set_code when 'NEO' then 0 when 'SNC' then 1 else 2 end), ")
			})
		})

		Convey("When compiling an empty order", func() {
			Convey("Then the fragment is empty so later sort keys still apply", func() {
				So(repository.SetOrderExpr(nil), ShouldEqual, "")
				So(repository.SetOrderExpr([]string{}), ShouldEqual, "")
			})
		})

		Convey("When a set code carries a single quote", func() {
			expr := repository.SetOrderExpr([]string{"O'TJ"})

			Convey("Then the quote is doubled", func() {
				So(expr, ShouldEqual, "(case set_code when 'O''TJ' then 0 else 1 end), ")
			})
		})
	})
}
