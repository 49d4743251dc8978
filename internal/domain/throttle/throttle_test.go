package throttle_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mtgrater/mtgrater/internal/domain/throttle"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFingerprint(t *testing.T) {
	Convey("Given submission components", t, func() {
		Convey("When deriving fingerprints", func() {
			a := throttle.Fingerprint("1.2.3.4", "mh2", "MH2", "123", "modern")
			b := throttle.Fingerprint("1.2.3.4", "mh2", "MH2", "123", "modern")
			c := throttle.Fingerprint("1.2.3.4", "mh2", "MH2", "124", "modern")

			Convey("Then equal inputs map to equal keys", func() {
				So(a, ShouldEqual, b)
			})

			Convey("And different tuples map to different keys", func() {
				So(a, ShouldNotEqual, c)
			})

			Convey("And adjacent components cannot collide by concatenation", func() {
				x := throttle.Fingerprint("1.2.3.4", "mh2M", "H2", "123", "modern")
				So(a, ShouldNotEqual, x)
			})
		})
	})
}

func TestLRUGateCeiling(t *testing.T) {
	Convey("Given a gate with a ceiling of 3", t, func() {
		g := throttle.NewLRUGate(
			throttle.WithCapacity(100),
			throttle.WithCeiling(3),
		)
		ctx := context.Background()

		Convey("When a fingerprint is admitted up to the ceiling", func() {
			fp := throttle.Fingerprint("10.0.0.1", "mh2", "MH2", "1", "modern")
			for i := 0; i < 3; i++ {
				So(g.Admit(ctx, fp), ShouldBeTrue)
			}

			Convey("Then further attempts are rejected", func() {
				So(g.Admit(ctx, fp), ShouldBeFalse)
				So(g.Admit(ctx, fp), ShouldBeFalse)
			})

			Convey("And other fingerprints are unaffected", func() {
				other := throttle.Fingerprint("10.0.0.2", "mh2", "MH2", "1", "modern")
				So(g.Admit(ctx, other), ShouldBeTrue)
			})
		})
	})
}

func TestLRUGateEviction(t *testing.T) {
	Convey("Given a gate with capacity 5 and ceiling 1", t, func() {
		g := throttle.NewLRUGate(
			throttle.WithCapacity(5),
			throttle.WithCeiling(1),
		)
		ctx := context.Background()

		Convey("When a fingerprint reaches its ceiling", func() {
			So(g.Admit(ctx, "victim"), ShouldBeTrue)
			So(g.Admit(ctx, "victim"), ShouldBeFalse)

			Convey("And enough distinct fingerprints pass to evict it", func() {
				for i := 0; i < 5; i++ {
					So(g.Admit(ctx, fmt.Sprintf("fp-%d", i)), ShouldBeTrue)
				}

				Convey("Then the evicted fingerprint restarts its count", func() {
					So(g.Admit(ctx, "victim"), ShouldBeTrue)
				})
			})
		})

		Convey("When more fingerprints than capacity are admitted", func() {
			for i := 0; i < 10; i++ {
				g.Admit(ctx, fmt.Sprintf("fp-%d", i))
			}

			Convey("Then the gate stays within its bound", func() {
				So(g.Len(), ShouldBeLessThanOrEqualTo, 5)
			})
		})
	})
}

func TestLRUGateConcurrency(t *testing.T) {
	Convey("Given a gate shared by concurrent submitters", t, func() {
		g := throttle.NewLRUGate(
			throttle.WithCapacity(1000),
			throttle.WithCeiling(4),
		)
		ctx := context.Background()

		Convey("When many goroutines admit at once", func() {
			var wg sync.WaitGroup
			for w := 0; w < 16; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						g.Admit(ctx, fmt.Sprintf("fp-%d-%d", w, i%50))
					}
				}(w)
			}
			wg.Wait()

			Convey("Then the gate neither panics nor exceeds its bound", func() {
				So(g.Len(), ShouldBeLessThanOrEqualTo, 1000)
			})
		})
	})
}

func TestGateDefaults(t *testing.T) {
	Convey("Given a gate built with no options", t, func() {
		g := throttle.NewLRUGate()

		Convey("Then it admits a fresh fingerprint", func() {
			So(g.Admit(context.Background(), "fp"), ShouldBeTrue)
			So(g.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given non-positive option values", t, func() {
		g := throttle.NewLRUGate(
			throttle.WithCapacity(0),
			throttle.WithCeiling(-1),
		)

		Convey("Then defaults are kept", func() {
			So(g.Admit(context.Background(), "fp"), ShouldBeTrue)
		})
	})
}
