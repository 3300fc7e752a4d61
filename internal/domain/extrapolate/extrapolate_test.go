package extrapolate_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pptally/internal/domain/curvefit"
	"pptally/internal/domain/extrapolate"
	"pptally/internal/domain/rankweight"
)

func TestTail(t *testing.T) {
	Convey("Given the default estimator", t, func() {
		est := extrapolate.New()

		Convey("When the sample is below the fit threshold", func() {
			tail := est.Tail(curvefit.Params{B0: 100, B1: 50}, 99, 1_000_000)

			Convey("Then the tail is exactly zero", func() {
				So(tail, ShouldEqual, 0)
			})
		})

		Convey("When playcount leaves a single candidate rank", func() {
			tail := est.Tail(curvefit.Params{B0: 1, B1: 0}, 100, 101)

			Convey("Then exactly one decayed term is summed", func() {
				So(tail, ShouldAlmostEqual, math.Pow(0.95, 101), 1e-12)
			})
		})

		Convey("When playcount equals the sample size", func() {
			tail := est.Tail(curvefit.Params{B0: 1, B1: 0}, 100, 100)

			Convey("Then there is nothing to extrapolate", func() {
				So(tail, ShouldEqual, 0)
			})
		})

		Convey("When the model is a positive constant", func() {
			p := curvefit.Params{B0: 10, B1: 0}

			Convey("Then per-rank terms strictly decrease", func() {
				// Only the decay factor varies, so each successive
				// candidate rank must contribute strictly less.
				prev := math.Inf(1)
				for playcount := 101; playcount <= 160; playcount++ {
					term := est.Tail(p, 100, playcount) - est.Tail(p, 100, playcount-1)
					So(term, ShouldBeGreaterThan, 0)
					So(term, ShouldBeLessThan, prev)
					prev = term
				}
			})
		})

		Convey("When the first prediction is already negative", func() {
			tail := est.Tail(curvefit.Params{B0: -5, B1: 0}, 100, 100_000)

			Convey("Then nothing is summed", func() {
				So(tail, ShouldEqual, 0)
			})
		})

		Convey("When the model crosses zero inside the range", func() {
			// -0.002 + 1/n turns negative past n = 500; everything after
			// the crossing must be ignored for good.
			p := curvefit.Params{B0: -0.002, B1: 1}
			truncated := est.Tail(p, 100, 600)
			extended := est.Tail(p, 100, 1_000_000)

			Convey("Then the walk stops at the crossing", func() {
				So(truncated, ShouldBeGreaterThan, 0)
				So(extended, ShouldAlmostEqual, truncated, 1e-12)
			})
		})
	})

	Convey("Given a small-fixture estimator", t, func() {
		est := extrapolate.New(
			extrapolate.WithMinSample(5),
			extrapolate.WithScheme(rankweight.New(rankweight.WithDecay(0.5))))

		Convey("When extrapolating past a tiny sample", func() {
			tail := est.Tail(curvefit.Params{B0: 8, B1: 0}, 5, 7)

			Convey("Then the custom decay applies per rank", func() {
				So(tail, ShouldAlmostEqual, 8*math.Pow(0.5, 6)+8*math.Pow(0.5, 7), 1e-12)
			})
		})
	})
}
