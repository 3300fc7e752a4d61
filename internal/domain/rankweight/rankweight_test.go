package rankweight_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pptally/internal/domain/rankweight"
)

func TestWeight(t *testing.T) {
	Convey("Given the default weighting scheme", t, func() {
		s := rankweight.New()

		Convey("Then the top play has weight 1.0", func() {
			So(s.Weight(0), ShouldEqual, 1.0)
		})

		Convey("Then each rank decays by the factor from the previous one", func() {
			for rank := 1; rank < 200; rank++ {
				So(s.Weight(rank), ShouldAlmostEqual, 0.95*s.Weight(rank-1), 1e-12)
			}
		})
	})

	Convey("Given a custom decay factor", t, func() {
		s := rankweight.New(rankweight.WithDecay(0.5))

		Convey("Then weights follow it", func() {
			So(s.Decay(), ShouldEqual, 0.5)
			So(s.Weight(3), ShouldAlmostEqual, 0.125, 1e-12)
		})
	})

	Convey("Given an out-of-range decay option", t, func() {
		s := rankweight.New(rankweight.WithDecay(1.5))

		Convey("Then the default is kept", func() {
			So(s.Decay(), ShouldEqual, rankweight.DefaultDecay)
		})
	})
}

func TestWeightedSum(t *testing.T) {
	Convey("Given the default weighting scheme", t, func() {
		s := rankweight.New()

		Convey("When summing an empty sequence", func() {
			sum, err := s.WeightedSum(nil)

			Convey("Then the sum is zero", func() {
				So(err, ShouldBeNil)
				So(sum, ShouldEqual, 0)
			})
		})

		Convey("When summing zeros", func() {
			sum, err := s.WeightedSum(make([]float64, 50))

			Convey("Then the sum is zero", func() {
				So(err, ShouldBeNil)
				So(sum, ShouldEqual, 0)
			})
		})

		Convey("When summing a single score", func() {
			sum, err := s.WeightedSum([]float64{123.4})

			Convey("Then the score passes through unweighted", func() {
				So(err, ShouldBeNil)
				So(sum, ShouldEqual, 123.4)
			})
		})

		Convey("When summing a known sequence", func() {
			sum, err := s.WeightedSum([]float64{100, 90, 80})

			Convey("Then positions determine the weights", func() {
				So(err, ShouldBeNil)
				So(sum, ShouldAlmostEqual, 100+90*0.95+80*0.9025, 1e-9)
			})
		})

		Convey("When the order changes", func() {
			asc, err1 := s.WeightedSum([]float64{80, 90, 100})
			desc, err2 := s.WeightedSum([]float64{100, 90, 80})

			Convey("Then the result changes too", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(asc, ShouldNotAlmostEqual, desc, 1e-9)
			})
		})

		Convey("When a score is NaN", func() {
			_, err := s.WeightedSum([]float64{100, math.NaN(), 80})

			Convey("Then the sum is rejected", func() {
				So(errors.Is(err, rankweight.ErrNonFiniteScore), ShouldBeTrue)
			})
		})

		Convey("When a score is infinite", func() {
			_, err := s.WeightedSum([]float64{math.Inf(1)})

			Convey("Then the sum is rejected", func() {
				So(errors.Is(err, rankweight.ErrNonFiniteScore), ShouldBeTrue)
			})
		})
	})
}
