package curvefit_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pptally/internal/domain/curvefit"
)

// sample generates noiseless scores from b0 + b1/n for n = 1..size.
func sample(b0, b1 float64, size int) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = b0 + b1/float64(i+1)
	}
	return out
}

func TestFit(t *testing.T) {
	Convey("Given the default fitter", t, func() {
		fitter := curvefit.New()

		Convey("When fitting a noiseless reciprocal sample", func() {
			params, err := fitter.Fit(sample(5, 10, 150))

			Convey("Then the parameters are recovered exactly", func() {
				So(err, ShouldBeNil)
				So(params.B0, ShouldAlmostEqual, 5, 1e-6)
				So(params.B1, ShouldAlmostEqual, 10, 1e-6)
			})
		})

		Convey("When fitting a constant sample", func() {
			params, err := fitter.Fit(sample(42, 0, 120))

			Convey("Then the reciprocal term vanishes", func() {
				So(err, ShouldBeNil)
				So(params.B0, ShouldAlmostEqual, 42, 1e-6)
				So(params.B1, ShouldAlmostEqual, 0, 1e-6)
			})
		})

		Convey("When the sample is empty", func() {
			_, err := fitter.Fit(nil)

			Convey("Then fitting fails fast", func() {
				So(errors.Is(err, curvefit.ErrEmptySample), ShouldBeTrue)
			})
		})

		Convey("When the sample has a single score", func() {
			// With one rank the columns 1 and 1/n coincide and the
			// normal-equations matrix is singular.
			_, err := fitter.Fit([]float64{100})

			Convey("Then the degenerate matrix is reported, not NaN", func() {
				So(errors.Is(err, curvefit.ErrDegenerateFit), ShouldBeTrue)
			})
		})

		Convey("When a score is not finite", func() {
			scores := sample(5, 10, 150)
			scores[37] = math.NaN()
			_, err := fitter.Fit(scores)

			Convey("Then the input is rejected at the boundary", func() {
				So(errors.Is(err, curvefit.ErrNonFiniteScore), ShouldBeTrue)
			})
		})
	})

	Convey("Given a single-iteration fitter", t, func() {
		// The model is linear in its parameters, so one Gauss-Newton step
		// already lands on the least-squares solution; the historical
		// 1000-iteration loop only adds floating-point noise.
		one := curvefit.New(curvefit.WithIterations(1))
		full := curvefit.New()

		Convey("When both fit the same sample", func() {
			scores := sample(7, 3, 140)
			p1, err1 := one.Fit(scores)
			p2, err2 := full.Fit(scores)

			Convey("Then the results agree", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(p1.B0, ShouldAlmostEqual, p2.B0, 1e-6)
				So(p1.B1, ShouldAlmostEqual, p2.B1, 1e-6)
			})
		})
	})
}

func TestParamsAt(t *testing.T) {
	Convey("Given fitted parameters", t, func() {
		p := curvefit.Params{B0: 5, B1: 10}

		Convey("Then At evaluates the model at 1-based ranks", func() {
			So(p.At(1), ShouldAlmostEqual, 15, 1e-12)
			So(p.At(2), ShouldAlmostEqual, 10, 1e-12)
			So(p.At(10), ShouldAlmostEqual, 6, 1e-12)
		})
	})
}
