package significance

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func correctness(ones, zeros int) []int {
	out := make([]int, 0, ones+zeros)
	for i := 0; i < ones; i++ {
		out = append(out, 1)
	}
	for i := 0; i < zeros; i++ {
		out = append(out, 0)
	}
	return out
}

func TestTTest(t *testing.T) {
	Convey("Given two clearly different correctness vectors", t, func() {
		a := make([]float64, 0, 100)
		for _, v := range correctness(90, 10) {
			a = append(a, float64(v))
		}
		b := make([]float64, 0, 100)
		for _, v := range correctness(50, 50) {
			b = append(b, float64(v))
		}

		res := TTest(a, b, DefaultThreshold)

		Convey("The difference is significant", func() {
			So(res.Statistic, ShouldNotBeNil)
			So(*res.Statistic, ShouldBeGreaterThan, 3.0)
			So(*res.PValue, ShouldBeLessThan, DefaultThreshold)
			So(*res.Significant, ShouldBeTrue)
		})

		Convey("The effect size is positive for the better group", func() {
			So(*res.EffectSize, ShouldBeGreaterThan, 0.5)
		})
	})

	Convey("Given two identical constant vectors", t, func() {
		a := []float64{1, 1, 1, 1}

		res := TTest(a, a, DefaultThreshold)

		Convey("No difference is detectable", func() {
			So(*res.Statistic, ShouldEqual, 0.0)
			So(*res.PValue, ShouldEqual, 1.0)
			So(*res.Significant, ShouldBeFalse)
			So(*res.EffectSize, ShouldEqual, 0.0)
		})
	})

	Convey("Given identical non-constant vectors", t, func() {
		a := []float64{1, 0, 1, 0, 1, 1}

		res := TTest(a, a, DefaultThreshold)

		Convey("The statistic is zero and the p-value is one", func() {
			So(*res.Statistic, ShouldEqual, 0.0)
			So(*res.PValue, ShouldEqual, 1.0)
			So(*res.Significant, ShouldBeFalse)
		})
	})

	Convey("Given a group below the minimum size", t, func() {
		res := TTest([]float64{1}, []float64{0, 1, 0}, DefaultThreshold)

		Convey("The result is undefined, not computed", func() {
			So(res.TestType, ShouldEqual, "t-test")
			So(res.Statistic, ShouldBeNil)
			So(res.PValue, ShouldBeNil)
			So(res.Significant, ShouldBeNil)
		})
	})
}

func TestMannWhitneyU(t *testing.T) {
	Convey("Given two clearly different vectors", t, func() {
		a := make([]float64, 0, 100)
		for _, v := range correctness(90, 10) {
			a = append(a, float64(v))
		}
		b := make([]float64, 0, 100)
		for _, v := range correctness(50, 50) {
			b = append(b, float64(v))
		}

		res := MannWhitneyU(a, b, DefaultThreshold)

		Convey("The rank test agrees the difference is real", func() {
			So(res.Statistic, ShouldNotBeNil)
			So(*res.PValue, ShouldBeLessThan, DefaultThreshold)
			So(*res.Significant, ShouldBeTrue)
		})
	})

	Convey("Given fully tied observations", t, func() {
		a := []float64{1, 1, 1}
		b := []float64{1, 1, 1}

		res := MannWhitneyU(a, b, DefaultThreshold)

		Convey("The test carries no information", func() {
			So(*res.PValue, ShouldEqual, 1.0)
			So(*res.Significant, ShouldBeFalse)
		})
	})

	Convey("Given a group below the minimum size", t, func() {
		res := MannWhitneyU(nil, []float64{1, 0}, DefaultThreshold)

		Convey("The result is undefined", func() {
			So(res.Statistic, ShouldBeNil)
			So(res.PValue, ShouldBeNil)
			So(res.Significant, ShouldBeNil)
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given two models' correctness vectors", t, func() {
		a := correctness(90, 10)
		b := correctness(50, 50)

		cmp := Compare("oracle", "guesser", a, b, 0)

		Convey("Both tests run with the default threshold", func() {
			So(cmp.ModelA, ShouldEqual, "oracle")
			So(cmp.ModelB, ShouldEqual, "guesser")
			So(cmp.Metric, ShouldEqual, "accuracy")
			So(cmp.NSamplesA, ShouldEqual, 100)
			So(cmp.NSamplesB, ShouldEqual, 100)
			So(*cmp.TTest.Significant, ShouldBeTrue)
			So(*cmp.MannWhitney.Significant, ShouldBeTrue)
		})
	})

	Convey("Comparing a model against itself finds nothing", t, func() {
		a := correctness(75, 25)

		cmp := Compare("m", "m", a, a, 0.05)

		So(*cmp.TTest.Significant, ShouldBeFalse)
		So(*cmp.MannWhitney.Significant, ShouldBeFalse)
	})
}
