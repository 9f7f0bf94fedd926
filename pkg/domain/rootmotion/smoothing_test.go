// 指示: miu200521358
package rootmotion

import (
	"math"
	"slices"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func TestDetectExtremaFindsPeakAndBoundaries(t *testing.T) {
	curve := curveFromValues([]float64{0, 1, 2, 5, 2, 1, 0, 1, 2})

	extrema := DetectExtrema(curve, DefaultExtremumWindow)

	if !slices.Contains(extrema[0], 0) || !slices.Contains(extrema[0], 1) {
		t.Fatalf("x should pin the first two samples: got=%v", extrema[0])
	}
	if slices.Contains(extrema[1], 0) || slices.Contains(extrema[1], 1) {
		t.Fatalf("y should not pin leading samples: got=%v", extrema[1])
	}
	if !slices.Contains(extrema[2], 0) || slices.Contains(extrema[2], 1) {
		t.Fatalf("z should pin only the first sample: got=%v", extrema[2])
	}
	for axis := 0; axis < 3; axis++ {
		if !slices.Contains(extrema[axis], 8) {
			t.Fatalf("last sample should be an extremum: axis=%d got=%v", axis, extrema[axis])
		}
		if !slices.Contains(extrema[axis], 3) {
			t.Fatalf("peak should be detected: axis=%d got=%v", axis, extrema[axis])
		}
		if slices.Contains(extrema[axis], 4) {
			t.Fatalf("slope sample should not be an extremum: axis=%d got=%v", axis, extrema[axis])
		}
		if !slices.IsSorted(extrema[axis]) {
			t.Fatalf("extrema should be sorted: axis=%d got=%v", axis, extrema[axis])
		}
	}
	if want := []int{0, 3, 6, 8}; !slices.Equal(extrema[2], want) {
		t.Fatalf("z extrema mismatch: got=%v want=%v", extrema[2], want)
	}
}

func TestSmoothWithDetectedExtremaMovesSecondSampleExceptOnX(t *testing.T) {
	values := []float64{0, 4, 2, 5, 2, 1, 0, 1, 2}
	curve := curveFromValues(values)
	extrema := DetectExtrema(curve, DefaultExtremumWindow)

	Smooth(curve, extrema, 1)

	second := curve.KeyValue(1)
	if second.X != values[1] {
		t.Fatalf("x second sample should stay pinned: got=%v want=%v", second.X, values[1])
	}
	if math.Abs(second.Y-2) > 1e-12 {
		t.Fatalf("y second sample should be smoothed: got=%v want=2", second.Y)
	}
	if math.Abs(second.Z-2) > 1e-12 {
		t.Fatalf("z second sample should be smoothed: got=%v want=2", second.Z)
	}
}

func TestPruneExtremaRemovesMonotonicNeighbor(t *testing.T) {
	// 時刻 0, 0.5, 0.52, 1.0 の極値。0.52 は 0.5 に近く、0.5→0.52→1.0 が単調増加。
	curve := model.NewVectorCurve()
	times := []float64{0, 0.5, 0.52, 1.0}
	values := []float64{0, 10, 11, 20}
	for i := range times {
		curve.AddKey(times[i], mmath.NewVec3(values[i], 0, 0))
	}
	extrema := [3][]int{{0, 1, 2, 3}, {0, 3}, {0, 3}}

	kept, removed := PruneExtrema(curve, extrema, 0.04)

	if !slices.Contains(removed[0], 2) {
		t.Fatalf("monotonic close extremum should be removed: removed=%v", removed[0])
	}
	if slices.Contains(kept[0], 2) || !slices.Contains(kept[0], 0) || !slices.Contains(kept[0], 3) {
		t.Fatalf("kept extrema mismatch: got=%v", kept[0])
	}
}

func TestPruneExtremaKeepsTruePeak(t *testing.T) {
	curve := model.NewVectorCurve()
	times := []float64{0, 0.5, 0.52, 1.0}
	values := []float64{0, 10, 30, 0}
	for i := range times {
		curve.AddKey(times[i], mmath.NewVec3(values[i], 0, 0))
	}
	extrema := [3][]int{{0, 1, 2, 3}, {0, 3}, {0, 3}}

	kept, _ := PruneExtrema(curve, extrema, 0.04)

	if !slices.Contains(kept[0], 2) {
		t.Fatalf("true peak should be kept: kept=%v", kept[0])
	}
}

func TestSmoothKeepsPinnedSamples(t *testing.T) {
	values := []float64{0, 4, -3, 8, 1, 9, -2, 5, 0}
	curve := curveFromValues(values)
	pinned := [3][]int{{0, 3, 8}, {0, 8}, {0, 8}}

	Smooth(curve, pinned, DefaultSmoothingPasses)

	for _, index := range pinned[0] {
		if got := curve.KeyValue(index).X; got != values[index] {
			t.Fatalf("pinned sample should not change: index=%d got=%v want=%v", index, got, values[index])
		}
	}
	if got := curve.KeyValue(5).Y; math.Abs(got-values[5]) < 1e-9 {
		t.Fatalf("free sample should be smoothed: got=%v", got)
	}
}

func TestSmoothSinglePassMovesTowardNeighborAverage(t *testing.T) {
	curve := curveFromValues([]float64{0, 9, 0})

	Smooth(curve, [3][]int{{0, 2}, {0, 2}, {0, 2}}, 1)

	if got := curve.KeyValue(1).X; math.Abs(got-3) > 1e-12 {
		t.Fatalf("smoothed value mismatch: got=%v want=3", got)
	}
}

func curveFromValues(values []float64) *model.VectorCurve {
	curve := model.NewVectorCurve()
	for i, value := range values {
		curve.AddKey(float64(i)/30, mmath.NewVec3(value, value, value))
	}
	return curve
}
