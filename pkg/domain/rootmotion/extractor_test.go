// 指示: miu200521358
package rootmotion

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

func TestExtractFollowsPlantedFoot(t *testing.T) {
	const step = 2.0
	samples := walkingSamples(31, step)

	trajectory, err := NewExtractor(DirectionY).Extract(samples)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	for i, sample := range samples {
		got := trajectory.ValueAt(sample.Time)
		want := mmath.NewVec3(0, step*float64(i), 0)
		if !got.NearEquals(want, 1e-9) {
			t.Fatalf("root mismatch: frame=%d got=%s want=%s", i, got, want)
		}
	}
	if got := trajectory.DeltaBetween(samples[5].Time, samples[15].Time); !got.NearEquals(mmath.NewVec3(0, 20, 0), 1e-9) {
		t.Fatalf("delta mismatch: got=%s", got)
	}
}

func TestExtractDetectsInitialFoot(t *testing.T) {
	samples := walkingSamples(31, 2)
	// 左足を先に後方へ動かす
	for i := range samples {
		samples[i].FootRight, samples[i].FootLeft = samples[i].FootLeft, samples[i].FootRight
	}
	for i := 1; i < 10; i++ {
		samples[i].FootLeft = samples[i].FootLeft.Subed(mmath.NewVec3(0, float64(i), 0))
	}

	trajectory, err := NewExtractor(DirectionY).Extract(samples)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if trajectory.InitialFoot() != FootLeft {
		t.Fatalf("initial foot mismatch: got=%s", trajectory.InitialFoot())
	}
	if len(trajectory.FootTrace()) != len(samples) {
		t.Fatalf("foot trace length mismatch: got=%d", len(trajectory.FootTrace()))
	}
}

func TestExtractVerticalTracksLowestFoot(t *testing.T) {
	samples := make([]Sample, 4)
	heights := [][2]float64{{5, 7}, {3, 9}, {-2, 4}, {8, 6}}
	for i := range samples {
		samples[i] = Sample{
			Time:      float64(i) / 30,
			Pelvis:    mmath.NewVec3(0, 0, 90),
			FootRight: mmath.NewVec3(10, 0, heights[i][0]),
			FootLeft:  mmath.NewVec3(-10, 0, heights[i][1]),
		}
	}
	extractor := NewExtractor(DirectionZ)
	extractor.SmoothingPasses = 0

	trajectory, err := extractor.Extract(samples)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	want := []float64{0, 3, 0, 6}
	for i, sample := range samples {
		got := trajectory.ValueAt(sample.Time)
		if math.Abs(got.Z-want[i]) > 1e-12 || got.X != 0 || got.Y != 0 {
			t.Fatalf("vertical root mismatch: frame=%d got=%s want=%v", i, got, want[i])
		}
	}
}

func TestExtractRejectsEmptySamples(t *testing.T) {
	if _, err := NewExtractor(DirectionY).Extract(nil); err == nil {
		t.Fatalf("expected error for empty samples")
	}
}

// walkingSamples は骨盤が一定速度で進み、両足が10フレームごとに交互に接地するフレーム列を返す。
func walkingSamples(frames int, step float64) []Sample {
	samples := make([]Sample, frames)
	right, left := 0.0, 0.0
	for i := 0; i < frames; i++ {
		if i > 0 {
			if (i-1)/10%2 == 0 {
				left += 2 * step
			} else {
				right += 2 * step
			}
		}
		samples[i] = Sample{
			Time:      float64(i) / 30,
			Pelvis:    mmath.NewVec3(0, step*float64(i), 90),
			FootRight: mmath.NewVec3(10, right, 0),
			FootLeft:  mmath.NewVec3(-10, left, 0),
		}
	}
	return samples
}
