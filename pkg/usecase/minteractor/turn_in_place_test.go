// 指示: miu200521358
package minteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func TestPrepareTurnInPlaceMovesMotionToCurves(t *testing.T) {
	clip := newHumanoidClip(t, 5)
	track := newPelvisWalkTrack(t, clip.FrameCount)
	if err := clip.SetTrack("pelvis", track); err != nil {
		t.Fatalf("set track failed: %v", err)
	}

	output, err := NewPrepareTurnInPlace(DefaultTurnInPlaceConfig()).Apply(clip)
	if err != nil {
		t.Fatalf("turn in place failed: %v", err)
	}
	curveX, ok := output.Curve(CurveNameRootX)
	if !ok {
		t.Fatalf("Root_X curve missing")
	}
	if _, ok := output.Curve(CurveNameRootY); !ok {
		t.Fatalf("Root_Y curve missing")
	}
	for frame := 0; frame < clip.FrameCount; frame++ {
		if got := curveX.Evaluate(clip.TimeAtFrame(frame)); math.Abs(got-float64(frame)) > testTolerance {
			t.Fatalf("Root_X mismatch at %d: got=%v want=%v", frame, got, frame)
		}
	}

	pelvis, ok := output.Track("pelvis")
	if !ok {
		t.Fatalf("pelvis track missing")
	}
	for frame := 0; frame < clip.FrameCount; frame++ {
		if got := pelvis.Key(frame).Translation; !got.NearEquals(mmath.NewVec3(0, 0, 100), testTolerance) {
			t.Fatalf("pelvis translation mismatch at %d: got=%v", frame, got)
		}
	}
	wantHalfTurn := mmath.NewRotator(0, -180, 0).Quaternion()
	if got := pelvis.Key(2).Rotation; !got.NearEquals(wantHalfTurn, testTolerance) {
		t.Fatalf("pelvis rotation mismatch at half turn: got=%v want=%v", got, wantHalfTurn)
	}
}

func TestPrepareTurnInPlaceSnapsFirstFrameWithCustomOffset(t *testing.T) {
	clip := newHumanoidClip(t, 3)
	config := DefaultTurnInPlaceConfig()
	config.DefaultRootBoneOffset = false
	config.TurningToRight = false

	output, err := NewPrepareTurnInPlace(config).Apply(clip)
	if err != nil {
		t.Fatalf("turn in place failed: %v", err)
	}
	curveX, _ := output.Curve(CurveNameRootX)
	curveY, _ := output.Curve(CurveNameRootY)
	if math.Abs(curveX.Evaluate(0)) > testTolerance || math.Abs(curveY.Evaluate(0)) > testTolerance {
		t.Fatalf("first frame should be centered: x=%v y=%v", curveX.Evaluate(0), curveY.Evaluate(0))
	}
}

func TestPrepareTurnInPlaceRequiresPelvis(t *testing.T) {
	clip := newHumanoidClip(t, 2)
	config := DefaultTurnInPlaceConfig()
	config.PelvisBone = "hips"
	if _, err := NewPrepareTurnInPlace(config).Apply(clip); err == nil {
		t.Fatalf("expected error for missing pelvis")
	}
}

func newPelvisWalkTrack(t *testing.T, frames int) *model.Track {
	t.Helper()
	track := model.NewTrack(frames)
	for frame := 0; frame < frames; frame++ {
		track.SetKey(frame, mmath.NewTranslationTransform(mmath.NewVec3(float64(frame), 0, 100)))
	}
	return track
}
