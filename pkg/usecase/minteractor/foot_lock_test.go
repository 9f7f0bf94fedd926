// 指示: miu200521358
package minteractor

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func TestSnapFootToGroundLowersLiftedFoot(t *testing.T) {
	clip := newHumanoidClip(t, 2)
	bendLeg(t, clip, "thigh_r", "calf_r")

	config := DefaultFootLockConfig()
	config.GroundLevel = 5
	output, err := NewSnapFootToGround(config).Apply(clip)
	if err != nil {
		t.Fatalf("foot lock failed: %v", err)
	}
	result := appliedClip(t, clip, output)

	before := componentAt(t, clip, "foot_r", 0)
	after := componentAt(t, result, "foot_r", 0)
	heel := mmath.NewTranslationTransform(mmath.NewVec3(0, 0, -10)).Muled(after).Translation
	if math.Abs(heel.Z-5) > 1e-3 {
		t.Fatalf("heel height mismatch: got=%v want=5", heel.Z)
	}
	if !after.Rotation.NearEquals(before.Rotation, 1e-4) {
		t.Fatalf("foot rotation should be kept: got=%v want=%v", after.Rotation, before.Rotation)
	}
	if math.Abs(after.Translation.X-before.Translation.X) > 1e-3 || math.Abs(after.Translation.Y-before.Translation.Y) > 1e-3 {
		t.Fatalf("foot should only move vertically: got=%v before=%v", after.Translation, before.Translation)
	}

	thigh, _ := output.Track("thigh_r")
	if got := thigh.Key(0).Translation; !got.NearEquals(mmath.NewVec3(-10, 0, 0), testTolerance) {
		t.Fatalf("thigh translation should be kept: got=%v", got)
	}
}

func TestSnapFootToGroundKeepsGroundedFoot(t *testing.T) {
	clip := newHumanoidClip(t, 1)
	output, err := NewSnapFootToGround(DefaultFootLockConfig()).Apply(clip)
	if err != nil {
		t.Fatalf("foot lock failed: %v", err)
	}
	for _, name := range []string{"foot_r", "calf_r", "thigh_r", "foot_l", "calf_l", "thigh_l"} {
		track, ok := output.Track(name)
		if !ok {
			t.Fatalf("track missing: %s", name)
		}
		index, _ := clip.Skeleton.BoneIndex(name)
		want := clip.Skeleton.ReferenceLocal(index)
		if got := track.Key(0); !got.NearEquals(want, testTolerance) {
			t.Fatalf("%s should be unchanged: got=%v want=%v", name, got, want)
		}
	}
}

func TestSnapFootToGroundRequiresSocket(t *testing.T) {
	clip := newHumanoidClip(t, 1)
	config := DefaultFootLockConfig()
	config.FootTipLeftSocket = "toe_l"
	if _, err := NewSnapFootToGround(config).Apply(clip); !errors.Is(err, model.ErrSocketNotFound) {
		t.Fatalf("expected socket not found: got=%v", err)
	}
}

// bendLeg は太ももを前へ、すねを後ろへ曲げて足を持ち上げる。
func bendLeg(t *testing.T, clip *model.AnimationClip, thighName, calfName string) {
	t.Helper()
	thighRotation := mmath.NewQuaternionFromAxisAngle(mmath.Vec3UnitX(), mmath.DegToRad(-30))
	calfRotation := mmath.NewQuaternionFromAxisAngle(mmath.Vec3UnitX(), mmath.DegToRad(60))
	thighIndex, _ := clip.Skeleton.BoneIndex(thighName)
	calfIndex, _ := clip.Skeleton.BoneIndex(calfName)
	setConstantTrack(t, clip, thighName, clip.Skeleton.ReferenceLocal(thighIndex).WithRotation(thighRotation))
	setConstantTrack(t, clip, calfName, clip.Skeleton.ReferenceLocal(calfIndex).WithRotation(calfRotation))
}
