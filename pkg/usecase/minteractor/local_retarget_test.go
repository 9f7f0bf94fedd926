// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func newWeaponClip(t *testing.T, names ...string) *model.AnimationClip {
	t.Helper()
	bones := []model.Bone{{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()}}
	for _, name := range names {
		bones = append(bones, model.Bone{Name: name, ParentIndex: 0, ReferencePose: mmath.TransformIdentity()})
	}
	skeleton, err := model.NewSkeleton(bones, nil)
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	clip, err := model.NewAnimationClip("weapon", skeleton, 2, 30)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	return clip
}

func TestLocalRetargetBoneReorientsRightHand(t *testing.T) {
	target := newWeaponClip(t, "weapon_joint_r", "weapon_joint_l")
	source := newWeaponClip(t, "rhang_tag_bone", "lhang_tag_bone")
	setConstantTrack(t, source, "rhang_tag_bone", mmath.NewTranslationTransform(mmath.NewVec3(1, 0, 0)))

	output, err := NewLocalRetargetBone(DefaultLocalRetargetConfig(), source).Apply(target)
	if err != nil {
		t.Fatalf("local retarget failed: %v", err)
	}
	right, ok := output.Track("weapon_joint_r")
	if !ok {
		t.Fatalf("right weapon track missing")
	}
	if got := right.Key(0).Translation; !got.NearEquals(mmath.NewVec3(0, -2.46, 0), testTolerance) {
		t.Fatalf("right translation mismatch: got=%v", got)
	}

	left, _ := output.Track("weapon_joint_l")
	reorient, toTarget := handConversions(false)
	want := mmath.TransformIdentity().RelativeTo(reorient).Muled(toTarget).Rotation
	if got := left.Key(1).Rotation; !got.NearEquals(want, testTolerance) {
		t.Fatalf("left rotation mismatch: got=%v want=%v", got, want)
	}
}

func TestLocalRetargetBoneRejectsLengthMismatch(t *testing.T) {
	target := newWeaponClip(t, "weapon_joint_r", "weapon_joint_l")
	config := DefaultLocalRetargetConfig()
	config.SourceBoneNames = config.SourceBoneNames[:1]
	if _, err := NewLocalRetargetBone(config, target).Apply(target); err == nil {
		t.Fatalf("expected error for bone count mismatch")
	}
}
