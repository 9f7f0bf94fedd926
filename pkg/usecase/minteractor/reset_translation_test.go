// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func TestResetBonesTranslationUsesReferenceTranslation(t *testing.T) {
	bones := []model.Bone{
		{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()},
		{Name: "spine", ParentIndex: 0, ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(0, 0, 10)),
			RetargetMode: model.RetargetModeSkeleton},
		{Name: "head", ParentIndex: 1, ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(0, 0, 5))},
	}
	skeleton, err := model.NewSkeleton(bones, nil)
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	clip, err := model.NewAnimationClip("reset", skeleton, 2, 30)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	rotation := mmath.NewRotator(20, 0, 0).Quaternion()
	scale := mmath.NewVec3(2, 2, 2)
	setConstantTrack(t, clip, "spine", mmath.NewTransform(mmath.NewVec3(3, 3, 3), rotation, scale))

	output, err := NewResetBonesTranslation().Apply(clip)
	if err != nil {
		t.Fatalf("reset translation failed: %v", err)
	}
	if names := output.TrackNames(); len(names) != 1 || names[0] != "spine" {
		t.Fatalf("reset tracks mismatch: got=%v", names)
	}
	track, _ := output.Track("spine")
	key := track.Key(1)
	if !key.Translation.NearEquals(mmath.NewVec3(0, 0, 10), testTolerance) {
		t.Fatalf("translation mismatch: got=%v", key.Translation)
	}
	if !key.Rotation.NearEquals(rotation, testTolerance) || !key.Scale.NearEquals(scale, testTolerance) {
		t.Fatalf("rotation and scale should be kept: got=%v", key)
	}
}

func TestResetBonesTranslationWithoutSkeletonModeIsEmpty(t *testing.T) {
	output, err := NewResetBonesTranslation().Apply(newHumanoidClip(t, 1))
	if err != nil {
		t.Fatalf("reset translation failed: %v", err)
	}
	if !output.IsEmpty() {
		t.Fatalf("output should be empty: got=%v", output.TrackNames())
	}
}
