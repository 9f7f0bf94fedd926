// 指示: miu200521358
package minteractor

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

const testTolerance = 1e-6

func TestForEachFrameVisitsEveryFrame(t *testing.T) {
	var visited atomic.Int64
	err := forEachFrame(20, func(frame int) error {
		visited.Add(int64(frame) + 1)
		return nil
	})
	if err != nil {
		t.Fatalf("forEachFrame failed: %v", err)
	}
	if got := visited.Load(); got != 210 {
		t.Fatalf("visited sum mismatch: got=%d want=210", got)
	}
}

func TestForEachFrameReturnsError(t *testing.T) {
	sentinel := errors.New("frame failed")
	err := forEachFrame(5, func(frame int) error {
		if frame == 3 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("error mismatch: got=%v", err)
	}
}

func TestTrackSetKeepsRegistrationOrder(t *testing.T) {
	set := newTrackSet(1, "pelvis", "foot_r")
	set.add("Pelvis")
	set.add("calf_r")
	for _, name := range []string{"pelvis", "foot_r", "calf_r"} {
		set.set(name, 0, mmath.TransformIdentity())
	}
	output := bake.NewOutput(1)
	if err := set.bakeTo(output); err != nil {
		t.Fatalf("bakeTo failed: %v", err)
	}
	names := output.TrackNames()
	if len(names) != 3 || names[0] != "pelvis" || names[1] != "foot_r" || names[2] != "calf_r" {
		t.Fatalf("track order mismatch: got=%v", names)
	}
}

func TestTrackSetSetsByFoldedNameFromWorkers(t *testing.T) {
	set := newTrackSet(8, "Pelvis")
	offset := mmath.NewTranslationTransform(mmath.NewVec3(0, 0, 1))
	err := forEachFrame(8, func(frame int) error {
		name := "pelvis"
		if frame%2 == 0 {
			name = "Pelvis"
		}
		set.set(name, frame, offset)
		return nil
	})
	if err != nil {
		t.Fatalf("forEachFrame failed: %v", err)
	}
	output := bake.NewOutput(8)
	if err := set.bakeTo(output); err != nil {
		t.Fatalf("bakeTo failed: %v", err)
	}
	track, ok := output.Track("pelvis")
	if !ok {
		t.Fatalf("pelvis track missing")
	}
	for frame := 0; frame < 8; frame++ {
		if got := track.Key(frame).Translation; !got.NearEquals(offset.Translation, testTolerance) {
			t.Fatalf("key mismatch: frame=%d got=%v", frame, got)
		}
	}
}

func TestResolveLegChain(t *testing.T) {
	skeleton := newHumanoidSkeleton(t)
	chain, err := resolveLegChain(skeleton, "foot_r")
	if err != nil {
		t.Fatalf("resolveLegChain failed: %v", err)
	}
	if skeleton.BoneName(chain.Calf) != "calf_r" || skeleton.BoneName(chain.Thigh) != "thigh_r" ||
		skeleton.BoneName(chain.ThighParent) != "pelvis" {
		t.Fatalf("leg chain mismatch: got=%+v", chain)
	}
	if _, err := resolveLegChain(skeleton, "pelvis"); !errors.Is(err, model.ErrInvalidChain) {
		t.Fatalf("expected invalid chain for pelvis: got=%v", err)
	}
	if _, err := resolveLegChain(skeleton, "missing"); !errors.Is(err, model.ErrBoneNotFound) {
		t.Fatalf("expected bone not found: got=%v", err)
	}
}

// newHumanoidSkeleton は検証用の簡易人型スケルトンを生成する。
func newHumanoidSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	at := func(x, y, z float64) mmath.Transform {
		return mmath.NewTranslationTransform(mmath.NewVec3(x, y, z))
	}
	bones := []model.Bone{
		{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()},
		{Name: "pelvis", ParentIndex: 0, ReferencePose: at(0, 0, 100)},
		{Name: "thigh_r", ParentIndex: 1, ReferencePose: at(-10, 0, 0)},
		{Name: "calf_r", ParentIndex: 2, ReferencePose: at(0, 1, -45)},
		{Name: "foot_r", ParentIndex: 3, ReferencePose: at(0, -1, -45)},
		{Name: "thigh_l", ParentIndex: 1, ReferencePose: at(10, 0, 0)},
		{Name: "calf_l", ParentIndex: 5, ReferencePose: at(0, 1, -45)},
		{Name: "foot_l", ParentIndex: 6, ReferencePose: at(0, -1, -45)},
		{Name: "spine_01", ParentIndex: 1, ReferencePose: at(0, 0, 10)},
		{Name: "hand_r", ParentIndex: 8, ReferencePose: at(-30, 0, 30)},
		{Name: "index_01_r", ParentIndex: 9, ReferencePose: at(-5, 0, 0)},
		{Name: "index_02_r", ParentIndex: 10, ReferencePose: at(-3, 0, 0)},
		{Name: "index_03_r", ParentIndex: 11, ReferencePose: at(-2, 0, 0)},
		{Name: "hand_l", ParentIndex: 8, ReferencePose: at(30, 0, 30)},
		{Name: "ik_foot_root", ParentIndex: 0, ReferencePose: mmath.TransformIdentity()},
		{Name: "ik_foot_r", ParentIndex: 14, ReferencePose: mmath.TransformIdentity()},
		{Name: "ik_foot_l", ParentIndex: 14, ReferencePose: mmath.TransformIdentity()},
	}
	sockets := []model.Socket{
		{Name: "foot_tip_r", BoneName: "foot_r", Offset: at(0, 15, -10)},
		{Name: "foot_tip_l", BoneName: "foot_l", Offset: at(0, 15, -10)},
	}
	skeleton, err := model.NewSkeleton(bones, sockets)
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	return skeleton
}

// newHumanoidClip は参照姿勢のみのクリップを生成する。
func newHumanoidClip(t *testing.T, frames int) *model.AnimationClip {
	t.Helper()
	clip, err := model.NewAnimationClip("humanoid", newHumanoidSkeleton(t), frames, 30)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	return clip
}

// setConstantTrack は全フレーム同じローカル変換のトラックを設定する。
func setConstantTrack(t *testing.T, clip *model.AnimationClip, boneName string, local mmath.Transform) {
	t.Helper()
	track := model.NewTrack(clip.FrameCount)
	for frame := 0; frame < clip.FrameCount; frame++ {
		track.SetKey(frame, local)
	}
	if err := clip.SetTrack(boneName, track); err != nil {
		t.Fatalf("set track failed: %v", err)
	}
}

// appliedClip は出力を複製したクリップへ反映して返す。
func appliedClip(t *testing.T, clip *model.AnimationClip, output *bake.Output) *model.AnimationClip {
	t.Helper()
	cloned, err := clip.Clone()
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if err := output.ApplyTo(cloned); err != nil {
		t.Fatalf("apply output failed: %v", err)
	}
	return cloned
}

// componentAt はフレームのコンポーネント空間変換を返す。
func componentAt(t *testing.T, clip *model.AnimationClip, boneName string, frame int) mmath.Transform {
	t.Helper()
	component, err := pose.NewSampler(clip).ComponentPoseAt(boneName, clip.TimeAtFrame(frame))
	if err != nil {
		t.Fatalf("component pose failed: %v", err)
	}
	return component
}

func hasWarning(output *bake.Output, warningID string) bool {
	for _, id := range output.Warnings() {
		if id == warningID {
			return true
		}
	}
	return false
}
