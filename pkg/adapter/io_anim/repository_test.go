// 指示: miu200521358
package io_anim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

func newDocumentClip(t *testing.T) *model.AnimationClip {
	t.Helper()
	bones := []model.Bone{
		{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()},
		{Name: "pelvis", ParentIndex: 0, ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(0, 0, 100)),
			RetargetMode: model.RetargetModeSkeleton},
		{Name: "foot_r", ParentIndex: 1, ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(-10, 0, -90))},
	}
	sockets := []model.Socket{{Name: "foot_tip_r", BoneName: "foot_r",
		Offset: mmath.NewTranslationTransform(mmath.NewVec3(0, 15, -10))}}
	skeleton, err := model.NewSkeleton(bones, sockets)
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	clip, err := model.NewAnimationClip("walk", skeleton, 3, 30)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	track := model.NewTrack(3)
	for frame := 0; frame < 3; frame++ {
		rotation := mmath.NewQuaternionFromAxisAngle(mmath.Vec3UnitZ(), float64(frame)*0.1)
		track.SetKey(frame, mmath.NewTransform(mmath.NewVec3(0, float64(frame), 100), rotation, mmath.Vec3One()))
	}
	if err := clip.SetTrack("pelvis", track); err != nil {
		t.Fatalf("set track failed: %v", err)
	}
	curve := model.NewFloatCurve("Distance")
	curve.AddKey(0, 0)
	curve.AddKey(clip.Duration(), 2)
	clip.SetFloatCurve(curve)
	transformCurve := &model.TransformCurve{Name: "foot_r"}
	transformCurve.AddKey(0, mmath.NewTranslationTransform(mmath.NewVec3(1, 0, 0)))
	clip.SetTransformCurve(transformCurve)
	return clip
}

func TestClipRepositorySaveLoadKeepsClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	repo := NewClipRepository()
	clip := newDocumentClip(t)
	if err := repo.Save(path, clip, moutput.SaveOptions{Indent: true}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(path + lockFileSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("lock file should be removed after save: %v", err)
	}

	loaded, err := repo.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "walk" || loaded.FrameCount != 3 || loaded.FrameRate != 30 {
		t.Fatalf("clip header mismatch: %s %d %v", loaded.Name, loaded.FrameCount, loaded.FrameRate)
	}
	index, _ := loaded.Skeleton.BoneIndex("pelvis")
	if loaded.Skeleton.RetargetMode(index) != model.RetargetModeSkeleton {
		t.Fatalf("retarget mode should be kept")
	}
	if _, err := loaded.Skeleton.Socket("foot_tip_r"); err != nil {
		t.Fatalf("socket should be kept: %v", err)
	}
	want, _ := clip.Track("pelvis")
	got, ok := loaded.Track("pelvis")
	if !ok {
		t.Fatalf("pelvis track missing")
	}
	for frame := 0; frame < 3; frame++ {
		if !got.Key(frame).NearEquals(want.Key(frame), 1e-9) {
			t.Fatalf("key mismatch at %d: got=%v want=%v", frame, got.Key(frame), want.Key(frame))
		}
	}
	distance, ok := loaded.FloatCurve("Distance")
	if !ok || distance.Evaluate(loaded.Duration()) != 2 {
		t.Fatalf("distance curve mismatch")
	}
	if _, ok := loaded.TransformCurve("foot_r"); !ok {
		t.Fatalf("transform curve missing")
	}
}

func TestClipRepositoryRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	repo := NewClipRepository()
	clip := newDocumentClip(t)
	if err := repo.Save(path, clip, moutput.SaveOptions{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Save(path, clip, moutput.SaveOptions{}); !errors.Is(err, ErrFileExists) {
		t.Fatalf("expected file exists error: got=%v", err)
	}
	if err := repo.Save(path, clip, moutput.SaveOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
}

func TestClipRepositoryLoadErrors(t *testing.T) {
	repo := NewClipRepository()
	dir := t.TempDir()
	if _, err := repo.Load(filepath.Join(dir, "walk.fbx")); !errors.Is(err, ErrExtInvalid) {
		t.Fatalf("expected ext invalid: got=%v", err)
	}
	if _, err := repo.Load(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected not found: got=%v", err)
	}
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"version":1,"name":"x","frame_count":2,"frame_rate":30,"bones":[]}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := repo.Load(broken); !errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected parse failed for empty skeleton: got=%v", err)
	}
}

func TestClipRepositoryInfersName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idle.json")
	doc := `{"version":1,"frame_count":1,"frame_rate":30,"bones":[{"name":"root","parent":-1,"reference_pose":{"t":[0,0,0],"r":[0,0,0,1],"s":[1,1,1]}}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	clip, err := NewClipRepository().Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if clip.Name != "idle" {
		t.Fatalf("name should be inferred from path: got=%s", clip.Name)
	}
}
