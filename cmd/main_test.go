// 指示: miu200521358
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/io_anim"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

// writeWalkClip は骨盤が前進するクリップ文書を書き出す。
func writeWalkClip(t *testing.T, dir string) string {
	t.Helper()
	at := func(x, y, z float64) mmath.Transform {
		return mmath.NewTranslationTransform(mmath.NewVec3(x, y, z))
	}
	skeleton, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()},
		{Name: "pelvis", ParentIndex: 0, ReferencePose: at(0, 0, 100)},
		{Name: "foot_r", ParentIndex: 0, ReferencePose: at(-10, 0, 10)},
		{Name: "foot_l", ParentIndex: 0, ReferencePose: at(10, 0, 10)},
	}, nil)
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	clip, err := model.NewAnimationClip("walk", skeleton, 6, 30)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	track := model.NewTrack(6)
	for frame := 0; frame < 6; frame++ {
		track.SetKey(frame, at(0, float64(frame), 100))
	}
	if err := clip.SetTrack("pelvis", track); err != nil {
		t.Fatalf("set track failed: %v", err)
	}
	path := filepath.Join(dir, "walk.json")
	if err := io_anim.NewClipRepository().Save(path, clip, moutput.SaveOptions{}); err != nil {
		t.Fatalf("save clip failed: %v", err)
	}
	return path
}

func writeTestPreset(t *testing.T, dir string, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "preset.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write preset failed: %v", err)
	}
	return path
}

func TestRunApplyWritesOutputAndRecords(t *testing.T) {
	dir := t.TempDir()
	input := writeWalkClip(t, dir)
	preset := writeTestPreset(t, dir, "[[steps]]\nmodifier = \"distance_curve\"\n")
	output := filepath.Join(dir, "out", "walk_distance.json")
	store := filepath.Join(dir, "bake.db")

	var out, errOut bytes.Buffer
	args := []string{"apply", input, "--preset", preset, "--out", output, "--store", store, "--log-level", "error"}
	if err := run(args, &out, &errOut); err != nil {
		t.Fatalf("apply failed: %v\n%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "distance_curve") {
		t.Fatalf("report should list the modifier: %s", out.String())
	}

	clip, err := io_anim.NewClipRepository().Load(output)
	if err != nil {
		t.Fatalf("load output failed: %v", err)
	}
	if !clip.HasFloatCurve("Distance") {
		t.Fatalf("output should carry the distance curve")
	}

	out.Reset()
	if err := run([]string{"records", "--store", store}, &out, &errOut); err != nil {
		t.Fatalf("records failed: %v", err)
	}
	if !strings.Contains(out.String(), "walk") {
		t.Fatalf("records should list the clip: %s", out.String())
	}

	out.Reset()
	reverted := filepath.Join(dir, "walk_reverted.json")
	if err := run([]string{"revert", output, "-p", preset, "-o", reverted, "--log-level", "error"}, &out, &errOut); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	clip, err = io_anim.NewClipRepository().Load(reverted)
	if err != nil {
		t.Fatalf("load reverted failed: %v", err)
	}
	if clip.HasFloatCurve("Distance") || !clip.HasFloatCurve("RootMotion_Y") {
		t.Fatalf("revert should drop only the distance curve")
	}
}

func TestRunApplyRequiresPreset(t *testing.T) {
	dir := t.TempDir()
	input := writeWalkClip(t, dir)
	var out, errOut bytes.Buffer
	if err := run([]string{"apply", input}, &out, &errOut); err == nil {
		t.Fatalf("expected error without preset")
	}
}

func TestRunApplyRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	input := writeWalkClip(t, dir)
	preset := writeTestPreset(t, dir, "[[steps]]\nmodifier = \"reset_translation\"\n")
	var out, errOut bytes.Buffer
	args := []string{"apply", input, "--preset", preset, "--out", input, "--log-level", "error"}
	if err := run(args, &out, &errOut); err == nil {
		t.Fatalf("expected error when output exists")
	}
	if err := run(append(args, "--overwrite"), &out, &errOut); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
}

func TestRunInspectPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	input := writeWalkClip(t, dir)
	var out, errOut bytes.Buffer
	if err := run([]string{"inspect", input, "--bones"}, &out, &errOut); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out.String(), "walk") || !strings.Contains(out.String(), "foot_l") {
		t.Fatalf("inspect output mismatch: %s", out.String())
	}
}

func TestRunRecordsRequiresStore(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run([]string{"records"}, &out, &errOut); err == nil {
		t.Fatalf("expected error without store")
	}
}
