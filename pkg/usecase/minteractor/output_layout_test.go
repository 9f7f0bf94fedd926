// 指示: miu200521358
package minteractor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBuildDefaultOutputPathAtUsesTimestamp(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 8, 7, 0, time.UTC)
	input := filepath.Join("anim", "walk.json")
	got := buildDefaultOutputPathAt(input, now)
	want := filepath.Join("anim", "walk_20261016090807.json")
	if got != want {
		t.Fatalf("default output path mismatch: got=%s want=%s", got, want)
	}
	if got := buildDefaultOutputPathAt(filepath.Join("anim", ".json"), now); got != "" {
		t.Fatalf("empty base should yield empty path: got=%s", got)
	}
}

func TestResolveClipOutputPathRejectsExtension(t *testing.T) {
	if _, err := resolveClipOutputPath("walk.json", "walk.fbx"); err == nil {
		t.Fatalf("expected error for non-json output")
	}
	got, err := resolveClipOutputPath("walk.json", "out/Walk.JSON")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "out/Walk.JSON" {
		t.Fatalf("explicit output path should be kept: got=%s", got)
	}
}

func TestPrepareOutputDirCreatesParent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := prepareOutputDir(filepath.Join(dir, "walk.json")); err != nil {
		t.Fatalf("prepare output dir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output dir should exist: err=%v", err)
	}
}
