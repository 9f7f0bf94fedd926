// 指示: miu200521358
package model

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

func TestAnimationClipTiming(t *testing.T) {
	clip := newTestClip(t, 31, 30)

	if math.Abs(clip.Duration()-1) > 1e-12 {
		t.Fatalf("duration mismatch: got=%v want=1", clip.Duration())
	}
	if math.Abs(clip.TimeAtFrame(15)-0.5) > 1e-12 {
		t.Fatalf("time mismatch: got=%v want=0.5", clip.TimeAtFrame(15))
	}
	if clip.TimeAtFrame(100) != clip.Duration() {
		t.Fatalf("time should clamp to duration: got=%v", clip.TimeAtFrame(100))
	}
	if clip.TimeAtFrame(-3) != 0 {
		t.Fatalf("time should clamp to zero: got=%v", clip.TimeAtFrame(-3))
	}
}

func TestNewAnimationClipRejectsInvalidFrameRate(t *testing.T) {
	skeleton := newTestSkeleton(t)
	if _, err := NewAnimationClip("bad", skeleton, 10, 0); !errors.Is(err, ErrInvalidClip) {
		t.Fatalf("expected ErrInvalidClip: got=%v", err)
	}
	if _, err := NewAnimationClip("bad", skeleton, 0, 30); !errors.Is(err, ErrInvalidClip) {
		t.Fatalf("expected ErrInvalidClip: got=%v", err)
	}
}

func TestAnimationClipSetTrackReplaces(t *testing.T) {
	clip := newTestClip(t, 2, 30)

	first := NewTrack(2)
	first.Positions[0] = mmath.NewVec3(1, 0, 0)
	if err := clip.SetTrack("pelvis", first); err != nil {
		t.Fatalf("set track failed: %v", err)
	}
	second := NewTrack(2)
	second.Positions[0] = mmath.NewVec3(2, 0, 0)
	if err := clip.SetTrack("Pelvis", second); err != nil {
		t.Fatalf("set track failed: %v", err)
	}

	track, ok := clip.Track("pelvis")
	if !ok {
		t.Fatalf("track should exist")
	}
	if track.Positions[0].X != 2 {
		t.Fatalf("track should be replaced: got=%v", track.Positions[0])
	}
	if len(clip.TrackNames()) != 1 {
		t.Fatalf("track names mismatch: got=%v", clip.TrackNames())
	}
}

func TestAnimationClipSetTrackRejectsLength(t *testing.T) {
	clip := newTestClip(t, 3, 30)
	if err := clip.SetTrack("pelvis", NewTrack(2)); !errors.Is(err, ErrTrackLength) {
		t.Fatalf("expected ErrTrackLength: got=%v", err)
	}
	if clip.HasTrack("pelvis") {
		t.Fatalf("track should not be written")
	}
}

func TestAnimationClipCloneIsIndependent(t *testing.T) {
	clip := newTestClip(t, 2, 30)
	track := NewTrack(2)
	track.Positions[1] = mmath.NewVec3(3, 0, 0)
	if err := clip.SetTrack("pelvis", track); err != nil {
		t.Fatalf("set track failed: %v", err)
	}
	curve := NewFloatCurve("speed")
	curve.AddKey(0, 1)
	clip.SetFloatCurve(curve)

	cloned, err := clip.Clone()
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	track.Positions[1] = mmath.NewVec3(9, 0, 0)
	curve.AddKey(0, 5)

	clonedTrack, _ := cloned.Track("pelvis")
	if clonedTrack.Positions[1].X != 3 {
		t.Fatalf("cloned track should be independent: got=%v", clonedTrack.Positions[1])
	}
	clonedCurve, _ := cloned.FloatCurve("speed")
	if clonedCurve.Evaluate(0) != 1 {
		t.Fatalf("cloned curve should be independent: got=%v", clonedCurve.Evaluate(0))
	}
}

func newTestClip(t *testing.T, frameCount int, frameRate float64) *AnimationClip {
	t.Helper()
	clip, err := NewAnimationClip("test", newTestSkeleton(t), frameCount, frameRate)
	if err != nil {
		t.Fatalf("clip build failed: %v", err)
	}
	return clip
}
