// 指示: miu200521358
package ik

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

func TestSolveTwoBoneReachableScenario(t *testing.T) {
	root := mmath.Vec3Zero()
	target := mmath.NewVec3(15, 0, 0)
	pole := mmath.NewVec3(7.5, 0, 10)

	result := SolveTwoBoneWithLengths(root, pole, target, 10, 8, DefaultTwoBoneOptions())

	if !result.Reachable || result.Degenerate {
		t.Fatalf("target should be reachable: %+v", result)
	}
	if math.Abs(result.Joint.Distance(root)-10) > 1e-3 {
		t.Fatalf("upper length mismatch: got=%v", result.Joint.Distance(root))
	}
	if math.Abs(result.Joint.Distance(result.End)-8) > 1e-3 {
		t.Fatalf("lower length mismatch: got=%v", result.Joint.Distance(result.End))
	}
	if !result.End.NearEquals(target, 1e-9) {
		t.Fatalf("end should reach target: got=%s", result.End)
	}
	normal := target.Subed(root).Cross(pole.Subed(root)).Normalized()
	if math.Abs(result.Joint.Subed(root).Dot(normal)) > 1e-3 {
		t.Fatalf("joint should lie in the pole plane: got=%s", result.Joint)
	}
	if result.Joint.Z <= 0 {
		t.Fatalf("joint should bend toward the pole: got=%s", result.Joint)
	}
}

func TestSolveTwoBoneUnreachableStraightens(t *testing.T) {
	root := mmath.NewVec3(1, 1, 1)
	target := mmath.NewVec3(31, 1, 1)

	result := SolveTwoBoneWithLengths(root, mmath.NewVec3(10, 1, 10), target, 10, 8, DefaultTwoBoneOptions())

	if result.Reachable {
		t.Fatalf("target should be unreachable")
	}
	if !result.End.NearEquals(mmath.NewVec3(19, 1, 1), 1e-9) {
		t.Fatalf("end should be fully extended: got=%s", result.End)
	}
	if !result.Joint.NearEquals(mmath.NewVec3(11, 1, 1), 1e-9) {
		t.Fatalf("joint should be on the straight chain: got=%s", result.Joint)
	}
}

func TestSolveTwoBoneUsesInputLengths(t *testing.T) {
	root := mmath.Vec3Zero()
	joint := mmath.NewVec3(0, 0, -10)
	end := mmath.NewVec3(0, 0, -18)
	target := mmath.NewVec3(0, 4, -14)

	result := SolveTwoBone(root, joint, end, mmath.NewVec3(0, 10, -10), target, DefaultTwoBoneOptions())

	if math.Abs(result.Joint.Distance(root)-10) > 1e-6 || math.Abs(result.Joint.Distance(result.End)-8) > 1e-6 {
		t.Fatalf("bone lengths should be preserved: joint=%s end=%s", result.Joint, result.End)
	}
}

func TestSolveTwoBoneDegenerateReturnsRoot(t *testing.T) {
	root := mmath.NewVec3(1, 2, 3)

	result := SolveTwoBoneWithLengths(root, mmath.NewVec3(0, 5, 0), root, 10, 8, DefaultTwoBoneOptions())
	if !result.Degenerate || result.Joint != root || result.End != root {
		t.Fatalf("coincident target should fall back to root: %+v", result)
	}

	result = SolveTwoBoneWithLengths(root, mmath.NewVec3(0, 5, 0), mmath.NewVec3(5, 2, 3), 0, 8, DefaultTwoBoneOptions())
	if !result.Degenerate || result.Joint.IsNaN() || result.End.IsNaN() {
		t.Fatalf("zero length bone should fall back without NaN: %+v", result)
	}
}

func TestSolveTwoBoneCollinearPoleStaysFinite(t *testing.T) {
	result := SolveTwoBoneWithLengths(
		mmath.Vec3Zero(), mmath.NewVec3(20, 0, 0), mmath.NewVec3(15, 0, 0), 10, 8, DefaultTwoBoneOptions())
	if result.Joint.IsNaN() {
		t.Fatalf("joint should be finite")
	}
	if math.Abs(result.Joint.Length()-10) > 1e-6 {
		t.Fatalf("upper length mismatch: got=%v", result.Joint.Length())
	}
}

func TestSolveTwoBoneStretching(t *testing.T) {
	options := TwoBoneOptions{AllowStretching: true, StartStretchRatio: 0.5, MaxStretchScale: 1.5}

	result := SolveTwoBoneWithLengths(mmath.Vec3Zero(), mmath.NewVec3(0, 0, 10), mmath.NewVec3(30, 0, 0), 10, 8, options)

	if !result.End.NearEquals(mmath.NewVec3(27, 0, 0), 1e-9) {
		t.Fatalf("stretched end mismatch: got=%s", result.End)
	}
}
