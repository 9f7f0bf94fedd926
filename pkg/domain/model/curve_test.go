// 指示: miu200521358
package model

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

func TestFloatCurveEvaluate(t *testing.T) {
	curve := NewFloatCurve("distance")
	curve.AddKey(1, 10)
	curve.AddKey(0, 0)
	curve.AddKey(2, 30)

	cases := []struct {
		time float64
		want float64
	}{
		{time: -1, want: 0},
		{time: 0.5, want: 5},
		{time: 1.5, want: 20},
		{time: 3, want: 30},
	}
	for _, c := range cases {
		if got := curve.Evaluate(c.time); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("evaluate mismatch at %v: got=%v want=%v", c.time, got, c.want)
		}
	}
}

func TestFloatCurveAddKeyReplacesSameTime(t *testing.T) {
	curve := NewFloatCurve("distance")
	curve.AddKey(1, 10)
	curve.AddKey(1, 20)
	if curve.Len() != 1 || curve.Evaluate(1) != 20 {
		t.Fatalf("same time key should be replaced: keys=%v", curve.Keys)
	}
}

func TestEmptyCurvesEvaluateToDefaults(t *testing.T) {
	var curve *FloatCurve
	if curve.Evaluate(1) != 0 {
		t.Fatalf("nil curve should evaluate to zero")
	}
	var transformCurve *TransformCurve
	if !transformCurve.Evaluate(1).NearEquals(mmath.TransformIdentity(), 1e-12) {
		t.Fatalf("nil transform curve should evaluate to identity")
	}
}

func TestVectorCurveEvaluate(t *testing.T) {
	curve := NewVectorCurve()
	curve.AddKey(0, mmath.NewVec3(0, 0, 0))
	curve.AddKey(1, mmath.NewVec3(2, 4, 6))

	got := curve.Evaluate(0.5)
	if !got.NearEquals(mmath.NewVec3(1, 2, 3), 1e-12) {
		t.Fatalf("vector evaluate mismatch: got=%s", got)
	}
	curve.SetKeyComponent(1, 1, 8)
	if curve.KeyValue(1).Y != 8 {
		t.Fatalf("key component update mismatch: got=%s", curve.KeyValue(1))
	}
}
