// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

const kneeTargetDistance = 5.0

// LegRig は脚1本分の参照姿勢由来の定数を保持する。
type LegRig struct {
	RightAxis      mmath.Axis
	ThighConverter OrientationConverter
	CalfConverter  OrientationConverter
	// KneeOffset はひざ目標位置のふくらはぎ基準の相対変換。
	KneeOffset mmath.Transform
}

// NewLegRig は太もも・ふくらはぎ・足の参照姿勢コンポーネント空間変換から脚の定数を求める。
// ひざ目標はふくらはぎから forward 方向へ一定距離の位置とする。
func NewLegRig(thighRef, calfRef, footRef mmath.Transform, forward mmath.Vec3) LegRig {
	rightAxis := LegRightAxis(thighRef, calfRef, forward)
	kneeTarget := mmath.NewTranslationTransform(forward.MuledScalar(kneeTargetDistance).Added(calfRef.Translation))
	return LegRig{
		RightAxis:      rightAxis,
		ThighConverter: NewOrientationConverter(thighRef, calfRef, rightAxis),
		CalfConverter:  NewOrientationConverter(calfRef, footRef, rightAxis),
		KneeOffset:     kneeTarget.RelativeTo(calfRef),
	}
}

// KneeTarget はふくらはぎの現在姿勢からひざ目標位置を返す。
func (r LegRig) KneeTarget(calf mmath.Transform) mmath.Vec3 {
	return r.KneeOffset.Muled(calf).Translation
}

// LegPose は脚チェーンのコンポーネント空間変換を表す。
type LegPose struct {
	ThighParent mmath.Transform
	Thigh       mmath.Transform
	Calf        mmath.Transform
	Foot        mmath.Transform
}

// LegSolution は脚IKの解をローカル変換とコンポーネント空間変換で表す。
type LegSolution struct {
	ThighLocal mmath.Transform
	CalfLocal  mmath.Transform
	FootLocal  mmath.Transform
	Component  LegPose
	Result     TwoBoneResult
}

// Solve は足先を effector へ移す脚IKを解き、各ボーンの回転を再構成する。
// 退化入力の場合は入力姿勢をそのままローカル変換にして返す。
func (r LegRig) Solve(current LegPose, kneeTarget, effector mmath.Vec3, options TwoBoneOptions) LegSolution {
	result := SolveTwoBone(
		current.Thigh.Translation, current.Calf.Translation, current.Foot.Translation,
		kneeTarget, effector, options)
	if result.Degenerate {
		return newLegSolution(current, result)
	}

	thighRotation := r.ThighConverter.Reconstruct(current.Thigh.Translation, result.Joint, current.Thigh.Rotation)
	calfRotation := r.CalfConverter.Reconstruct(result.Joint, result.End, current.Calf.Rotation)

	solved := LegPose{
		ThighParent: current.ThighParent,
		Thigh:       current.Thigh.WithRotation(thighRotation),
		Calf:        mmath.NewTransform(result.Joint, calfRotation, current.Calf.Scale),
		Foot:        current.Foot.WithTranslation(result.End),
	}
	return newLegSolution(solved, result)
}

func newLegSolution(component LegPose, result TwoBoneResult) LegSolution {
	return LegSolution{
		ThighLocal: component.Thigh.RelativeTo(component.ThighParent).NormalizedRotation(),
		CalfLocal:  component.Calf.RelativeTo(component.Thigh).NormalizedRotation(),
		FootLocal:  component.Foot.RelativeTo(component.Calf).NormalizedRotation(),
		Component:  component,
		Result:     result,
	}
}

// KneeTargetAlpha は脚の伸び具合からひざ目標のブレンド率を返す。
// 太もも→ふくらはぎと太もも→足の方向の内積が threshold 未満なら0、1で1になる。
func KneeTargetAlpha(thigh, calf, foot mmath.Vec3, threshold float64) float64 {
	dot := calf.Subed(thigh).Normalized().Dot(foot.Subed(thigh).Normalized())
	if dot < threshold || threshold >= 1 {
		return 0
	}
	return (dot - threshold) / (1 - threshold)
}
