// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

// OrientationConverter は汎用回転からボーン固有の軸規約の回転へ戻す変換を表す。
// 参照姿勢から一度だけ求め、全フレームで使い回す。
type OrientationConverter struct {
	Offset    mmath.Transform
	RightAxis mmath.Axis
}

// NewOrientationConverter は参照姿勢のボーンと子ボーンのコンポーネント空間変換から変換器を求める。
func NewOrientationConverter(boneRef mmath.Transform, childRef mmath.Transform, rightAxis mmath.Axis) OrientationConverter {
	generic := GenericRotation(boneRef.Translation, childRef.Translation, boneRef.Rotation, rightAxis)
	base := mmath.NewTransform(boneRef.Translation, generic, mmath.Vec3One())
	return OrientationConverter{
		Offset:    boneRef.RelativeTo(base),
		RightAxis: rightAxis,
	}
}

// NewOrientationConverterFromRotator は明示指定の回転を変換器とする。
func NewOrientationConverterFromRotator(rotator mmath.Rotator, rightAxis mmath.Axis) OrientationConverter {
	return OrientationConverter{
		Offset:    mmath.NewRotationTransform(rotator.Quaternion()),
		RightAxis: rightAxis,
	}
}

// GenericRotation はX軸が次の関節を向き、Y軸が現在回転の rightAxis 軸に沿う回転を返す。
func GenericRotation(position, next mmath.Vec3, current mmath.Quaternion, rightAxis mmath.Axis) mmath.Quaternion {
	return mmath.MakeRotFromXY(next.Subed(position), current.AxisVector(rightAxis))
}

// Reconstruct は関節位置と次関節位置から、ボーン固有の軸規約の回転を再構成する。
func (c OrientationConverter) Reconstruct(position, next mmath.Vec3, current mmath.Quaternion) mmath.Quaternion {
	generic := GenericRotation(position, next, current, c.RightAxis)
	return c.Offset.Muled(mmath.NewRotationTransform(generic)).Rotation.Normalized()
}

// LegRightAxis は太もも参照姿勢の前方軸・下方軸と異なる残りの軸を返す。
func LegRightAxis(thighRef mmath.Transform, calfRef mmath.Transform, forward mmath.Vec3) mmath.Axis {
	forwardAxis, _ := mmath.FindCoDirection(thighRef.Rotation, forward)
	downAxis, _ := mmath.FindCoDirection(thighRef.Rotation, calfRef.Translation.Subed(thighRef.Translation))
	return mmath.RemainingAxis(forwardAxis, downAxis)
}
