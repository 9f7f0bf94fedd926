// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NewQuaternionFromAxes は正規直交な3軸から回転を生成する。
func NewQuaternionFromAxes(xAxis, yAxis, zAxis Vec3) Quaternion {
	m := mgl64.Mat4{
		xAxis.X, xAxis.Y, xAxis.Z, 0,
		yAxis.X, yAxis.Y, yAxis.Z, 0,
		zAxis.X, zAxis.Y, zAxis.Z, 0,
		0, 0, 0, 1,
	}
	return quaternionFromMgl(mgl64.Mat4ToQuat(m)).Normalized()
}

// MakeRotFromXY はローカルX軸が forward、ローカルY軸が forward に直交化した up となる回転を生成する。
func MakeRotFromXY(forward Vec3, up Vec3) Quaternion {
	x := forward.Normalized()
	if x.IsZero() {
		return QuaternionIdentity()
	}
	y := orthogonalized(up, x)
	z := x.Cross(y).Normalized()
	y = z.Cross(x)
	return NewQuaternionFromAxes(x, y, z)
}

// MakeRotFromXZ はローカルX軸が forward、ローカルZ軸が forward に直交化した up となる回転を生成する。
func MakeRotFromXZ(forward Vec3, up Vec3) Quaternion {
	x := forward.Normalized()
	if x.IsZero() {
		return QuaternionIdentity()
	}
	z := orthogonalized(up, x)
	y := z.Cross(x).Normalized()
	z = x.Cross(y)
	return NewQuaternionFromAxes(x, y, z)
}

// orthogonalized は v から基準軸成分を除いた単位ベクトルを返す。
// v が基準軸と平行な場合は基準軸と最も直交に近い座標軸を使う。
func orthogonalized(v Vec3, base Vec3) Vec3 {
	candidate := v.Subed(base.MuledScalar(v.Dot(base))).Normalized()
	if !candidate.IsZero() {
		return candidate
	}

	fallback := Vec3UnitX()
	best := math.Abs(base.X)
	if math.Abs(base.Y) < best {
		fallback = Vec3UnitY()
		best = math.Abs(base.Y)
	}
	if math.Abs(base.Z) < best {
		fallback = Vec3UnitZ()
	}
	return fallback.Subed(base.MuledScalar(fallback.Dot(base))).Normalized()
}
