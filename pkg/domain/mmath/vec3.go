// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Epsilon は正規化やゼロ判定に使う許容誤差。
	Epsilon = 1e-8
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

// NewVec3 は成分からベクトルを生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Vec3Zero はゼロベクトルを返す。
func Vec3Zero() Vec3 {
	return Vec3{}
}

// Vec3One は全成分1のベクトルを返す。
func Vec3One() Vec3 {
	return NewVec3(1, 1, 1)
}

// Vec3UnitX はX軸単位ベクトルを返す。
func Vec3UnitX() Vec3 {
	return NewVec3(1, 0, 0)
}

// Vec3UnitY はY軸単位ベクトルを返す。
func Vec3UnitY() Vec3 {
	return NewVec3(0, 1, 0)
}

// Vec3UnitZ はZ軸単位ベクトルを返す。
func Vec3UnitZ() Vec3 {
	return NewVec3(0, 0, 1)
}

// Added は加算結果を返す。
func (v Vec3) Added(o Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, o.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(o Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, o.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// Muled は成分ごとの積を返す。
func (v Vec3) Muled(o Vec3) Vec3 {
	return NewVec3(v.X*o.X, v.Y*o.Y, v.Z*o.Z)
}

// SafeReciprocal は成分ごとの逆数を返す。ゼロに近い成分は0とする。
func (v Vec3) SafeReciprocal() Vec3 {
	return NewVec3(safeRecip(v.X), safeRecip(v.Y), safeRecip(v.Z))
}

func safeRecip(value float64) float64 {
	if math.Abs(value) <= Epsilon {
		return 0
	}
	return 1 / value
}

// Negated は符号反転を返す。
func (v Vec3) Negated() Vec3 {
	return v.MuledScalar(-1)
}

// Dot は内積を返す。
func (v Vec3) Dot(o Vec3) float64 {
	return r3.Dot(v.Vec, o.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, o.Vec)}
}

// Length は長さを返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// LengthSqr は長さの二乗を返す。
func (v Vec3) LengthSqr() float64 {
	return r3.Norm2(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(o Vec3) float64 {
	return v.Subed(o).Length()
}

// Distance2D はXY平面上の2点間距離を返す。
func (v Vec3) Distance2D(o Vec3) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalized は正規化したベクトルを返す。長さがゼロに近い場合はゼロベクトルを返す。
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length <= Epsilon {
		return Vec3Zero()
	}
	return v.MuledScalar(1 / length)
}

// Normalized2D はZ成分を落としてXY平面上で正規化したベクトルを返す。
func (v Vec3) Normalized2D() Vec3 {
	return NewVec3(v.X, v.Y, 0).Normalized()
}

// Lerp は線形補間結果を返す。
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Added(o.Subed(v).MuledScalar(t))
}

// IsZero はゼロベクトルか判定する。
func (v Vec3) IsZero() bool {
	return v.LengthSqr() <= Epsilon*Epsilon
}

// IsNaN はいずれかの成分が非数か判定する。
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// NearEquals は成分ごとの差が許容誤差以内か判定する。
func (v Vec3) NearEquals(o Vec3, tolerance float64) bool {
	return math.Abs(v.X-o.X) <= tolerance &&
		math.Abs(v.Y-o.Y) <= tolerance &&
		math.Abs(v.Z-o.Z) <= tolerance
}

// Component は軸ごとの成分を返す。
func (v Vec3) Component(axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return 0
}

// WithComponent は指定軸の成分を置き換えたベクトルを返す。
func (v Vec3) WithComponent(axis Axis, value float64) Vec3 {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	}
	return v
}

// String はデバッグ用の文字列表現を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f]", v.X, v.Y, v.Z)
}
