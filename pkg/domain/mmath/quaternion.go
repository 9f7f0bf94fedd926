// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion は回転を表す四元数。Real を W、Imag/Jmag/Kmag を X/Y/Z として扱う。
type Quaternion struct {
	quat.Number
}

// NewQuaternion は成分から四元数を生成する。
func NewQuaternion(x, y, z, w float64) Quaternion {
	return Quaternion{Number: quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

// QuaternionIdentity は単位四元数を返す。
func QuaternionIdentity() Quaternion {
	return NewQuaternion(0, 0, 0, 1)
}

// NewQuaternionFromAxisAngle は回転軸と角度(ラジアン)から四元数を生成する。
func NewQuaternionFromAxisAngle(axis Vec3, radians float64) Quaternion {
	n := axis.Normalized()
	if n.IsZero() {
		return QuaternionIdentity()
	}
	s, c := math.Sincos(radians / 2)
	return NewQuaternion(n.X*s, n.Y*s, n.Z*s, c)
}

// X はX成分を返す。
func (q Quaternion) X() float64 { return q.Imag }

// Y はY成分を返す。
func (q Quaternion) Y() float64 { return q.Jmag }

// Z はZ成分を返す。
func (q Quaternion) Z() float64 { return q.Kmag }

// W はW成分を返す。
func (q Quaternion) W() float64 { return q.Real }

// Vec はベクトル部を返す。
func (q Quaternion) Vec() Vec3 {
	return NewVec3(q.Imag, q.Jmag, q.Kmag)
}

// Muled は q*o を返す。o を先に適用し q を後に適用する回転になる。
func (q Quaternion) Muled(o Quaternion) Quaternion {
	return Quaternion{Number: quat.Mul(q.Number, o.Number)}
}

// Length はノルムを返す。
func (q Quaternion) Length() float64 {
	return quat.Abs(q.Number)
}

// Normalized は正規化した四元数を返す。ノルムがゼロに近い場合は単位四元数を返す。
func (q Quaternion) Normalized() Quaternion {
	n := q.Length()
	if n <= Epsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return QuaternionIdentity()
	}
	return Quaternion{Number: quat.Scale(1/n, q.Number)}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	n := q.Length()
	if n <= Epsilon {
		return QuaternionIdentity()
	}
	return Quaternion{Number: quat.Inv(q.Number)}
}

// Negated は全成分の符号を反転した四元数を返す。同じ回転を表す。
func (q Quaternion) Negated() Quaternion {
	return Quaternion{Number: quat.Scale(-1, q.Number)}
}

// Dot は四元数の内積を返す。
func (q Quaternion) Dot(o Quaternion) float64 {
	return q.Real*o.Real + q.Imag*o.Imag + q.Jmag*o.Jmag + q.Kmag*o.Kmag
}

// MulVec3 はベクトルを回転させる。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	u := q.Vec()
	t := u.Cross(v).MuledScalar(2)
	return v.Added(t.MuledScalar(q.Real)).Added(u.Cross(t))
}

// XAxis は回転後のX軸を返す。
func (q Quaternion) XAxis() Vec3 {
	return q.MulVec3(Vec3UnitX())
}

// YAxis は回転後のY軸を返す。
func (q Quaternion) YAxis() Vec3 {
	return q.MulVec3(Vec3UnitY())
}

// ZAxis は回転後のZ軸を返す。
func (q Quaternion) ZAxis() Vec3 {
	return q.MulVec3(Vec3UnitZ())
}

// AxisVector は指定軸の回転後ベクトルを返す。
func (q Quaternion) AxisVector(axis Axis) Vec3 {
	switch axis {
	case AxisX:
		return q.XAxis()
	case AxisY:
		return q.YAxis()
	case AxisZ:
		return q.ZAxis()
	}
	return Vec3Zero()
}

// Slerp は最短経路の球面線形補間結果を返す。
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	to := o
	if q.Dot(o) < 0 {
		to = o.Negated()
	}
	return quaternionFromMgl(mgl64.QuatSlerp(q.toMgl(), to.toMgl(), t)).Normalized()
}

// Nlerp は最短経路の正規化線形補間結果を返す。
func (q Quaternion) Nlerp(o Quaternion, t float64) Quaternion {
	to := o
	if q.Dot(o) < 0 {
		to = o.Negated()
	}
	return quaternionFromMgl(mgl64.QuatNlerp(q.toMgl(), to.toMgl(), t)).Normalized()
}

// NearEquals は同じ回転を表すか判定する。符号違いの四元数も同一とみなす。
func (q Quaternion) NearEquals(o Quaternion, tolerance float64) bool {
	a := q.Normalized()
	b := o.Normalized()
	if a.Dot(b) < 0 {
		b = b.Negated()
	}
	return math.Abs(a.Real-b.Real) <= tolerance &&
		math.Abs(a.Imag-b.Imag) <= tolerance &&
		math.Abs(a.Jmag-b.Jmag) <= tolerance &&
		math.Abs(a.Kmag-b.Kmag) <= tolerance
}

// IsNaN はいずれかの成分が非数か判定する。
func (q Quaternion) IsNaN() bool {
	return math.IsNaN(q.Real) || math.IsNaN(q.Imag) || math.IsNaN(q.Jmag) || math.IsNaN(q.Kmag)
}

// String はデバッグ用の文字列表現を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f, w=%.5f]", q.Imag, q.Jmag, q.Kmag, q.Real)
}

func (q Quaternion) toMgl() mgl64.Quat {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
}

func quaternionFromMgl(q mgl64.Quat) Quaternion {
	return NewQuaternion(q.V[0], q.V[1], q.V[2], q.W)
}
