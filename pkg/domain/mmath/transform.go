// 指示: miu200521358
package mmath

import "fmt"

// Transform は平行移動・回転・スケールを持つ変換を表す。
// A.Muled(B) は A を適用した後に B を適用する合成になる。
type Transform struct {
	Translation Vec3       `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
	Scale       Vec3       `json:"scale"`
}

// TransformIdentity は恒等変換を返す。
func TransformIdentity() Transform {
	return Transform{
		Translation: Vec3Zero(),
		Rotation:    QuaternionIdentity(),
		Scale:       Vec3One(),
	}
}

// NewTransform は各要素から変換を生成する。
func NewTransform(translation Vec3, rotation Quaternion, scale Vec3) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: scale}
}

// NewTranslationTransform は平行移動のみの変換を生成する。
func NewTranslationTransform(translation Vec3) Transform {
	t := TransformIdentity()
	t.Translation = translation
	return t
}

// NewRotationTransform は回転のみの変換を生成する。
func NewRotationTransform(rotation Quaternion) Transform {
	t := TransformIdentity()
	t.Rotation = rotation
	return t
}

// Muled は t を適用した後に parent を適用する合成変換を返す。
// ローカル変換を親のコンポーネント空間変換と合成する用途に使う。
func (t Transform) Muled(parent Transform) Transform {
	return Transform{
		Translation: parent.Rotation.MulVec3(parent.Scale.Muled(t.Translation)).Added(parent.Translation),
		Rotation:    parent.Rotation.Muled(t.Rotation),
		Scale:       t.Scale.Muled(parent.Scale),
	}
}

// RelativeTo は other を基準とした相対変換を返す。
// 戻り値 r は r.Muled(other) == t を満たす。
func (t Transform) RelativeTo(other Transform) Transform {
	recipScale := other.Scale.SafeReciprocal()
	inverse := other.Rotation.Normalized().Inverted()
	return Transform{
		Translation: inverse.MulVec3(t.Translation.Subed(other.Translation)).Muled(recipScale),
		Rotation:    inverse.Muled(t.Rotation),
		Scale:       t.Scale.Muled(recipScale),
	}
}

// Inverted は逆変換を返す。
func (t Transform) Inverted() Transform {
	return TransformIdentity().RelativeTo(t)
}

// TransformPosition は点を変換する。
func (t Transform) TransformPosition(v Vec3) Vec3 {
	return t.Rotation.MulVec3(t.Scale.Muled(v)).Added(t.Translation)
}

// NormalizedRotation は回転を正規化した変換を返す。
func (t Transform) NormalizedRotation() Transform {
	t.Rotation = t.Rotation.Normalized()
	return t
}

// WithTranslation は平行移動を置き換えた変換を返す。
func (t Transform) WithTranslation(translation Vec3) Transform {
	t.Translation = translation
	return t
}

// WithRotation は回転を置き換えた変換を返す。
func (t Transform) WithRotation(rotation Quaternion) Transform {
	t.Rotation = rotation
	return t
}

// WithScale はスケールを置き換えた変換を返す。
func (t Transform) WithScale(scale Vec3) Transform {
	t.Scale = scale
	return t
}

// AddedTranslation は平行移動を加算した変換を返す。
func (t Transform) AddedTranslation(delta Vec3) Transform {
	t.Translation = t.Translation.Added(delta)
	return t
}

// ScaledTranslation は平行移動をスカラー倍した変換を返す。
func (t Transform) ScaledTranslation(scale float64) Transform {
	t.Translation = t.Translation.MuledScalar(scale)
	return t
}

// Lerp は平行移動とスケールを線形補間し、回転を球面線形補間した変換を返す。
func (t Transform) Lerp(o Transform, alpha float64) Transform {
	return Transform{
		Translation: t.Translation.Lerp(o.Translation, alpha),
		Rotation:    t.Rotation.Slerp(o.Rotation, alpha),
		Scale:       t.Scale.Lerp(o.Scale, alpha),
	}
}

// NearEquals は各要素が許容誤差以内で一致するか判定する。
func (t Transform) NearEquals(o Transform, tolerance float64) bool {
	return t.Translation.NearEquals(o.Translation, tolerance) &&
		t.Rotation.NearEquals(o.Rotation, tolerance) &&
		t.Scale.NearEquals(o.Scale, tolerance)
}

// IsNaN はいずれかの要素が非数か判定する。
func (t Transform) IsNaN() bool {
	return t.Translation.IsNaN() || t.Rotation.IsNaN() || t.Scale.IsNaN()
}

// Mirrored は指定軸で鏡映した変換を返す。
// 鏡映で反転した手系は、鏡映後のX軸・Y軸から回転を組み直して右手系へ戻す。スケールは1に揃える。
func (t Transform) Mirrored(axis Axis) Transform {
	flip := Vec3One().WithComponent(axis, -1)
	xAxis := t.Rotation.XAxis().Muled(flip)
	yAxis := t.Rotation.YAxis().Muled(flip)
	return Transform{
		Translation: t.Translation.Muled(flip),
		Rotation:    MakeRotFromXY(xAxis, yAxis),
		Scale:       Vec3One(),
	}
}

// String はデバッグ用の文字列表現を返す。
func (t Transform) String() string {
	return fmt.Sprintf("T%s R%s S%s", t.Translation, t.Rotation, t.Scale)
}
