// 指示: miu200521358
package mmath

import "math"

// Rotator はピッチ・ヨー・ロール(度)による回転指定を表す。
// ピッチはY軸、ヨーはZ軸、ロールはX軸回りの回転。
type Rotator struct {
	Pitch float64 `toml:"pitch" json:"pitch"`
	Yaw   float64 `toml:"yaw" json:"yaw"`
	Roll  float64 `toml:"roll" json:"roll"`
}

// NewRotator は角度(度)から回転指定を生成する。
func NewRotator(pitch, yaw, roll float64) Rotator {
	return Rotator{Pitch: pitch, Yaw: yaw, Roll: roll}
}

// Quaternion は回転指定を四元数へ変換する。
func (r Rotator) Quaternion() Quaternion {
	sp, cp := math.Sincos(DegToRad(r.Pitch) / 2)
	sy, cy := math.Sincos(DegToRad(r.Yaw) / 2)
	sr, cr := math.Sincos(DegToRad(r.Roll) / 2)

	return NewQuaternion(
		cr*sp*sy-sr*cp*cy,
		-cr*sp*cy-sr*cp*sy,
		cr*cp*sy-sr*sp*cy,
		cr*cp*cy+sr*sp*sy,
	).Normalized()
}

// IsZero は無回転か判定する。
func (r Rotator) IsZero() bool {
	return r.Pitch == 0 && r.Yaw == 0 && r.Roll == 0
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radian float64) float64 {
	return radian * 180.0 / math.Pi
}

// NormalizeAxis は角度(度)を (-180, 180] に正規化する。
func NormalizeAxis(degree float64) float64 {
	angle := math.Mod(degree, 360.0)
	if angle < 0 {
		angle += 360.0
	}
	if angle > 180.0 {
		angle -= 360.0
	}
	return angle
}

// Clamp は値を min-max でクランプする。
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MappedRangeClamped は値を入力範囲から出力範囲へ線形に写像する。範囲外はクランプする。
func MappedRangeClamped(inMin, inMax, outMin, outMax, value float64) float64 {
	span := inMax - inMin
	if math.Abs(span) <= Epsilon {
		if value < inMin {
			return outMin
		}
		return outMax
	}
	t := Clamp((value-inMin)/span, 0, 1)
	return outMin + (outMax-outMin)*t
}
