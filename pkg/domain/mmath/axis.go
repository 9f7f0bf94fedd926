// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"
	"strings"
)

// Axis は座標軸を表す。
type Axis int

const (
	// AxisNone は軸未指定を表す。
	AxisNone Axis = iota
	// AxisX はX軸を表す。
	AxisX
	// AxisY はY軸を表す。
	AxisY
	// AxisZ はZ軸を表す。
	AxisZ
)

// String は軸名を返す。
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "None"
}

// ParseAxis は軸名を解析する。
func ParseAxis(value string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	return AxisNone, fmt.Errorf("軸名が不正です: %q", value)
}

// UnitVector は軸方向の単位ベクトルを返す。
func (a Axis) UnitVector() Vec3 {
	switch a {
	case AxisX:
		return Vec3UnitX()
	case AxisY:
		return Vec3UnitY()
	case AxisZ:
		return Vec3UnitZ()
	}
	return Vec3Zero()
}

// FindCoDirection は回転の3軸のうち direction と最も平行に近い軸を返す。
// 同方向なら +1、逆方向なら -1 を符号として返す。
func FindCoDirection(rotation Quaternion, direction Vec3) (Axis, float64) {
	dir := direction.Normalized()

	dp1 := rotation.XAxis().Dot(dir)
	dp2 := rotation.YAxis().Dot(dir)
	dp3 := rotation.ZAxis().Dot(dir)

	sign := func(value float64) float64 {
		if value > 0 {
			return 1
		}
		return -1
	}

	abs1, abs2, abs3 := math.Abs(dp1), math.Abs(dp2), math.Abs(dp3)
	if abs1 > abs2 && abs1 > abs3 {
		return AxisX, sign(dp1)
	}
	if abs2 > abs1 && abs2 > abs3 {
		return AxisY, sign(dp2)
	}
	return AxisZ, sign(dp3)
}

// RemainingAxis は前方軸・下方軸のどちらとも異なる軸を返す。
// 両者が同じ軸の場合はX,Yの順で未使用の軸を、いずれも使われていればZを返す。
func RemainingAxis(forward Axis, down Axis) Axis {
	if forward != AxisX && down != AxisX {
		return AxisX
	}
	if forward != AxisY && down != AxisY {
		return AxisY
	}
	return AxisZ
}

// MarshalText は軸名を返す。
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText は軸名を解析する。
func (a *Axis) UnmarshalText(text []byte) error {
	axis, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = axis
	return nil
}
