// 指示: miu200521358
package rootmotion

import (
	"fmt"
	"math"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

// Direction はモデル空間での初期移動方向を表す。
type Direction int

const (
	DirectionX Direction = iota
	DirectionXY
	DirectionY
	DirectionXnY
	DirectionXn
	DirectionXnYn
	DirectionYn
	DirectionXYn
	// DirectionZ は垂直方向。ルート高さは両足の低い方に追従する。
	DirectionZ
)

var directionNames = map[Direction]string{
	DirectionX:    "x",
	DirectionXY:   "xy",
	DirectionY:    "y",
	DirectionXnY:  "-xy",
	DirectionXn:   "-x",
	DirectionXnYn: "-x-y",
	DirectionYn:   "-y",
	DirectionXYn:  "x-y",
	DirectionZ:    "z",
}

// String は方向名を返す。
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "y"
}

// ParseDirection は方向名を解析する。空文字は +Y とする。
func ParseDirection(value string) (Direction, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DirectionY, nil
	}
	for direction, name := range directionNames {
		if name == normalized {
			return direction, nil
		}
	}
	return DirectionY, fmt.Errorf("移動方向が不正です: %q", value)
}

// Vector は方向のベクトルを返す。斜め方向は正規化しない。
func (d Direction) Vector() mmath.Vec3 {
	switch d {
	case DirectionX:
		return mmath.NewVec3(1, 0, 0)
	case DirectionXY:
		return mmath.NewVec3(1, 1, 0)
	case DirectionXnY:
		return mmath.NewVec3(-1, 1, 0)
	case DirectionXn:
		return mmath.NewVec3(-1, 0, 0)
	case DirectionXnYn:
		return mmath.NewVec3(-1, -1, 0)
	case DirectionYn:
		return mmath.NewVec3(0, -1, 0)
	case DirectionXYn:
		return mmath.NewVec3(1, -1, 0)
	case DirectionZ:
		return mmath.NewVec3(0, 0, 1)
	}
	return mmath.NewVec3(0, 1, 0)
}

// DistanceAxis は距離計算に使う軸の組を表す。
type DistanceAxis int

const (
	DistanceAxisX DistanceAxis = iota
	DistanceAxisY
	DistanceAxisZ
	DistanceAxisXY
	DistanceAxisXZ
	DistanceAxisYZ
	DistanceAxisXYZ
)

var distanceAxisNames = map[DistanceAxis]string{
	DistanceAxisX:   "x",
	DistanceAxisY:   "y",
	DistanceAxisZ:   "z",
	DistanceAxisXY:  "xy",
	DistanceAxisXZ:  "xz",
	DistanceAxisYZ:  "yz",
	DistanceAxisXYZ: "xyz",
}

// String は軸名を返す。
func (a DistanceAxis) String() string {
	if name, ok := distanceAxisNames[a]; ok {
		return name
	}
	return "xy"
}

// ParseDistanceAxis は軸名を解析する。空文字は XY とする。
func ParseDistanceAxis(value string) (DistanceAxis, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DistanceAxisXY, nil
	}
	for axis, name := range distanceAxisNames {
		if name == normalized {
			return axis, nil
		}
	}
	return DistanceAxisXY, fmt.Errorf("距離軸が不正です: %q", value)
}

// MagnitudeSq は軸の組に限定したベクトル長の2乗を返す。
func (a DistanceAxis) MagnitudeSq(v mmath.Vec3) float64 {
	switch a {
	case DistanceAxisX:
		return v.X * v.X
	case DistanceAxisY:
		return v.Y * v.Y
	case DistanceAxisZ:
		return v.Z * v.Z
	case DistanceAxisXZ:
		return v.X*v.X + v.Z*v.Z
	case DistanceAxisYZ:
		return v.Y*v.Y + v.Z*v.Z
	case DistanceAxisXYZ:
		return v.X*v.X + v.Y*v.Y + v.Z*v.Z
	}
	return v.X*v.X + v.Y*v.Y
}

// Magnitude は軸の組に限定したベクトル長を返す。
func (a DistanceAxis) Magnitude(v mmath.Vec3) float64 {
	switch a {
	case DistanceAxisX:
		return math.Abs(v.X)
	case DistanceAxisY:
		return math.Abs(v.Y)
	case DistanceAxisZ:
		return math.Abs(v.Z)
	}
	return math.Sqrt(a.MagnitudeSq(v))
}

// ReferencePoint は距離の基準時刻の決め方を表す。
type ReferencePoint int

const (
	// ReferenceBeginAtStart はクリップ先頭を基準とする。
	ReferenceBeginAtStart ReferencePoint = iota
	// ReferenceStopAtEnd はクリップ末尾を基準とする。
	ReferenceStopAtEnd
	// ReferenceFindFromMotion は移動速度が最小になる時刻を基準とする。
	ReferenceFindFromMotion
)

// String は基準名を返す。
func (r ReferencePoint) String() string {
	switch r {
	case ReferenceStopAtEnd:
		return "stop_at_end"
	case ReferenceFindFromMotion:
		return "find_from_motion"
	}
	return "begin_at_start"
}

// ParseReferencePoint は基準名を解析する。空文字は BeginAtStart とする。
func ParseReferencePoint(value string) (ReferencePoint, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "begin_at_start":
		return ReferenceBeginAtStart, nil
	case "stop_at_end":
		return ReferenceStopAtEnd, nil
	case "find_from_motion":
		return ReferenceFindFromMotion, nil
	}
	return ReferenceBeginAtStart, fmt.Errorf("距離基準が不正です: %q", value)
}

// MarshalText は方向名を返す。
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText は方向名を解析する。
func (d *Direction) UnmarshalText(text []byte) error {
	direction, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = direction
	return nil
}

// MarshalText は距離軸名を返す。
func (a DistanceAxis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText は距離軸名を解析する。
func (a *DistanceAxis) UnmarshalText(text []byte) error {
	axis, err := ParseDistanceAxis(string(text))
	if err != nil {
		return err
	}
	*a = axis
	return nil
}

// MarshalText は基準点名を返す。
func (r ReferencePoint) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText は基準点名を解析する。
func (r *ReferencePoint) UnmarshalText(text []byte) error {
	point, err := ParseReferencePoint(string(text))
	if err != nil {
		return err
	}
	*r = point
	return nil
}
