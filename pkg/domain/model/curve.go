// 指示: miu200521358
package model

import (
	"math"
	"sort"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

// CurveKey は時刻付きのスカラーキーを表す。
type CurveKey struct {
	Time  float64
	Value float64
}

// FloatCurve は時刻順の線形補間スカラーカーブを表す。
type FloatCurve struct {
	Name string
	Keys []CurveKey
}

// NewFloatCurve はカーブを生成する。
func NewFloatCurve(name string) *FloatCurve {
	return &FloatCurve{Name: name}
}

// AddKey はキーを時刻順に追加する。同時刻のキーが既にあれば値を置き換える。
func (c *FloatCurve) AddKey(time float64, value float64) {
	index := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time >= time })
	if index < len(c.Keys) && c.Keys[index].Time == time {
		c.Keys[index].Value = value
		return
	}
	c.Keys = append(c.Keys, CurveKey{})
	copy(c.Keys[index+1:], c.Keys[index:])
	c.Keys[index] = CurveKey{Time: time, Value: value}
}

// Len はキー数を返す。
func (c *FloatCurve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Keys)
}

// Reset は全キーを削除する。
func (c *FloatCurve) Reset() {
	c.Keys = c.Keys[:0]
}

// Evaluate は時刻の値を線形補間で返す。範囲外は端のキー値を返す。キーがない場合は0。
func (c *FloatCurve) Evaluate(time float64) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	if math.IsNaN(time) || time <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	last := len(c.Keys) - 1
	if time >= c.Keys[last].Time {
		return c.Keys[last].Value
	}

	next := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > time })
	prev := next - 1
	span := c.Keys[next].Time - c.Keys[prev].Time
	if span <= 0 {
		return c.Keys[next].Value
	}
	alpha := (time - c.Keys[prev].Time) / span
	return c.Keys[prev].Value + (c.Keys[next].Value-c.Keys[prev].Value)*alpha
}

// VectorCurve はXYZ各成分を独立した線形カーブで持つベクトルカーブを表す。
// 各成分のキー時刻は常に揃っている。
type VectorCurve struct {
	Axes [3]FloatCurve
}

// NewVectorCurve はベクトルカーブを生成する。
func NewVectorCurve() *VectorCurve {
	return &VectorCurve{}
}

// AddKey は3成分のキーを追加する。
func (c *VectorCurve) AddKey(time float64, value mmath.Vec3) {
	c.Axes[0].AddKey(time, value.X)
	c.Axes[1].AddKey(time, value.Y)
	c.Axes[2].AddKey(time, value.Z)
}

// Len はキー数を返す。
func (c *VectorCurve) Len() int {
	return len(c.Axes[0].Keys)
}

// Reset は全キーを削除する。
func (c *VectorCurve) Reset() {
	for i := range c.Axes {
		c.Axes[i].Reset()
	}
}

// KeyTime はキーの時刻を返す。
func (c *VectorCurve) KeyTime(index int) float64 {
	return c.Axes[0].Keys[index].Time
}

// KeyValue はキーの値を返す。
func (c *VectorCurve) KeyValue(index int) mmath.Vec3 {
	return mmath.NewVec3(c.Axes[0].Keys[index].Value, c.Axes[1].Keys[index].Value, c.Axes[2].Keys[index].Value)
}

// SetKeyComponent は指定成分のキー値を書き換える。
func (c *VectorCurve) SetKeyComponent(axis int, index int, value float64) {
	c.Axes[axis].Keys[index].Value = value
}

// Evaluate は時刻の値を返す。
func (c *VectorCurve) Evaluate(time float64) mmath.Vec3 {
	return mmath.NewVec3(c.Axes[0].Evaluate(time), c.Axes[1].Evaluate(time), c.Axes[2].Evaluate(time))
}

// TransformCurveKey は時刻付きの変換キーを表す。
type TransformCurveKey struct {
	Time      float64
	Transform mmath.Transform
}

// TransformCurve はボーンへ加算適用する変換カーブを表す。
type TransformCurve struct {
	Name string
	Keys []TransformCurveKey
}

// AddKey はキーを時刻順に追加する。同時刻のキーが既にあれば置き換える。
func (c *TransformCurve) AddKey(time float64, transform mmath.Transform) {
	index := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time >= time })
	if index < len(c.Keys) && c.Keys[index].Time == time {
		c.Keys[index].Transform = transform
		return
	}
	c.Keys = append(c.Keys, TransformCurveKey{})
	copy(c.Keys[index+1:], c.Keys[index:])
	c.Keys[index] = TransformCurveKey{Time: time, Transform: transform}
}

// Evaluate は時刻の変換を補間して返す。キーがない場合は恒等変換。
func (c *TransformCurve) Evaluate(time float64) mmath.Transform {
	if c == nil || len(c.Keys) == 0 {
		return mmath.TransformIdentity()
	}
	if math.IsNaN(time) || time <= c.Keys[0].Time {
		return c.Keys[0].Transform
	}
	last := len(c.Keys) - 1
	if time >= c.Keys[last].Time {
		return c.Keys[last].Transform
	}
	next := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > time })
	prev := next - 1
	span := c.Keys[next].Time - c.Keys[prev].Time
	if span <= 0 {
		return c.Keys[next].Transform
	}
	return c.Keys[prev].Transform.Lerp(c.Keys[next].Transform, (time-c.Keys[prev].Time)/span)
}
