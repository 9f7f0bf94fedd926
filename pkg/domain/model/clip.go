// 指示: miu200521358
package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/tiendc/go-deepcopy"
)

// Interpolation はキー間の補間方式を表す。
type Interpolation int

const (
	// InterpolationLinear は線形補間。
	InterpolationLinear Interpolation = iota
	// InterpolationCubic は3次補間。
	InterpolationCubic
)

// String は補間方式名を返す。
func (i Interpolation) String() string {
	if i == InterpolationCubic {
		return "cubic"
	}
	return "linear"
}

// ParseInterpolation は補間方式名を解析する。空文字は線形とする。
func ParseInterpolation(value string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "linear":
		return InterpolationLinear, nil
	case "cubic":
		return InterpolationCubic, nil
	}
	return InterpolationLinear, fmt.Errorf("補間方式が不正です: %q", value)
}

// Track は1ボーン分のフレームごとのローカル変換キーを表す。
type Track struct {
	Positions []mmath.Vec3
	Rotations []mmath.Quaternion
	Scales    []mmath.Vec3
}

// NewTrack はフレーム数分のキーを確保したトラックを生成する。
func NewTrack(frameCount int) *Track {
	return &Track{
		Positions: make([]mmath.Vec3, frameCount),
		Rotations: make([]mmath.Quaternion, frameCount),
		Scales:    make([]mmath.Vec3, frameCount),
	}
}

// Len はキー数を返す。3系列の長さが揃っていない場合は -1。
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	if len(t.Positions) != len(t.Rotations) || len(t.Positions) != len(t.Scales) {
		return -1
	}
	return len(t.Positions)
}

// Key はフレームのキーを変換として返す。
func (t *Track) Key(frame int) mmath.Transform {
	return mmath.NewTransform(t.Positions[frame], t.Rotations[frame], t.Scales[frame])
}

// SetKey はフレームのキーを設定する。
func (t *Track) SetKey(frame int, transform mmath.Transform) {
	t.Positions[frame] = transform.Translation
	t.Rotations[frame] = transform.Rotation
	t.Scales[frame] = transform.Scale
}

type namedTrack struct {
	name  string
	track *Track
}

type namedFloatCurve struct {
	name  string
	curve *FloatCurve
}

type namedTransformCurve struct {
	name  string
	curve *TransformCurve
}

// AnimationClip はスケルトンに対するフレーム列とトラック・カーブを保持する。
// フレーム間隔は一定で、0番フレームが時刻0、最終フレームが Duration に対応する。
type AnimationClip struct {
	Name          string
	Skeleton      *Skeleton
	FrameCount    int
	FrameRate     float64
	Interpolation Interpolation

	tracks          map[string]namedTrack
	floatCurves     map[string]namedFloatCurve
	transformCurves map[string]namedTransformCurve
}

// NewAnimationClip はアニメーションクリップを生成する。
func NewAnimationClip(name string, skeleton *Skeleton, frameCount int, frameRate float64) (*AnimationClip, error) {
	if skeleton == nil {
		return nil, fmt.Errorf("%w: スケルトンがありません", ErrInvalidClip)
	}
	if frameCount <= 0 {
		return nil, fmt.Errorf("%w: フレーム数が不正です: %d", ErrInvalidClip, frameCount)
	}
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return nil, fmt.Errorf("%w: フレームレートが不正です: %v", ErrInvalidClip, frameRate)
	}
	return &AnimationClip{
		Name:            name,
		Skeleton:        skeleton,
		FrameCount:      frameCount,
		FrameRate:       frameRate,
		tracks:          map[string]namedTrack{},
		floatCurves:     map[string]namedFloatCurve{},
		transformCurves: map[string]namedTransformCurve{},
	}, nil
}

// FrameInterval はフレーム間隔(秒)を返す。
func (c *AnimationClip) FrameInterval() float64 {
	return 1 / c.FrameRate
}

// Duration は再生長(秒)を返す。
func (c *AnimationClip) Duration() float64 {
	if c.FrameCount <= 1 {
		return 0
	}
	return float64(c.FrameCount-1) / c.FrameRate
}

// TimeAtFrame はフレーム番号の時刻を返す。範囲外は端に丸める。
func (c *AnimationClip) TimeAtFrame(frame int) float64 {
	if frame <= 0 {
		return 0
	}
	if frame >= c.FrameCount-1 {
		return c.Duration()
	}
	return float64(frame) / c.FrameRate
}

// Track はボーン名のトラックを返す。
func (c *AnimationClip) Track(boneName string) (*Track, bool) {
	entry, ok := c.tracks[NameKey(boneName)]
	if !ok {
		return nil, false
	}
	return entry.track, true
}

// HasTrack はボーン名のトラックが存在するか判定する。
func (c *AnimationClip) HasTrack(boneName string) bool {
	_, ok := c.tracks[NameKey(boneName)]
	return ok
}

// SetTrack はトラックを置き換える。既存トラックは破棄される。
func (c *AnimationClip) SetTrack(boneName string, track *Track) error {
	if track.Len() != c.FrameCount {
		return fmt.Errorf("%w: %s (%d != %d)", ErrTrackLength, boneName, track.Len(), c.FrameCount)
	}
	c.tracks[NameKey(boneName)] = namedTrack{name: boneName, track: track}
	return nil
}

// RemoveTrack はトラックを削除する。削除した場合 true を返す。
func (c *AnimationClip) RemoveTrack(boneName string) bool {
	key := NameKey(boneName)
	if _, ok := c.tracks[key]; !ok {
		return false
	}
	delete(c.tracks, key)
	return true
}

// TrackNames はトラック名を名前順で返す。
func (c *AnimationClip) TrackNames() []string {
	names := make([]string, 0, len(c.tracks))
	for _, entry := range c.tracks {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// FloatCurve は名前のスカラーカーブを返す。
func (c *AnimationClip) FloatCurve(name string) (*FloatCurve, bool) {
	entry, ok := c.floatCurves[NameKey(name)]
	if !ok {
		return nil, false
	}
	return entry.curve, true
}

// HasFloatCurve はスカラーカーブが存在するか判定する。
func (c *AnimationClip) HasFloatCurve(name string) bool {
	_, ok := c.floatCurves[NameKey(name)]
	return ok
}

// SetFloatCurve はスカラーカーブを置き換える。
func (c *AnimationClip) SetFloatCurve(curve *FloatCurve) {
	c.floatCurves[NameKey(curve.Name)] = namedFloatCurve{name: curve.Name, curve: curve}
}

// RemoveFloatCurve はスカラーカーブを削除する。削除した場合 true を返す。
func (c *AnimationClip) RemoveFloatCurve(name string) bool {
	key := NameKey(name)
	if _, ok := c.floatCurves[key]; !ok {
		return false
	}
	delete(c.floatCurves, key)
	return true
}

// FloatCurveNames はスカラーカーブ名を名前順で返す。
func (c *AnimationClip) FloatCurveNames() []string {
	names := make([]string, 0, len(c.floatCurves))
	for _, entry := range c.floatCurves {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// TransformCurve は名前の変換カーブを返す。
func (c *AnimationClip) TransformCurve(name string) (*TransformCurve, bool) {
	entry, ok := c.transformCurves[NameKey(name)]
	if !ok {
		return nil, false
	}
	return entry.curve, true
}

// SetTransformCurve は変換カーブを置き換える。
func (c *AnimationClip) SetTransformCurve(curve *TransformCurve) {
	c.transformCurves[NameKey(curve.Name)] = namedTransformCurve{name: curve.Name, curve: curve}
}

// RemoveTransformCurve は変換カーブを削除する。削除した場合 true を返す。
func (c *AnimationClip) RemoveTransformCurve(name string) bool {
	key := NameKey(name)
	if _, ok := c.transformCurves[key]; !ok {
		return false
	}
	delete(c.transformCurves, key)
	return true
}

// TransformCurveNames は変換カーブ名を名前順で返す。
func (c *AnimationClip) TransformCurveNames() []string {
	names := make([]string, 0, len(c.transformCurves))
	for _, entry := range c.transformCurves {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// Validate はトラック長とトラック名の整合を検証する。
func (c *AnimationClip) Validate() error {
	for _, entry := range c.tracks {
		if entry.track.Len() != c.FrameCount {
			return fmt.Errorf("%w: %s (%d != %d)", ErrTrackLength, entry.name, entry.track.Len(), c.FrameCount)
		}
		if _, ok := c.Skeleton.BoneIndex(entry.name); !ok {
			return BoneNotFoundError(entry.name)
		}
	}
	return nil
}

// Clone はトラック・カーブを深く複製したクリップを返す。スケルトンは共有する。
func (c *AnimationClip) Clone() (*AnimationClip, error) {
	out := &AnimationClip{
		Name:            c.Name,
		Skeleton:        c.Skeleton,
		FrameCount:      c.FrameCount,
		FrameRate:       c.FrameRate,
		Interpolation:   c.Interpolation,
		tracks:          make(map[string]namedTrack, len(c.tracks)),
		floatCurves:     make(map[string]namedFloatCurve, len(c.floatCurves)),
		transformCurves: make(map[string]namedTransformCurve, len(c.transformCurves)),
	}
	for key, entry := range c.tracks {
		track := &Track{}
		if err := deepcopy.Copy(track, entry.track); err != nil {
			return nil, fmt.Errorf("トラックの複製に失敗しました: %s: %w", entry.name, err)
		}
		out.tracks[key] = namedTrack{name: entry.name, track: track}
	}
	for key, entry := range c.floatCurves {
		curve := &FloatCurve{}
		if err := deepcopy.Copy(curve, entry.curve); err != nil {
			return nil, fmt.Errorf("カーブの複製に失敗しました: %s: %w", entry.name, err)
		}
		out.floatCurves[key] = namedFloatCurve{name: entry.name, curve: curve}
	}
	for key, entry := range c.transformCurves {
		curve := &TransformCurve{}
		if err := deepcopy.Copy(curve, entry.curve); err != nil {
			return nil, fmt.Errorf("カーブの複製に失敗しました: %s: %w", entry.name, err)
		}
		out.transformCurves[key] = namedTransformCurve{name: entry.name, curve: curve}
	}
	return out, nil
}
