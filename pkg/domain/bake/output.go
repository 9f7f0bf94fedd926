// 指示: miu200521358
package bake

import (
	"fmt"
	"slices"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

// Output は1回の処理で焼き込むトラックとカーブを保持する出力バッファ。
// 処理が完了するまでクリップには書き込まない。
type Output struct {
	frameCount    int
	trackOrder    []string
	tracks        map[string]*model.Track
	curveOrder    []string
	curves        map[string]*model.FloatCurve
	removedCurves []string
	warnings      []string
}

// NewOutput は出力バッファを生成する。
func NewOutput(frameCount int) *Output {
	return &Output{
		frameCount: frameCount,
		tracks:     map[string]*model.Track{},
		curves:     map[string]*model.FloatCurve{},
	}
}

// FrameCount はフレーム数を返す。
func (o *Output) FrameCount() int {
	return o.frameCount
}

// Bake はボーンのトラックを丸ごと置き換える。回転は正規化して保存する。
// 長さがフレーム数と一致しない場合は何も書き込まずにエラーを返す。
func (o *Output) Bake(boneName string, positions []mmath.Vec3, rotations []mmath.Quaternion, scales []mmath.Vec3) error {
	if len(positions) != o.frameCount || len(rotations) != o.frameCount || len(scales) != o.frameCount {
		return fmt.Errorf("%w: %s (pos=%d rot=%d scale=%d frames=%d)",
			model.ErrTrackLength, boneName, len(positions), len(rotations), len(scales), o.frameCount)
	}

	track := model.NewTrack(o.frameCount)
	copy(track.Positions, positions)
	copy(track.Scales, scales)
	for i, rotation := range rotations {
		track.Rotations[i] = rotation.Normalized()
	}

	o.removeTrack(boneName)
	o.trackOrder = append(o.trackOrder, boneName)
	o.tracks[model.NameKey(boneName)] = track
	return nil
}

// BakeTrack はトラックをそのまま焼き込む。
func (o *Output) BakeTrack(boneName string, track *model.Track) error {
	if track == nil {
		return fmt.Errorf("%w: %s", model.ErrTrackLength, boneName)
	}
	return o.Bake(boneName, track.Positions, track.Rotations, track.Scales)
}

// BakeTransforms はフレームごとの変換列を焼き込む。
func (o *Output) BakeTransforms(boneName string, transforms []mmath.Transform) error {
	track := model.NewTrack(len(transforms))
	for i, transform := range transforms {
		track.SetKey(i, transform)
	}
	return o.BakeTrack(boneName, track)
}

func (o *Output) removeTrack(boneName string) {
	key := model.NameKey(boneName)
	if _, ok := o.tracks[key]; !ok {
		return
	}
	delete(o.tracks, key)
	o.trackOrder = slices.DeleteFunc(o.trackOrder, func(name string) bool { return model.NameKey(name) == key })
}

// Track は焼き込み済みトラックを返す。
func (o *Output) Track(boneName string) (*model.Track, bool) {
	track, ok := o.tracks[model.NameKey(boneName)]
	return track, ok
}

// TrackNames は焼き込み順のトラック名を返す。
func (o *Output) TrackNames() []string {
	return slices.Clone(o.trackOrder)
}

// SetCurve はカーブを置き換える。同名カーブの削除予約は取り消す。
func (o *Output) SetCurve(curve *model.FloatCurve) {
	key := model.NameKey(curve.Name)
	if _, ok := o.curves[key]; !ok {
		o.curveOrder = append(o.curveOrder, curve.Name)
	}
	o.curves[key] = curve
	o.removedCurves = slices.DeleteFunc(o.removedCurves, func(name string) bool { return model.NameKey(name) == key })
}

// RemoveCurve はカーブの削除を予約する。
func (o *Output) RemoveCurve(name string) {
	key := model.NameKey(name)
	if _, ok := o.curves[key]; ok {
		delete(o.curves, key)
		o.curveOrder = slices.DeleteFunc(o.curveOrder, func(n string) bool { return model.NameKey(n) == key })
	}
	if !slices.ContainsFunc(o.removedCurves, func(n string) bool { return model.NameKey(n) == key }) {
		o.removedCurves = append(o.removedCurves, name)
	}
}

// Curve は出力カーブを返す。
func (o *Output) Curve(name string) (*model.FloatCurve, bool) {
	curve, ok := o.curves[model.NameKey(name)]
	return curve, ok
}

// Curves は追加順の出力カーブを返す。
func (o *Output) Curves() []*model.FloatCurve {
	curves := make([]*model.FloatCurve, 0, len(o.curveOrder))
	for _, name := range o.curveOrder {
		curves = append(curves, o.curves[model.NameKey(name)])
	}
	return curves
}

// RemovedCurves は削除予約されたカーブ名を返す。
func (o *Output) RemovedCurves() []string {
	return slices.Clone(o.removedCurves)
}

// AddWarning は警告IDを重複なく記録する。
func (o *Output) AddWarning(warningID string) {
	if !slices.Contains(o.warnings, warningID) {
		o.warnings = append(o.warnings, warningID)
	}
}

// Warnings は記録された警告IDを返す。
func (o *Output) Warnings() []string {
	return slices.Clone(o.warnings)
}

// IsEmpty は書き込む内容がないか判定する。
func (o *Output) IsEmpty() bool {
	return len(o.trackOrder) == 0 && len(o.curveOrder) == 0 && len(o.removedCurves) == 0
}

// ApplyTo は出力をクリップへ反映する。トラックは削除してから追加する。
// フレーム数とボーン名を先に検証し、不一致があればクリップを変更せずにエラーを返す。
func (o *Output) ApplyTo(clip *model.AnimationClip) error {
	if clip.FrameCount != o.frameCount {
		return fmt.Errorf("%w: フレーム数が一致しません (%d != %d)", model.ErrTrackLength, o.frameCount, clip.FrameCount)
	}
	for _, name := range o.trackOrder {
		if _, ok := clip.Skeleton.BoneIndex(name); !ok {
			return model.BoneNotFoundError(name)
		}
	}

	for _, name := range o.removedCurves {
		clip.RemoveFloatCurve(name)
	}
	for _, name := range o.trackOrder {
		clip.RemoveTrack(name)
		if err := clip.SetTrack(name, o.tracks[model.NameKey(name)]); err != nil {
			return err
		}
	}
	for _, curve := range o.Curves() {
		clip.RemoveFloatCurve(curve.Name)
		clip.SetFloatCurve(curve)
	}
	return nil
}
