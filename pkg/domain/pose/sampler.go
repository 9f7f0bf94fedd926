// 指示: miu200521358
package pose

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

const frameSnapTolerance = 1e-9

// Sampler はクリップの任意時刻のボーン変換を評価する。
// 評価は読み取り専用で、複数ゴルーチンから同時に呼び出せる。
type Sampler struct {
	clip     *model.AnimationClip
	skeleton *model.Skeleton
	walker   *Walker
	tracks   []*model.Track
}

// NewSampler はクリップから Sampler を生成する。
func NewSampler(clip *model.AnimationClip) *Sampler {
	return NewSamplerWithWalker(clip, NewWalker(clip.Skeleton))
}

// NewSamplerWithWalker は既存の Walker を共有して Sampler を生成する。
func NewSamplerWithWalker(clip *model.AnimationClip, walker *Walker) *Sampler {
	skeleton := clip.Skeleton
	tracks := make([]*model.Track, skeleton.Len())
	for i := range tracks {
		if track, ok := clip.Track(skeleton.BoneName(i)); ok {
			tracks[i] = track
		}
	}
	return &Sampler{clip: clip, skeleton: skeleton, walker: walker, tracks: tracks}
}

// Clip は評価対象のクリップを返す。
func (s *Sampler) Clip() *model.AnimationClip {
	return s.clip
}

// Walker は階層ヘルパーを返す。
func (s *Sampler) Walker() *Walker {
	return s.walker
}

// HasTrack はボーンにトラックがあるか判定する。
func (s *Sampler) HasTrack(boneIndex int) bool {
	return s.tracks[boneIndex] != nil
}

// ClampTime は時刻を [0, duration] に丸める。非数は0とする。
func ClampTime(time float64, duration float64) float64 {
	if math.IsNaN(time) || time < 0 {
		return 0
	}
	if time > duration {
		return duration
	}
	return time
}

// WrapTime は時刻を [0, duration] の範囲でループさせる。非数は0とする。
func WrapTime(time float64, duration float64) float64 {
	if math.IsNaN(time) || math.IsInf(time, 0) || duration <= 0 {
		return 0
	}
	if time >= 0 && time <= duration {
		return time
	}
	wrapped := math.Mod(time, duration)
	if wrapped < 0 {
		wrapped += duration
	}
	return wrapped
}

// LocalPoseAt はボーンのローカル変換を時刻で評価する。トラックがなければ参照姿勢を返す。
func (s *Sampler) LocalPoseAt(boneName string, time float64) (mmath.Transform, error) {
	index, err := s.walker.BoneIndex(boneName)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	return s.LocalPoseAtIndex(index, time), nil
}

// LocalPosesAt は複数ボーンのローカル変換を同一時刻で評価する。
func (s *Sampler) LocalPosesAt(boneNames []string, time float64) ([]mmath.Transform, error) {
	poses := make([]mmath.Transform, len(boneNames))
	for i, name := range boneNames {
		local, err := s.LocalPoseAt(name, time)
		if err != nil {
			return nil, err
		}
		poses[i] = local
	}
	return poses, nil
}

// LocalPoseAtFrame はボーンのローカル変換をフレーム番号で評価する。
func (s *Sampler) LocalPoseAtFrame(boneName string, frame int) (mmath.Transform, error) {
	return s.LocalPoseAt(boneName, s.clip.TimeAtFrame(frame))
}

// LocalPoseAtIndex はボーンインデックスのローカル変換を時刻で評価する。
func (s *Sampler) LocalPoseAtIndex(boneIndex int, time float64) mmath.Transform {
	track := s.tracks[boneIndex]
	if track == nil {
		return s.skeleton.ReferenceLocal(boneIndex)
	}
	return s.sampleTrack(track, time)
}

// RetargetedLocalPoseAtIndex はリターゲット方式を適用したローカル変換を返す。
// Skeleton 方式のボーンは平行移動・スケールを参照姿勢から取り、回転のみトラックから取る。
func (s *Sampler) RetargetedLocalPoseAtIndex(boneIndex int, time float64) mmath.Transform {
	return ApplyRetargetMode(s.skeleton, boneIndex, s.LocalPoseAtIndex(boneIndex, time))
}

// ApplyRetargetMode はボーンのリターゲット方式に従ってローカル変換を補正する。
func ApplyRetargetMode(skeleton *model.Skeleton, boneIndex int, local mmath.Transform) mmath.Transform {
	switch skeleton.RetargetMode(boneIndex) {
	case model.RetargetModeSkeleton:
		ref := skeleton.ReferenceLocal(boneIndex)
		return mmath.NewTransform(ref.Translation, local.Rotation, ref.Scale)
	default:
		return local
	}
}

// ComponentPoseAt はボーンのコンポーネント空間変換を時刻で評価する。
func (s *Sampler) ComponentPoseAt(boneName string, time float64) (mmath.Transform, error) {
	index, err := s.walker.BoneIndex(boneName)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	return s.ComponentPoseAtIndex(index, time), nil
}

// ComponentPoseAtIndex はボーンインデックスのコンポーネント空間変換を時刻で評価する。
func (s *Sampler) ComponentPoseAtIndex(boneIndex int, time float64) mmath.Transform {
	component := mmath.TransformIdentity()
	first := true
	for _, index := range s.walker.Ancestors(boneIndex) {
		local := s.RetargetedLocalPoseAtIndex(index, time)
		if first {
			component = local
			first = false
			continue
		}
		component = local.Muled(component)
	}
	return component.NormalizedRotation()
}

// ComponentPoseAtToParent は計算済みの祖先変換を使ってコンポーネント空間変換を評価する。
// parentPose は parentIndex のボーンのコンポーネント空間変換でなければならない。
func (s *Sampler) ComponentPoseAtToParent(
	boneName string, time float64, parentPose mmath.Transform, parentIndex int,
) (mmath.Transform, error) {
	index, err := s.walker.BoneIndex(boneName)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	return s.ComponentPoseAtIndexToParent(index, time, parentPose, parentIndex)
}

// ComponentPoseAtIndexToParent は ComponentPoseAtToParent のインデックス版。
func (s *Sampler) ComponentPoseAtIndexToParent(
	boneIndex int, time float64, parentPose mmath.Transform, parentIndex int,
) (mmath.Transform, error) {
	if parentIndex == model.NoParent {
		return s.ComponentPoseAtIndex(boneIndex, time), nil
	}
	if !s.walker.IsAncestor(parentIndex, boneIndex) {
		return mmath.TransformIdentity(), fmt.Errorf(
			"%w: %s は %s の祖先ではありません",
			model.ErrInvalidChain, s.skeleton.BoneName(parentIndex), s.skeleton.BoneName(boneIndex))
	}

	chain := s.walker.Ancestors(boneIndex)
	start := 0
	for start < len(chain) && chain[start] != parentIndex {
		start++
	}
	component := parentPose
	for _, index := range chain[start+1:] {
		component = s.RetargetedLocalPoseAtIndex(index, time).Muled(component)
	}
	return component.NormalizedRotation(), nil
}

// ComponentPoseSetAt は全ボーンのコンポーネント空間変換を時刻で評価する。
func (s *Sampler) ComponentPoseSetAt(time float64) []mmath.Transform {
	poses := make([]mmath.Transform, s.skeleton.Len())
	for i := range poses {
		local := s.RetargetedLocalPoseAtIndex(i, time)
		parent := s.skeleton.ParentIndex(i)
		if parent == model.NoParent {
			poses[i] = local
			continue
		}
		poses[i] = local.Muled(poses[parent])
	}
	for i := range poses {
		poses[i] = poses[i].NormalizedRotation()
	}
	return poses
}

// LocalPoseSetAt は全ボーンのローカル変換を時刻で評価する。リターゲット方式は適用しない。
func (s *Sampler) LocalPoseSetAt(time float64) []mmath.Transform {
	poses := make([]mmath.Transform, s.skeleton.Len())
	for i := range poses {
		poses[i] = s.LocalPoseAtIndex(i, time)
	}
	return poses
}

func (s *Sampler) sampleTrack(track *model.Track, time float64) mmath.Transform {
	last := track.Len() - 1
	if last <= 0 {
		return track.Key(0)
	}

	position := ClampTime(time, s.clip.Duration()) * s.clip.FrameRate
	if rounded := math.Round(position); math.Abs(position-rounded) <= frameSnapTolerance {
		position = rounded
	}
	if position >= float64(last) {
		return track.Key(last)
	}
	i0 := int(math.Floor(position))
	alpha := position - float64(i0)
	if alpha == 0 {
		return track.Key(i0)
	}
	i1 := i0 + 1

	rotation := track.Rotations[i0].Slerp(track.Rotations[i1], alpha)
	if s.clip.Interpolation == model.InterpolationCubic {
		prev := max(i0-1, 0)
		next := min(i1+1, last)
		return mmath.NewTransform(
			catmullRom(track.Positions[prev], track.Positions[i0], track.Positions[i1], track.Positions[next], alpha),
			rotation,
			catmullRom(track.Scales[prev], track.Scales[i0], track.Scales[i1], track.Scales[next], alpha),
		)
	}
	return mmath.NewTransform(
		track.Positions[i0].Lerp(track.Positions[i1], alpha),
		rotation,
		track.Scales[i0].Lerp(track.Scales[i1], alpha),
	)
}

func catmullRom(p0, p1, p2, p3 mmath.Vec3, t float64) mmath.Vec3 {
	t2 := t * t
	t3 := t2 * t
	a := p1.MuledScalar(2)
	b := p2.Subed(p0).MuledScalar(t)
	c := p0.MuledScalar(2).Subed(p1.MuledScalar(5)).Added(p2.MuledScalar(4)).Subed(p3).MuledScalar(t2)
	d := p1.MuledScalar(3).Subed(p0).Subed(p2.MuledScalar(3)).Added(p3).MuledScalar(t3)
	return a.Added(b).Added(c).Added(d).MuledScalar(0.5)
}
