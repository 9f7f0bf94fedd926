// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// MirrorConfig は鏡映処理の設定を表す。
type MirrorConfig struct {
	MirrorAxis mmath.Axis `toml:"mirror_axis"`
}

// DefaultMirrorConfig はX軸鏡映の既定設定を返す。
func DefaultMirrorConfig() MirrorConfig {
	return MirrorConfig{MirrorAxis: mmath.AxisX}
}

// MirrorAnimation は全ボーンのコンポーネント空間変換を鏡映し、ローカル空間で焼き直す。
// ルートボーンは単位変換になる。
type MirrorAnimation struct {
	Config MirrorConfig
}

// NewMirrorAnimation は鏡映処理を生成する。
func NewMirrorAnimation(config MirrorConfig) *MirrorAnimation {
	return &MirrorAnimation{Config: config}
}

// Name は処理名を返す。
func (m *MirrorAnimation) Name() string {
	return "mirror"
}

// Apply は鏡映結果を出力バッファで返す。
func (m *MirrorAnimation) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	if m.Config.MirrorAxis == mmath.AxisNone {
		return nil, fmt.Errorf("鏡映軸が未指定です")
	}

	skeleton := clip.Skeleton
	sampler := pose.NewSampler(clip)
	tracks := newTrackSet(clip.FrameCount, skeleton.BoneNames()...)

	err := forEachFrame(clip.FrameCount, func(frame int) error {
		components := sampler.ComponentPoseSetAt(clip.TimeAtFrame(frame))
		mirrored := make([]mmath.Transform, len(components))
		for i, component := range components {
			parent := skeleton.ParentIndex(i)
			if i == 0 || parent == model.NoParent {
				mirrored[i] = mmath.TransformIdentity()
				tracks.set(skeleton.BoneName(i), frame, mirrored[i])
				continue
			}
			mirrored[i] = component.Mirrored(m.Config.MirrorAxis)
			tracks.set(skeleton.BoneName(i), frame, pose.LocalFromComponent(mirrored[i], mirrored[parent]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output := bake.NewOutput(clip.FrameCount)
	if err := tracks.bakeTo(output); err != nil {
		return nil, err
	}
	return output, nil
}
