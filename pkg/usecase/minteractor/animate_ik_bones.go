// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// IKBonePair はIKボーンと追従先FKボーンの組を表す。
type IKBonePair struct {
	IKBone string `toml:"ik_bone"`
	FKBone string `toml:"fk_bone"`
}

// AnimateIKBonesConfig はIKボーン焼き込みの設定を表す。
type AnimateIKBonesConfig struct {
	// Pairs は処理順に並べたIKボーンとFKボーンの組。
	Pairs []IKBonePair `toml:"pairs"`
}

// DefaultAnimateIKBonesConfig はUE標準スケルトンのIKボーン構成を返す。
func DefaultAnimateIKBonesConfig() AnimateIKBonesConfig {
	return AnimateIKBonesConfig{Pairs: []IKBonePair{
		{IKBone: "ik_foot_root", FKBone: "root"},
		{IKBone: "ik_foot_r", FKBone: "foot_r"},
		{IKBone: "ik_foot_l", FKBone: "foot_l"},
		{IKBone: "ik_hand_root", FKBone: "root"},
		{IKBone: "ik_hand_gun", FKBone: "hand_r"},
		{IKBone: "ik_hand_r", FKBone: "hand_r"},
		{IKBone: "ik_hand_l", FKBone: "hand_l"},
	}}
}

// AnimateIKBones はFKボーンのコンポーネント空間変換をIKボーンへ順に焼き込む。
type AnimateIKBones struct {
	Config AnimateIKBonesConfig
}

// NewAnimateIKBones はIKボーン焼き込みを生成する。
func NewAnimateIKBones(config AnimateIKBonesConfig) *AnimateIKBones {
	return &AnimateIKBones{Config: config}
}

// Name は処理名を返す。
func (m *AnimateIKBones) Name() string {
	return "animate_ik_bones"
}

type ikBonePair struct {
	ik     int
	fk     int
	parent int
}

// Apply はIKボーンのトラックを返す。
// 既に処理したIKボーンは同フレーム内で焼き込み後の変換を親・追従先として使う。
func (m *AnimateIKBones) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	pairs := make([]ikBonePair, 0, len(m.Config.Pairs))
	tracks := newTrackSet(clip.FrameCount)
	for _, pair := range m.Config.Pairs {
		ikIndex, err := skeleton.MustBoneIndex(pair.IKBone)
		if err != nil {
			return nil, err
		}
		fkIndex, err := skeleton.MustBoneIndex(pair.FKBone)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ikBonePair{ik: ikIndex, fk: fkIndex, parent: skeleton.ParentIndex(ikIndex)})
		tracks.add(skeleton.BoneName(ikIndex))
	}

	sampler := pose.NewSampler(clip)
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		components := sampler.ComponentPoseSetAt(clip.TimeAtFrame(frame))
		baked := make(map[int]mmath.Transform, len(pairs))
		componentOf := func(index int) mmath.Transform {
			if transform, ok := baked[index]; ok {
				return transform
			}
			return components[index]
		}

		for _, pair := range pairs {
			source := componentOf(pair.fk)
			parent := mmath.TransformIdentity()
			if pair.parent != model.NoParent {
				parent = componentOf(pair.parent)
			}
			tracks.set(skeleton.BoneName(pair.ik), frame, source.RelativeTo(parent))
			baked[pair.ik] = source
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
