// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// ResetBonesTranslation はリターゲット方式が Skeleton のボーンの平行移動を参照姿勢へ戻す。
// 回転とスケールはアニメーションの値を残す。
type ResetBonesTranslation struct{}

// NewResetBonesTranslation は平行移動リセットを生成する。
func NewResetBonesTranslation() *ResetBonesTranslation {
	return &ResetBonesTranslation{}
}

// Name は処理名を返す。
func (m *ResetBonesTranslation) Name() string {
	return "reset_translation"
}

// Apply は対象ボーンのトラックを返す。対象がない場合は空の出力になる。
func (m *ResetBonesTranslation) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	var indices []int
	tracks := newTrackSet(clip.FrameCount)
	for index := 0; index < skeleton.Len(); index++ {
		if skeleton.RetargetMode(index) != model.RetargetModeSkeleton {
			continue
		}
		indices = append(indices, index)
		tracks.add(skeleton.BoneName(index))
	}

	output := bake.NewOutput(clip.FrameCount)
	if len(indices) == 0 {
		return output, nil
	}

	sampler := pose.NewSampler(clip)
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		for _, index := range indices {
			local := sampler.LocalPoseAtIndex(index, time)
			local.Translation = skeleton.ReferenceLocal(index).Translation
			tracks.set(skeleton.BoneName(index), frame, local)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := tracks.bakeTo(output); err != nil {
		return nil, err
	}
	return output, nil
}
