// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// LocalRetargetConfig はボーン単位のローカルリターゲット設定を表す。
type LocalRetargetConfig struct {
	// SourcePath はコピー元クリップのパス。CLIからの実行時に読み込む。
	SourcePath       string   `toml:"source_path"`
	TranslationScale float64  `toml:"translation_scale"`
	BoneNames        []string `toml:"bone_names"`
	SourceBoneNames  []string `toml:"source_bone_names"`
}

// DefaultLocalRetargetConfig は武器ジョイントの既定設定を返す。
func DefaultLocalRetargetConfig() LocalRetargetConfig {
	return LocalRetargetConfig{
		TranslationScale: 2.46,
		BoneNames:        []string{"weapon_joint_r", "weapon_joint_l"},
		SourceBoneNames:  []string{"rhang_tag_bone", "lhang_tag_bone"},
	}
}

// LocalRetargetBone はコピー元クリップのボーンのローカル変換を、手の軸向きを合わせて対象ボーンへ写す。
// 名前が "_r" で終わる対象ボーンを右手として扱う。
type LocalRetargetBone struct {
	Config LocalRetargetConfig
	Source *model.AnimationClip
}

// NewLocalRetargetBone はローカルリターゲットを生成する。
func NewLocalRetargetBone(config LocalRetargetConfig, source *model.AnimationClip) *LocalRetargetBone {
	return &LocalRetargetBone{Config: config, Source: source}
}

// Name は処理名を返す。
func (m *LocalRetargetBone) Name() string {
	return "local_retarget"
}

type retargetBone struct {
	name       string
	sourceName string
	reorient   mmath.Transform
	toTarget   mmath.Transform
}

// Apply は対象ボーンのトラックを返す。
func (m *LocalRetargetBone) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	if m.Source == nil {
		return nil, fmt.Errorf("%w: コピー元クリップが指定されていません", model.ErrInvalidClip)
	}
	if len(m.Config.BoneNames) != len(m.Config.SourceBoneNames) {
		return nil, fmt.Errorf("対象ボーン数とコピー元ボーン数が一致しません: %d != %d",
			len(m.Config.BoneNames), len(m.Config.SourceBoneNames))
	}

	bones := make([]retargetBone, 0, len(m.Config.BoneNames))
	tracks := newTrackSet(clip.FrameCount)
	for i, name := range m.Config.BoneNames {
		index, err := clip.Skeleton.MustBoneIndex(name)
		if err != nil {
			return nil, err
		}
		if _, err := m.Source.Skeleton.MustBoneIndex(m.Config.SourceBoneNames[i]); err != nil {
			return nil, fmt.Errorf("コピー元: %w", err)
		}
		bone := retargetBone{name: clip.Skeleton.BoneName(index), sourceName: m.Config.SourceBoneNames[i]}
		bone.reorient, bone.toTarget = handConversions(strings.HasSuffix(model.NameKey(name), "_r"))
		bones = append(bones, bone)
		tracks.add(bone.name)
	}

	source := pose.NewSampler(m.Source)
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		for _, bone := range bones {
			local, err := source.LocalPoseAt(bone.sourceName, time)
			if err != nil {
				return err
			}
			generic := local.RelativeTo(bone.reorient).ScaledTranslation(m.Config.TranslationScale)
			tracks.set(bone.name, frame, generic.Muled(bone.toTarget))
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

// handConversions はコピー元の手の軸から共通軸へ、共通軸から対象の手の軸への変換を返す。
func handConversions(right bool) (mmath.Transform, mmath.Transform) {
	if right {
		return mmath.NewRotationTransform(mmath.MakeRotFromXY(mmath.NewVec3(0, -1, 0), mmath.NewVec3(0, 0, -1))),
			mmath.NewRotationTransform(mmath.MakeRotFromXY(mmath.NewVec3(-1, 0, 0), mmath.NewVec3(0, 0, -1)))
	}
	return mmath.NewRotationTransform(mmath.MakeRotFromXY(mmath.NewVec3(0, -1, 0), mmath.NewVec3(0, 0, 1))),
		mmath.NewRotationTransform(mmath.MakeRotFromXY(mmath.NewVec3(1, 0, 0), mmath.NewVec3(0, 0, -1)))
}
