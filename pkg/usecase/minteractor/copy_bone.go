// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// BoneCopyChain はコピー対象のボーンチェーン設定を表す。
type BoneCopyChain struct {
	ChainEndBone    string `toml:"chain_end_bone"`
	ChainLength     int    `toml:"chain_length"`
	CopyTranslation bool   `toml:"copy_translation"`
	CopyRotation    bool   `toml:"copy_rotation"`
}

// NewBoneCopyChain は回転のみをコピーするチェーン設定を生成する。
func NewBoneCopyChain(chainEndBone string, chainLength int) BoneCopyChain {
	return BoneCopyChain{ChainEndBone: chainEndBone, ChainLength: chainLength, CopyRotation: true}
}

// CopyBoneConfig はボーンのローカル空間コピーの設定を表す。
type CopyBoneConfig struct {
	// SourcePath はコピー元クリップのパス。CLIからの実行時に読み込む。
	SourcePath     string          `toml:"source_path"`
	LoopSourceData bool            `toml:"loop_source_data"`
	Bones          []BoneCopyChain `toml:"bones"`
}

// DefaultCopyBoneConfig は指と武器ボーンをコピーする既定設定を返す。
func DefaultCopyBoneConfig() CopyBoneConfig {
	bones := make([]BoneCopyChain, 0, 12)
	for _, suffix := range []string{"r", "l"} {
		for _, finger := range []string{"thumb", "index", "middle", "ring", "pinky"} {
			bones = append(bones, NewBoneCopyChain(finger+"_03_"+suffix, 3))
		}
		bones = append(bones, NewBoneCopyChain("weapon_"+suffix, 1))
	}
	return CopyBoneConfig{LoopSourceData: true, Bones: bones}
}

// CopyBoneLocalSpace はコピー元クリップのボーンのローカル変換を対象クリップへ写す。
type CopyBoneLocalSpace struct {
	Config CopyBoneConfig
	Source *model.AnimationClip
}

// NewCopyBoneLocalSpace はボーンのローカル空間コピーを生成する。
func NewCopyBoneLocalSpace(config CopyBoneConfig, source *model.AnimationClip) *CopyBoneLocalSpace {
	return &CopyBoneLocalSpace{Config: config, Source: source}
}

// Name は処理名を返す。
func (m *CopyBoneLocalSpace) Name() string {
	return "copy_bone"
}

// copyBone はコピー対象ボーンとそのチェーン設定を表す。
type copyBone struct {
	name  string
	index int
	chain BoneCopyChain
}

// Apply はコピー結果のトラックを返す。対象クリップにないチェーン末端は無視する。
func (m *CopyBoneLocalSpace) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	if m.Source == nil {
		return nil, fmt.Errorf("%w: コピー元クリップが指定されていません", model.ErrInvalidClip)
	}

	bones := m.resolveBones(clip.Skeleton)
	for _, bone := range bones {
		if _, err := m.Source.Skeleton.MustBoneIndex(bone.name); err != nil {
			return nil, fmt.Errorf("コピー元: %w", err)
		}
	}

	target := pose.NewSampler(clip)
	source := pose.NewSampler(m.Source)
	tracks := newTrackSet(clip.FrameCount)
	for _, bone := range bones {
		tracks.add(bone.name)
	}

	warnings := &warningFlags{}
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		sourceTime, clamped := m.sourceTime(time)
		if clamped {
			warnings.add(model.WarningSourceTimeClamped)
		}

		for _, bone := range bones {
			destination := target.LocalPoseAtIndex(bone.index, time)
			copied, err := source.LocalPoseAt(bone.name, sourceTime)
			if err != nil {
				return err
			}
			if curve, ok := m.Source.TransformCurve(bone.name); ok {
				copied = curve.Evaluate(sourceTime).Muled(copied)
			}

			out := destination
			if bone.chain.CopyTranslation {
				out.Translation = copied.Translation
			}
			if bone.chain.CopyRotation {
				out.Rotation = copied.Rotation
			}
			tracks.set(bone.name, frame, out)
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
	warnings.flushTo(output)
	return output, nil
}

// resolveBones はチェーン末端から親を辿って対象ボーンを列挙する。ルートボーンは含めない。
// 同じボーンが複数のチェーンに含まれる場合は後のチェーン設定を使う。
func (m *CopyBoneLocalSpace) resolveBones(skeleton *model.Skeleton) []copyBone {
	bones := make([]copyBone, 0, len(m.Config.Bones))
	positions := map[int]int{}
	put := func(index int, chain BoneCopyChain) {
		if position, ok := positions[index]; ok {
			bones[position].chain = chain
			return
		}
		positions[index] = len(bones)
		bones = append(bones, copyBone{name: skeleton.BoneName(index), index: index, chain: chain})
	}

	for _, chain := range m.Config.Bones {
		index, ok := skeleton.BoneIndex(chain.ChainEndBone)
		if !ok {
			continue
		}
		put(index, chain)
		for i := 1; i < chain.ChainLength; i++ {
			index = skeleton.ParentIndex(index)
			if index <= 0 {
				break
			}
			put(index, chain)
		}
	}
	return bones
}

// sourceTime は対象時刻に対応するコピー元時刻を返す。
// コピー元より長い場合はループするか末尾に丸める。丸めた場合は true を返す。
func (m *CopyBoneLocalSpace) sourceTime(time float64) (float64, bool) {
	length := m.Source.Duration()
	if time <= length {
		return time, false
	}
	if !m.Config.LoopSourceData || length <= 0 {
		return length, true
	}
	laps := math.Ceil(time/length) - 1
	return time - laps*length, false
}
