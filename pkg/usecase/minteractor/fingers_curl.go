// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

const fingerChainLength = 3

// FingerAddend は指先ボーンと加算回転の組を表す。
type FingerAddend struct {
	Bone   string        `toml:"bone"`
	Addend mmath.Rotator `toml:"addend"`
}

// FingersCurlConfig は指曲げ処理の設定を表す。
type FingersCurlConfig struct {
	ApplyRightHand bool           `toml:"apply_right_hand"`
	HandRight      []FingerAddend `toml:"hand_right"`
	ApplyLeftHand  bool           `toml:"apply_left_hand"`
	HandLeft       []FingerAddend `toml:"hand_left"`
}

// DefaultFingersCurlConfig は両手の全指を15度曲げる既定設定を返す。
func DefaultFingersCurlConfig() FingersCurlConfig {
	addends := func(suffix string) []FingerAddend {
		curl := mmath.NewRotator(0, -15, 0)
		fingers := []string{"thumb", "index", "middle", "ring", "pinky"}
		result := make([]FingerAddend, 0, len(fingers))
		for _, finger := range fingers {
			result = append(result, FingerAddend{Bone: finger + "_03_" + suffix, Addend: curl})
		}
		return result
	}
	return FingersCurlConfig{
		ApplyRightHand: true,
		HandRight:      addends("r"),
		ApplyLeftHand:  true,
		HandLeft:       addends("l"),
	}
}

// FingersCurl は各指の末端から3ボーン分のローカル回転へ加算回転を適用する。
type FingersCurl struct {
	Config FingersCurlConfig
}

// NewFingersCurl は指曲げ処理を生成する。
func NewFingersCurl(config FingersCurlConfig) *FingersCurl {
	return &FingersCurl{Config: config}
}

// Name は処理名を返す。
func (m *FingersCurl) Name() string {
	return "fingers_curl"
}

// fingerBone は加算対象のボーンと加算回転を表す。
type fingerBone struct {
	index  int
	addend mmath.Quaternion
}

// Apply は指ボーンのトラックを返す。対象指がない場合は空の出力になる。
func (m *FingersCurl) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	var addends []FingerAddend
	if m.Config.ApplyRightHand {
		addends = append(addends, m.Config.HandRight...)
	}
	if m.Config.ApplyLeftHand {
		addends = append(addends, m.Config.HandLeft...)
	}

	output := bake.NewOutput(clip.FrameCount)
	if len(addends) == 0 {
		return output, nil
	}

	bones, err := resolveFingerBones(skeleton, addends)
	if err != nil {
		return nil, err
	}

	sampler := pose.NewSampler(clip)
	tracks := newTrackSet(clip.FrameCount)
	for _, bone := range bones {
		tracks.add(skeleton.BoneName(bone.index))
	}
	err = forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		for _, bone := range bones {
			local := sampler.LocalPoseAtIndex(bone.index, time)
			local.Rotation = addLocalRotation(bone.addend, local.Rotation)
			tracks.set(skeleton.BoneName(bone.index), frame, local)
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

// resolveFingerBones は指先ボーンから親2つを含めた加算対象を求める。
// 同じボーンが複数の指で現れた場合は後の指定で上書きする。
func resolveFingerBones(skeleton *model.Skeleton, addends []FingerAddend) ([]fingerBone, error) {
	bones := make([]fingerBone, 0, len(addends)*fingerChainLength)
	positions := map[int]int{}
	put := func(index int, addend mmath.Quaternion) {
		if position, ok := positions[index]; ok {
			bones[position].addend = addend
			return
		}
		positions[index] = len(bones)
		bones = append(bones, fingerBone{index: index, addend: addend})
	}

	for _, addend := range addends {
		tip, err := skeleton.MustBoneIndex(addend.Bone)
		if err != nil {
			return nil, err
		}
		chain := []int{tip}
		for len(chain) < fingerChainLength {
			parent := skeleton.ParentIndex(chain[len(chain)-1])
			if parent == model.NoParent {
				return nil, fmt.Errorf("%w: %s から%dボーンを辿れません", model.ErrInvalidChain, addend.Bone, fingerChainLength)
			}
			chain = append(chain, parent)
		}
		rotation := addend.Addend.Quaternion()
		for _, index := range chain {
			put(index, rotation)
		}
	}
	return bones, nil
}

// addLocalRotation はボーンのローカル軸で加算回転を適用した回転を返す。
func addLocalRotation(addend mmath.Quaternion, base mmath.Quaternion) mmath.Quaternion {
	return base.Muled(addend).Normalized()
}
