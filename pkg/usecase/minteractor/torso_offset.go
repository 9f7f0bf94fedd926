// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/ik"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

const defaultKneeStraightThreshold = 0.85

// TorsoOffsetConfig は胴体オフセット処理の設定を表す。
type TorsoOffsetConfig struct {
	PelvisBone    string `toml:"pelvis_bone"`
	FootRightBone string `toml:"foot_right_bone"`
	FootLeftBone  string `toml:"foot_left_bone"`
	// TorsoOffset はコンポーネント空間での骨盤の移動量。
	TorsoOffset [3]float64 `toml:"torso_offset"`
	// UseExplicitOrientation が true の場合、参照姿勢から求めた変換器の代わりに明示指定の回転を使う。
	UseExplicitOrientation  bool              `toml:"use_explicit_orientation"`
	RightOrientationConvert mmath.Rotator     `toml:"right_orientation_convert"`
	LeftOrientationConvert  mmath.Rotator     `toml:"left_orientation_convert"`
	KneeStraightThreshold   float64           `toml:"knee_straight_threshold"`
	IK                      ik.TwoBoneOptions `toml:"ik"`
}

// DefaultTorsoOffsetConfig は移動量ゼロの既定設定を返す。
func DefaultTorsoOffsetConfig() TorsoOffsetConfig {
	return TorsoOffsetConfig{
		PelvisBone:              "pelvis",
		FootRightBone:           "foot_r",
		FootLeftBone:            "foot_l",
		RightOrientationConvert: mmath.NewRotator(0, 0, 90),
		LeftOrientationConvert:  mmath.NewRotator(0, 180, -90),
		KneeStraightThreshold:   defaultKneeStraightThreshold,
		IK:                      ik.DefaultTwoBoneOptions(),
	}
}

// Offset は移動量をベクトルで返す。
func (c TorsoOffsetConfig) Offset() mmath.Vec3 {
	return mmath.NewVec3(c.TorsoOffset[0], c.TorsoOffset[1], c.TorsoOffset[2])
}

// TorsoOffset は骨盤をコンポーネント空間で移動し、両足の位置を保つよう脚をIKで解き直す。
type TorsoOffset struct {
	Config TorsoOffsetConfig
}

// NewTorsoOffset は胴体オフセット処理を生成する。
func NewTorsoOffset(config TorsoOffsetConfig) *TorsoOffset {
	return &TorsoOffset{Config: config}
}

// Name は処理名を返す。
func (m *TorsoOffset) Name() string {
	return "torso_offset"
}

// torsoLeg は片脚分のチェーンとリグを表す。
type torsoLeg struct {
	chain legChain
	rig   ik.LegRig
}

// Apply は骨盤と両脚の焼き込み結果を返す。
func (m *TorsoOffset) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	sampler := pose.NewSampler(clip)
	walker := sampler.Walker()

	pelvis, err := skeleton.MustBoneIndex(m.Config.PelvisBone)
	if err != nil {
		return nil, err
	}
	legs := make([]torsoLeg, 0, 2)
	for _, item := range []struct {
		footName string
		rotator  mmath.Rotator
	}{
		{m.Config.FootRightBone, m.Config.RightOrientationConvert},
		{m.Config.FootLeftBone, m.Config.LeftOrientationConvert},
	} {
		leg, err := m.newTorsoLeg(walker, item.footName, item.rotator)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	tracks := newTrackSet(clip.FrameCount, skeleton.BoneName(pelvis))
	for _, leg := range legs {
		tracks.add(skeleton.BoneName(leg.chain.Foot))
		tracks.add(skeleton.BoneName(leg.chain.Calf))
		tracks.add(skeleton.BoneName(leg.chain.Thigh))
	}

	offset := m.Config.Offset()
	warnings := &warningFlags{}
	err = forEachFrame(clip.FrameCount, func(frame int) error {
		components := sampler.ComponentPoseSetAt(clip.TimeAtFrame(frame))

		newPelvis := components[pelvis].AddedTranslation(offset)
		pelvisParent := componentOrIdentity(components, skeleton.ParentIndex(pelvis))
		tracks.set(skeleton.BoneName(pelvis), frame, pose.LocalFromComponent(newPelvis, pelvisParent))

		for _, leg := range legs {
			current := ik.LegPose{
				ThighParent: componentOrIdentity(components, leg.chain.ThighParent).AddedTranslation(offset),
				Thigh:       components[leg.chain.Thigh].AddedTranslation(offset),
				Calf:        components[leg.chain.Calf].AddedTranslation(offset),
				Foot:        components[leg.chain.Foot].AddedTranslation(offset),
			}
			effector := components[leg.chain.Foot].Translation

			alpha := ik.KneeTargetAlpha(
				current.Thigh.Translation, current.Calf.Translation, current.Foot.Translation,
				m.Config.KneeStraightThreshold)
			kneeTarget := current.Calf.Translation.Lerp(leg.rig.KneeTarget(current.Calf), alpha)

			solution := leg.rig.Solve(current, kneeTarget, effector, m.Config.IK)
			recordIKWarnings(warnings, solution.Result)

			tracks.set(skeleton.BoneName(leg.chain.Thigh), frame, solution.ThighLocal)
			tracks.set(skeleton.BoneName(leg.chain.Calf), frame, solution.CalfLocal)
			tracks.set(skeleton.BoneName(leg.chain.Foot), frame, solution.FootLocal)
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

func (m *TorsoOffset) newTorsoLeg(walker *pose.Walker, footName string, rotator mmath.Rotator) (torsoLeg, error) {
	chain, err := resolveLegChain(walker.Skeleton(), footName)
	if err != nil {
		return torsoLeg{}, err
	}
	if chain.ThighParent == model.NoParent {
		return torsoLeg{}, fmt.Errorf("%w: %s の太ももに親ボーンがありません", model.ErrInvalidChain, footName)
	}

	thighRef, _ := walker.ComponentSpaceOfReferencePose(chain.Thigh)
	calfRef, _ := walker.ComponentSpaceOfReferencePose(chain.Calf)
	footRef, _ := walker.ComponentSpaceOfReferencePose(chain.Foot)
	rig := ik.NewLegRig(thighRef, calfRef, footRef, mmath.Vec3UnitY())
	if m.Config.UseExplicitOrientation {
		converter := ik.NewOrientationConverterFromRotator(rotator, rig.RightAxis)
		rig.ThighConverter = converter
		rig.CalfConverter = converter
	}
	return torsoLeg{chain: chain, rig: rig}, nil
}

// recordIKWarnings はIK結果の警告を記録する。
func recordIKWarnings(warnings *warningFlags, result ik.TwoBoneResult) {
	if result.Degenerate {
		warnings.add(model.WarningIKDegenerate)
		return
	}
	if !result.Reachable {
		warnings.add(model.WarningIKUnreachable)
	}
}
