// 指示: miu200521358
package minteractor

import (
	"math"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/ik"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

// FootLockConfig は足の接地処理の設定を表す。
type FootLockConfig struct {
	FootRightBone      string            `toml:"foot_right_bone"`
	FootTipRightSocket string            `toml:"foot_tip_right_socket"`
	FootLeftBone       string            `toml:"foot_left_bone"`
	FootTipLeftSocket  string            `toml:"foot_tip_left_socket"`
	SnapFootRotation   bool              `toml:"snap_foot_rotation"`
	GroundLevel        float64           `toml:"ground_level"`
	IK                 ik.TwoBoneOptions `toml:"ik"`
}

// DefaultFootLockConfig は地面高さ0の既定設定を返す。
func DefaultFootLockConfig() FootLockConfig {
	return FootLockConfig{
		FootRightBone:      "foot_r",
		FootTipRightSocket: "foot_tip_r",
		FootLeftBone:       "foot_l",
		FootTipLeftSocket:  "foot_tip_l",
		IK:                 ik.DefaultTwoBoneOptions(),
	}
}

// SnapFootToGround は浮いている足のかかとかつま先を地面高さまで下ろすよう脚をIKで解き直す。
type SnapFootToGround struct {
	Config FootLockConfig
}

// NewSnapFootToGround は足の接地処理を生成する。
func NewSnapFootToGround(config FootLockConfig) *SnapFootToGround {
	return &SnapFootToGround{Config: config}
}

// Name は処理名を返す。
func (m *SnapFootToGround) Name() string {
	return "foot_lock"
}

// footLockLeg は片脚分の参照姿勢由来の定数を表す。
type footLockLeg struct {
	chain      legChain
	rig        ik.LegRig
	tipOffset  mmath.Transform
	heelOffset mmath.Transform
	// 足回転の水平化用
	footForwardAxis mmath.Axis
	footConverter   mmath.Transform
}

// Apply は両脚の太もも・ふくらはぎ・足のトラックを返す。
func (m *SnapFootToGround) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	sampler := pose.NewSampler(clip)

	legs := make([]footLockLeg, 0, 2)
	for _, pair := range [][2]string{
		{m.Config.FootRightBone, m.Config.FootTipRightSocket},
		{m.Config.FootLeftBone, m.Config.FootTipLeftSocket},
	} {
		leg, err := m.newFootLockLeg(sampler.Walker(), pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	tracks := newTrackSet(clip.FrameCount)
	for _, leg := range legs {
		tracks.add(skeleton.BoneName(leg.chain.Foot))
		tracks.add(skeleton.BoneName(leg.chain.Calf))
		tracks.add(skeleton.BoneName(leg.chain.Thigh))
	}

	warnings := &warningFlags{}
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		for _, leg := range legs {
			thighLocal, calfLocal, footLocal := m.lockLeg(sampler, leg, time, warnings)
			tracks.set(skeleton.BoneName(leg.chain.Thigh), frame, thighLocal)
			tracks.set(skeleton.BoneName(leg.chain.Calf), frame, calfLocal)
			tracks.set(skeleton.BoneName(leg.chain.Foot), frame, footLocal)
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

func (m *SnapFootToGround) newFootLockLeg(walker *pose.Walker, footName string, tipSocketName string) (footLockLeg, error) {
	skeleton := walker.Skeleton()
	socket, err := skeleton.Socket(tipSocketName)
	if err != nil {
		return footLockLeg{}, err
	}
	chain, err := resolveLegChain(skeleton, footName)
	if err != nil {
		return footLockLeg{}, err
	}

	footRef, _ := walker.ComponentSpaceOfReferencePose(chain.Foot)
	calfRef, _ := walker.ComponentSpaceOfReferencePose(chain.Calf)
	thighRef, _ := walker.ComponentSpaceOfReferencePose(chain.Thigh)
	tipRef, err := walker.SocketReferenceComponentSpace(tipSocketName)
	if err != nil {
		return footLockLeg{}, err
	}

	tipOffset := socket.Offset
	groundRef := footRef.WithTranslation(mmath.NewVec3(
		footRef.Translation.X, footRef.Translation.Y, tipOffset.Muled(footRef).Translation.Z))

	leg := footLockLeg{
		chain:      chain,
		rig:        ik.NewLegRig(thighRef, calfRef, footRef, dominantHorizontalAxis(tipRef.Translation.Subed(footRef.Translation))),
		tipOffset:  tipOffset,
		heelOffset: groundRef.RelativeTo(footRef),
	}

	if m.Config.SnapFootRotation {
		toTip := tipRef.Translation.Subed(footRef.Translation).Normalized2D()
		leg.footForwardAxis, _ = mmath.FindCoDirection(footRef.Rotation, toTip)
		footForward := footRef.Rotation.AxisVector(leg.footForwardAxis).Normalized2D()
		generic := mmath.MakeRotFromXZ(footForward, calfRef.Translation.Subed(footRef.Translation))
		leg.footConverter = footRef.RelativeTo(mmath.NewTransform(footRef.Translation, generic, mmath.Vec3One()))
	}
	return leg, nil
}

// lockLeg は1フレーム分の脚のローカル変換を求める。
func (m *SnapFootToGround) lockLeg(
	sampler *pose.Sampler, leg footLockLeg, time float64, warnings *warningFlags,
) (mmath.Transform, mmath.Transform, mmath.Transform) {
	thighLocal := sampler.RetargetedLocalPoseAtIndex(leg.chain.Thigh, time)
	calfLocal := sampler.RetargetedLocalPoseAtIndex(leg.chain.Calf, time)
	footLocal := sampler.RetargetedLocalPoseAtIndex(leg.chain.Foot, time)

	thighParent := mmath.TransformIdentity()
	if leg.chain.ThighParent != model.NoParent {
		thighParent = sampler.ComponentPoseAtIndex(leg.chain.ThighParent, time)
	}
	thigh := thighLocal.Muled(thighParent)
	calf := calfLocal.Muled(thigh)
	foot := footLocal.Muled(calf)

	var footZ float64
	if m.Config.SnapFootRotation {
		forward := foot.Rotation.AxisVector(leg.footForwardAxis).Normalized2D()
		snapped := mmath.MakeRotFromXZ(forward, mmath.Vec3UnitZ())
		foot = leg.footConverter.Muled(mmath.NewTransform(foot.Translation, snapped, foot.Scale))
		footZ = leg.heelOffset.Muled(foot).Translation.Z
	} else {
		tipZ := leg.tipOffset.Muled(foot).Translation.Z
		heelZ := leg.heelOffset.Muled(foot).Translation.Z
		footZ = math.Min(tipZ, heelZ)
	}

	if footZ <= m.Config.GroundLevel {
		return thighLocal, calfLocal, footLocal
	}

	effector := foot.Translation.Added(mmath.NewVec3(0, 0, m.Config.GroundLevel-footZ))
	current := ik.LegPose{ThighParent: thighParent, Thigh: thigh, Calf: calf, Foot: foot}
	solution := leg.rig.Solve(current, leg.rig.KneeTarget(calf), effector, m.Config.IK)
	recordIKWarnings(warnings, solution.Result)

	return thighLocal.WithRotation(solution.ThighLocal.Rotation),
		calfLocal.WithRotation(solution.CalfLocal.Rotation),
		footLocal.WithRotation(solution.FootLocal.Rotation)
}

// dominantHorizontalAxis はX・Yのうち絶対値が大きい成分だけを残した単位ベクトルを返す。
func dominantHorizontalAxis(direction mmath.Vec3) mmath.Vec3 {
	if math.Abs(direction.X) > math.Abs(direction.Y) {
		return mmath.NewVec3(direction.X, 0, 0).Normalized()
	}
	return mmath.NewVec3(0, direction.Y, 0).Normalized()
}
