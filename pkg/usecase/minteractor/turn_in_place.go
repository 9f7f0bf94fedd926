// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
)

const (
	// CurveNameRootX は仮想ルートのX位置カーブ名。
	CurveNameRootX = "Root_X"
	// CurveNameRootY は仮想ルートのY位置カーブ名。
	CurveNameRootY = "Root_Y"
)

// TurnInPlaceConfig はその場旋回アセット準備の設定を表す。
type TurnInPlaceConfig struct {
	PelvisBone            string `toml:"pelvis_bone"`
	SnapZeroFrameToCenter bool   `toml:"snap_zero_frame_to_center"`
	TurningToRight        bool   `toml:"turning_to_right"`
	// DefaultRootBoneOffset が true の場合、参照姿勢のルートと骨盤の差をオフセットに使う。
	DefaultRootBoneOffset bool       `toml:"default_root_bone_offset"`
	RootBoneOffset        [2]float64 `toml:"root_bone_offset"`
}

// DefaultTurnInPlaceConfig は右旋回の既定設定を返す。
func DefaultTurnInPlaceConfig() TurnInPlaceConfig {
	return TurnInPlaceConfig{
		PelvisBone:            "pelvis",
		SnapZeroFrameToCenter: true,
		TurningToRight:        true,
		DefaultRootBoneOffset: true,
		RootBoneOffset:        [2]float64{0.3, 1},
	}
}

// PrepareTurnInPlace はクリップ全体で1回転する仮想ルートを想定し、
// 骨盤から旋回と水平移動を取り除いて Root_X/Root_Y カーブへ移す。
type PrepareTurnInPlace struct {
	Config TurnInPlaceConfig
}

// NewPrepareTurnInPlace はその場旋回アセット準備を生成する。
func NewPrepareTurnInPlace(config TurnInPlaceConfig) *PrepareTurnInPlace {
	return &PrepareTurnInPlace{Config: config}
}

// Name は処理名を返す。
func (m *PrepareTurnInPlace) Name() string {
	return "turn_in_place"
}

// Apply は骨盤トラックと仮想ルートのカーブを返す。
func (m *PrepareTurnInPlace) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	skeleton := clip.Skeleton
	sampler := pose.NewSampler(clip)
	walker := sampler.Walker()

	pelvis, err := skeleton.MustBoneIndex(m.Config.PelvisBone)
	if err != nil {
		return nil, err
	}
	pelvisParent := skeleton.ParentIndex(pelvis)
	pelvisRef, err := walker.ComponentSpaceOfReferencePose(pelvis)
	if err != nil {
		return nil, err
	}
	rootRef := skeleton.ReferenceLocal(0)

	rootOffset := mmath.NewVec3(m.Config.RootBoneOffset[0], m.Config.RootBoneOffset[1], 0)
	if m.Config.DefaultRootBoneOffset {
		relative := rootRef.RelativeTo(pelvisRef).Translation
		rootOffset = mmath.NewVec3(relative.X, relative.Y, 0)
	}

	direction := 1.0
	if !m.Config.TurningToRight {
		direction = -1
	}
	duration := clip.Duration()

	virtualRootAt := func(frame int) (mmath.Transform, mmath.Transform, mmath.Transform) {
		time := clip.TimeAtFrame(frame)
		turnAngle := 0.0
		if duration > 0 {
			turnAngle = mmath.NormalizeAxis(time / duration * 360 * direction)
		}
		parentCS := mmath.TransformIdentity()
		if pelvisParent != model.NoParent {
			parentCS = sampler.ComponentPoseAtIndex(pelvisParent, time)
		}
		pelvisCS := pose.ComponentFromLocal(sampler.RetargetedLocalPoseAtIndex(pelvis, time), parentCS)

		rotation := mmath.NewRotator(0, turnAngle, 0).Quaternion().Muled(rootRef.Rotation).Normalized()
		location := pelvisCS.Translation.Added(rotation.MulVec3(rootOffset))
		location.Z = 0
		return mmath.NewTransform(location, rotation, mmath.Vec3One()), pelvisCS, parentCS
	}

	globalOffset := mmath.Vec3Zero()
	if m.Config.SnapZeroFrameToCenter {
		virtualRoot, _, _ := virtualRootAt(0)
		globalOffset = virtualRoot.Translation.Negated()
	}

	locations := make([]mmath.Vec3, clip.FrameCount)
	tracks := newTrackSet(clip.FrameCount, skeleton.BoneName(pelvis))
	err = forEachFrame(clip.FrameCount, func(frame int) error {
		virtualRoot, pelvisCS, parentCS := virtualRootAt(frame)
		pelvisCS = pelvisCS.AddedTranslation(globalOffset)
		virtualRoot = virtualRoot.AddedTranslation(globalOffset)
		locations[frame] = virtualRoot.Translation

		local := pelvisCS.RelativeTo(virtualRoot).RelativeTo(parentCS)
		tracks.set(skeleton.BoneName(pelvis), frame, local.WithScale(rootRef.Scale))
		return nil
	})
	if err != nil {
		return nil, err
	}

	curveX := model.NewFloatCurve(CurveNameRootX)
	curveY := model.NewFloatCurve(CurveNameRootY)
	for frame, location := range locations {
		time := clip.TimeAtFrame(frame)
		curveX.AddKey(time, location.X)
		curveY.AddKey(time, location.Y)
	}

	output := bake.NewOutput(clip.FrameCount)
	if err := tracks.bakeTo(output); err != nil {
		return nil, err
	}
	output.SetCurve(curveX)
	output.SetCurve(curveY)
	return output, nil
}
