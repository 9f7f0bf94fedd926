// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/pose"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/rootmotion"
)

const optimizedCurveSuffix = "_Optimized"

// DistanceCurveConfig は距離カーブ生成の設定を表す。
type DistanceCurveConfig struct {
	SampleRate         int                       `toml:"sample_rate"`
	CurveName          string                    `toml:"curve_name"`
	PelvisBone         string                    `toml:"pelvis_bone"`
	FootRightBone      string                    `toml:"foot_right_bone"`
	FootLeftBone       string                    `toml:"foot_left_bone"`
	InitialDirection   rootmotion.Direction      `toml:"initial_direction"`
	StopSpeedThreshold float64                   `toml:"stop_speed_threshold"`
	Axis               rootmotion.DistanceAxis   `toml:"axis"`
	ReferencePoint     rootmotion.ReferencePoint `toml:"reference_point"`
	// OptimizedFormat が true の場合、時刻と距離を入れ替えたカーブも出力する。
	OptimizedFormat      bool    `toml:"optimized_format"`
	RootMotionToCurves   bool    `toml:"root_motion_to_curves"`
	RootMotionToRootBone bool    `toml:"root_motion_to_root_bone"`
	RootMotionFromCurves bool    `toml:"root_motion_from_curves"`
	SmoothenAccuracy     float64 `toml:"smoothen_accuracy"`
	RootCurveName        string  `toml:"root_curve_name"`
}

// DefaultDistanceCurveConfig は前方移動を先頭基準で測る既定設定を返す。
func DefaultDistanceCurveConfig() DistanceCurveConfig {
	return DistanceCurveConfig{
		SampleRate:         rootmotion.DefaultSampleRate,
		CurveName:          "Distance",
		PelvisBone:         "pelvis",
		FootRightBone:      "foot_r",
		FootLeftBone:       "foot_l",
		InitialDirection:   rootmotion.DirectionY,
		StopSpeedThreshold: rootmotion.DefaultStopSpeedThreshold,
		Axis:               rootmotion.DistanceAxisXY,
		ReferencePoint:     rootmotion.ReferenceBeginAtStart,
		RootMotionToCurves: true,
		SmoothenAccuracy:   rootmotion.DefaultSmoothenAccuracy,
		RootCurveName:      "RootMotion",
	}
}

// DistanceCurve は足の接地から推定したルートモーションを元に距離カーブを生成する。
// 推定したルートモーションはカーブやルートボーンへ書き出せる。
type DistanceCurve struct {
	Config DistanceCurveConfig
}

// NewDistanceCurve は距離カーブ生成を生成する。
func NewDistanceCurve(config DistanceCurveConfig) *DistanceCurve {
	return &DistanceCurve{Config: config}
}

// Name は処理名を返す。
func (m *DistanceCurve) Name() string {
	return "distance_curve"
}

// Apply は距離カーブとルートモーションの焼き込み結果を返す。
func (m *DistanceCurve) Apply(clip *model.AnimationClip) (*bake.Output, error) {
	if m.Config.SampleRate < 1 {
		return nil, fmt.Errorf("サンプルレートが不正です: %d", m.Config.SampleRate)
	}
	if m.Config.CurveName == "" {
		return nil, fmt.Errorf("距離カーブ名が空です")
	}

	trajectory, err := m.extractTrajectory(clip)
	if err != nil {
		return nil, err
	}

	output := bake.NewOutput(clip.FrameCount)
	if trajectory.PrunedCount() > 0 {
		output.AddWarning(model.WarningExtremumPruned)
	}

	duration := clip.Duration()
	referenceTime := trajectory.ReferenceTime(m.Config.ReferencePoint, duration, m.Config.Axis, m.Config.StopSpeedThreshold)

	if m.Config.RootMotionToCurves {
		for _, curve := range trajectory.AxisCurves(m.Config.RootCurveName, duration, m.Config.SampleRate) {
			output.SetCurve(curve)
		}
	}

	if m.Config.RootMotionToRootBone {
		if m.Config.RootMotionFromCurves && !m.Config.RootMotionToCurves {
			trajectory, err = m.trajectoryFromCurves(clip)
			if err != nil {
				return nil, err
			}
			if err := m.bakeRootChildren(clip, trajectory, output); err != nil {
				return nil, err
			}
		}
		if err := m.bakeRoot(clip, trajectory, output); err != nil {
			return nil, err
		}
	}

	distance, minValue, maxValue := trajectory.DistanceCurve(
		m.Config.CurveName, referenceTime, duration, m.Config.SampleRate, m.Config.Axis)
	output.SetCurve(distance)
	if m.Config.OptimizedFormat {
		output.SetCurve(trajectory.OptimizedDistanceCurve(
			m.Config.CurveName+optimizedCurveSuffix, referenceTime, duration, m.Config.Axis, minValue, maxValue))
	}
	return output, nil
}

// Revert は距離カーブを削除する出力を返す。ルートモーションのカーブは残す。
func (m *DistanceCurve) Revert(clip *model.AnimationClip) (*bake.Output, error) {
	output := bake.NewOutput(clip.FrameCount)
	if clip.HasFloatCurve(m.Config.CurveName) {
		output.RemoveCurve(m.Config.CurveName)
	}
	return output, nil
}

// extractTrajectory は骨盤と両足のフレームごとの位置から軌跡を推定する。
func (m *DistanceCurve) extractTrajectory(clip *model.AnimationClip) (*rootmotion.Trajectory, error) {
	skeleton := clip.Skeleton
	indices := make([]int, 0, 3)
	for _, name := range []string{m.Config.PelvisBone, m.Config.FootRightBone, m.Config.FootLeftBone} {
		index, err := skeleton.MustBoneIndex(name)
		if err != nil {
			return nil, err
		}
		indices = append(indices, index)
	}

	sampler := pose.NewSampler(clip)
	samples := make([]rootmotion.Sample, clip.FrameCount)
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		samples[frame] = rootmotion.Sample{
			Time:      time,
			Pelvis:    sampler.ComponentPoseAtIndex(indices[0], time).Translation,
			FootRight: sampler.ComponentPoseAtIndex(indices[1], time).Translation,
			FootLeft:  sampler.ComponentPoseAtIndex(indices[2], time).Translation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	extractor := rootmotion.NewExtractor(m.Config.InitialDirection)
	extractor.SmoothenAccuracy = m.Config.SmoothenAccuracy
	return extractor.Extract(samples)
}

// trajectoryFromCurves は既存のルートモーションカーブからフレームごとの軌跡を組み立てる。
// Z成分のカーブがない場合は0とする。
func (m *DistanceCurve) trajectoryFromCurves(clip *model.AnimationClip) (*rootmotion.Trajectory, error) {
	curveX, ok := clip.FloatCurve(m.Config.RootCurveName + "_X")
	if !ok {
		return nil, model.CurveNotFoundError(m.Config.RootCurveName + "_X")
	}
	curveY, ok := clip.FloatCurve(m.Config.RootCurveName + "_Y")
	if !ok {
		return nil, model.CurveNotFoundError(m.Config.RootCurveName + "_Y")
	}
	curveZ, hasZ := clip.FloatCurve(m.Config.RootCurveName + "_Z")

	curve := model.NewVectorCurve()
	for frame := 0; frame < clip.FrameCount; frame++ {
		time := clip.TimeAtFrame(frame)
		z := 0.0
		if hasZ {
			z = curveZ.Evaluate(time)
		}
		curve.AddKey(time, mmath.NewVec3(curveX.Evaluate(time), curveY.Evaluate(time), z))
	}
	return rootmotion.NewTrajectoryFromCurve(curve), nil
}

// bakeRoot はルートボーンの位置を軌跡で置き換える。回転とスケールはアニメーションの値を残す。
func (m *DistanceCurve) bakeRoot(clip *model.AnimationClip, trajectory *rootmotion.Trajectory, output *bake.Output) error {
	sampler := pose.NewSampler(clip)
	transforms := make([]mmath.Transform, clip.FrameCount)
	for frame := range transforms {
		time := clip.TimeAtFrame(frame)
		transforms[frame] = sampler.LocalPoseAtIndex(0, time).WithTranslation(trajectory.ValueAt(time))
	}
	return output.BakeTransforms(clip.Skeleton.BoneName(0), transforms)
}

// bakeRootChildren はルート直下のボーンをルート移動後も同じコンポーネント空間位置に保つ。
func (m *DistanceCurve) bakeRootChildren(clip *model.AnimationClip, trajectory *rootmotion.Trajectory, output *bake.Output) error {
	skeleton := clip.Skeleton
	children := skeleton.Children(0)
	if len(children) == 0 {
		return nil
	}

	sampler := pose.NewSampler(clip)
	tracks := newTrackSet(clip.FrameCount)
	for _, child := range children {
		tracks.add(skeleton.BoneName(child))
	}
	err := forEachFrame(clip.FrameCount, func(frame int) error {
		time := clip.TimeAtFrame(frame)
		root := sampler.LocalPoseAtIndex(0, time)
		movedRoot := root.WithTranslation(trajectory.ValueAt(time))
		for _, child := range children {
			local := sampler.LocalPoseAtIndex(child, time)
			tracks.set(skeleton.BoneName(child), frame, local.Muled(root).RelativeTo(movedRoot))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tracks.bakeTo(output)
}
