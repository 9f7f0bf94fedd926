// 指示: miu200521358
package rootmotion

import (
	"math"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

const (
	// DefaultSampleRate はカーブ書き出しのサンプルレート。
	DefaultSampleRate = 30
	// DefaultStopSpeedThreshold は停止とみなす速度の閾値。
	DefaultStopSpeedThreshold = 5.0
	motionSearchInterval      = 1.0 / 120.0
	optimizedRangeMinTime     = -1.0
	optimizedRangeMaxTime     = -0.5
)

// SampleTimes は [0, duration] を sampleRate 間隔で区切った時刻列を返す。末尾は duration に揃える。
func SampleTimes(duration float64, sampleRate int) []float64 {
	if sampleRate < 1 {
		sampleRate = 1
	}
	if duration <= 0 {
		return []float64{0}
	}
	interval := 1 / float64(sampleRate)
	steps := int(math.Ceil(duration / interval))
	times := make([]float64, 0, steps+1)
	time := 0.0
	for step := 0; step <= steps && time < duration; step++ {
		time = math.Min(float64(step)*interval, duration)
		times = append(times, time)
	}
	return times
}

// ReferenceTime は距離の基準時刻を返す。
// FindFromMotion の場合は 1/120 秒刻みで移動量が最小となる時刻を探す。
func (t *Trajectory) ReferenceTime(point ReferencePoint, duration float64, axis DistanceAxis, stopSpeedThreshold float64) float64 {
	switch point {
	case ReferenceStopAtEnd:
		return duration
	case ReferenceBeginAtStart:
		return 0
	}

	referenceTime := 0.0
	minSpeedSq := stopSpeedThreshold * stopSpeedThreshold
	steps := int(duration / motionSearchInterval)
	for step := 0; step < steps; step++ {
		time := float64(step) * motionSearchInterval
		speedSq := axis.MagnitudeSq(t.DeltaBetween(time, time+motionSearchInterval)) / motionSearchInterval
		if speedSq < minSpeedSq {
			minSpeedSq = speedSq
			referenceTime = time
		}
	}
	return referenceTime
}

// DistanceCurve は基準時刻からの移動距離カーブを生成する。基準時刻より前は負値になる。
// 戻り値の minValue, maxValue は距離の範囲。
func (t *Trajectory) DistanceCurve(
	name string, referenceTime, duration float64, sampleRate int, axis DistanceAxis,
) (curve *model.FloatCurve, minValue, maxValue float64) {
	curve = model.NewFloatCurve(name)
	minValue, maxValue = math.Inf(1), math.Inf(-1)
	for _, time := range SampleTimes(duration, sampleRate) {
		magnitude := t.signedDistance(referenceTime, time, axis)
		curve.AddKey(time, magnitude)
		minValue = math.Min(minValue, magnitude)
		maxValue = math.Max(maxValue, magnitude)
	}
	return curve, minValue, maxValue
}

// OptimizedDistanceCurve は時刻と距離を入れ替えたカーブを生成する。
// 距離は [minValue, maxValue] から [0, duration] へ写像し、範囲は負の時刻の2キーに保存する。
func (t *Trajectory) OptimizedDistanceCurve(
	name string, referenceTime, duration float64, axis DistanceAxis, minValue, maxValue float64,
) *model.FloatCurve {
	curve := model.NewFloatCurve(name)
	curve.AddKey(optimizedRangeMinTime, minValue)
	curve.AddKey(optimizedRangeMaxTime, maxValue)
	for i := 0; i < t.curve.Len(); i++ {
		time := t.curve.KeyTime(i)
		magnitude := t.signedDistance(referenceTime, time, axis)
		mapped := mmath.MappedRangeClamped(minValue, maxValue, 0, duration, magnitude)
		curve.AddKey(mapped, time)
	}
	return curve
}

// AxisCurves は軌跡をX/Y/Z成分ごとのスカラーカーブとして書き出す。
func (t *Trajectory) AxisCurves(baseName string, duration float64, sampleRate int) [3]*model.FloatCurve {
	curves := [3]*model.FloatCurve{
		model.NewFloatCurve(baseName + "_X"),
		model.NewFloatCurve(baseName + "_Y"),
		model.NewFloatCurve(baseName + "_Z"),
	}
	for _, time := range SampleTimes(duration, sampleRate) {
		value := t.ValueAt(time)
		curves[0].AddKey(time, value.X)
		curves[1].AddKey(time, value.Y)
		curves[2].AddKey(time, value.Z)
	}
	return curves
}

func (t *Trajectory) signedDistance(referenceTime, time float64, axis DistanceAxis) float64 {
	magnitude := axis.Magnitude(t.DeltaBetween(referenceTime, time))
	if time < referenceTime {
		return -magnitude
	}
	return magnitude
}
