// 指示: miu200521358
package rootmotion

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

const (
	// DefaultSmoothenAccuracy は極値の間引きに使う最小時間間隔(秒)。
	DefaultSmoothenAccuracy = 0.04
	// DefaultSmoothingPasses は平滑化の反復回数。
	DefaultSmoothingPasses = 8
	// DefaultExtremumWindow は極値判定で前後に見るサンプル数。
	DefaultExtremumWindow = 2
)

// Foot は体重を支えている足を表す。
type Foot int

const (
	FootRight Foot = iota
	FootLeft
)

// String は足の名前を返す。
func (f Foot) String() string {
	if f == FootLeft {
		return "left"
	}
	return "right"
}

// Sample は1フレーム分の骨盤と両足のコンポーネント空間位置を表す。
type Sample struct {
	Time      float64
	Pelvis    mmath.Vec3
	FootRight mmath.Vec3
	FootLeft  mmath.Vec3
}

// Extractor は足の接地から仮想ルートの軌跡を求める。
type Extractor struct {
	InitialDirection Direction
	SmoothenAccuracy float64
	SmoothingPasses  int
	ExtremumWindow   int
}

// NewExtractor は既定値の Extractor を生成する。
func NewExtractor(direction Direction) Extractor {
	return Extractor{
		InitialDirection: direction,
		SmoothenAccuracy: DefaultSmoothenAccuracy,
		SmoothingPasses:  DefaultSmoothingPasses,
		ExtremumWindow:   DefaultExtremumWindow,
	}
}

// Extract はフレーム列から平滑化済みの軌跡を求める。
func (e Extractor) Extract(samples []Sample) (*Trajectory, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: ルートモーション抽出のサンプルがありません", model.ErrInvalidClip)
	}

	trajectory := &Trajectory{
		curve:       model.NewVectorCurve(),
		initialFoot: e.initialFoot(samples),
	}
	trajectory.footTrace = e.accumulate(samples, trajectory.initialFoot, trajectory.curve)

	detected := DetectExtrema(trajectory.curve, e.ExtremumWindow)
	kept, pruned := PruneExtrema(trajectory.curve, detected, e.SmoothenAccuracy)
	trajectory.extrema = kept
	trajectory.pruned = pruned
	Smooth(trajectory.curve, kept, e.SmoothingPasses)

	return trajectory, nil
}

// initialFoot は最初に移動方向と逆へ動いた足を支持足とみなす。
func (e Extractor) initialFoot(samples []Sample) Foot {
	if e.InitialDirection == DirectionZ {
		return FootRight
	}
	direction := e.InitialDirection.Vector()
	for i := 1; i < len(samples); i++ {
		rightBack := samples[i].FootRight.Subed(samples[i-1].FootRight).Normalized2D().Dot(direction) < 0
		leftBack := samples[i].FootLeft.Subed(samples[i-1].FootLeft).Normalized2D().Dot(direction) < 0
		if rightBack && !leftBack {
			return FootRight
		}
		if !rightBack && leftBack {
			return FootLeft
		}
	}
	return FootRight
}

// accumulate は支持足を切り替えながら仮想ルート位置をカーブへ積み上げる。
func (e Extractor) accumulate(samples []Sample, foot Foot, curve *model.VectorCurve) []Foot {
	trace := make([]Foot, len(samples))
	trace[0] = foot
	curve.AddKey(0, mmath.Vec3Zero())

	direction := e.InitialDirection.Vector()
	root := mmath.Vec3Zero()
	last := samples[0]
	lastDistanceR := last.Pelvis.Distance2D(last.FootRight)
	lastDistanceL := last.Pelvis.Distance2D(last.FootLeft)

	for i := 1; i < len(samples); i++ {
		current := samples[i]
		distanceR := current.Pelvis.Distance2D(current.FootRight)
		distanceL := current.Pelvis.Distance2D(current.FootLeft)

		if e.InitialDirection == DirectionZ {
			root = mmath.NewVec3(0, 0, max(0, min(current.FootRight.Z, current.FootLeft.Z)))
		} else {
			forward := direction.Normalized2D()
			switch foot {
			case FootRight:
				if distanceR < lastDistanceR && forward.Dot(current.Pelvis.Subed(current.FootRight)) > 0 {
					foot = FootLeft
				}
			case FootLeft:
				if distanceL < lastDistanceL && forward.Dot(current.Pelvis.Subed(current.FootLeft)) > 0 {
					foot = FootRight
				}
			}

			deltaR := current.Pelvis.Subed(current.FootRight).Subed(last.Pelvis.Subed(last.FootRight)).WithComponent(mmath.AxisZ, 0)
			deltaL := current.Pelvis.Subed(current.FootLeft).Subed(last.Pelvis.Subed(last.FootLeft)).WithComponent(mmath.AxisZ, 0)
			if direction.Dot(deltaR) > direction.Dot(deltaL) {
				direction = deltaR
			} else {
				direction = deltaL
			}
			root = root.Added(direction)
		}

		curve.AddKey(current.Time, root)
		trace[i] = foot
		last = current
		lastDistanceR = distanceR
		lastDistanceL = distanceL
	}
	return trace
}

// Trajectory は抽出済みの仮想ルート軌跡を表す。
type Trajectory struct {
	curve       *model.VectorCurve
	extrema     [3][]int
	pruned      [3][]int
	initialFoot Foot
	footTrace   []Foot
}

// NewTrajectoryFromCurve は既存のベクトルカーブから軌跡を生成する。極値情報は持たない。
func NewTrajectoryFromCurve(curve *model.VectorCurve) *Trajectory {
	return &Trajectory{curve: curve}
}

// Curve はベクトルカーブを返す。
func (t *Trajectory) Curve() *model.VectorCurve {
	return t.curve
}

// Extrema は軸ごとの固定された極値インデックスを返す。
func (t *Trajectory) Extrema(axis int) []int {
	return t.extrema[axis]
}

// Pruned は軸ごとに間引かれた極値インデックスを返す。
func (t *Trajectory) Pruned(axis int) []int {
	return t.pruned[axis]
}

// PrunedCount は間引かれた極値の総数を返す。
func (t *Trajectory) PrunedCount() int {
	return len(t.pruned[0]) + len(t.pruned[1]) + len(t.pruned[2])
}

// InitialFoot は開始時の支持足を返す。
func (t *Trajectory) InitialFoot() Foot {
	return t.initialFoot
}

// FootTrace はフレームごとの支持足を返す。
func (t *Trajectory) FootTrace() []Foot {
	return t.footTrace
}

// ValueAt は時刻のルート位置を返す。
func (t *Trajectory) ValueAt(time float64) mmath.Vec3 {
	return t.curve.Evaluate(time)
}

// DeltaBetween は start から end までのルート移動量を返す。
func (t *Trajectory) DeltaBetween(start, end float64) mmath.Vec3 {
	return t.ValueAt(end).Subed(t.ValueAt(start))
}
