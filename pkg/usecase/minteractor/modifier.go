// 指示: miu200521358
package minteractor

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// Modifier はクリップを読み取り、焼き込み結果を出力バッファで返す処理を表す。
// Apply はクリップを変更しない。
type Modifier interface {
	// Name は処理名を返す。
	Name() string
	// Apply は処理を実行して出力バッファを返す。
	Apply(clip *model.AnimationClip) (*bake.Output, error)
}

// Reverter は処理結果の取り消しに対応する処理を表す。
type Reverter interface {
	// Revert は取り消し内容を出力バッファで返す。
	Revert(clip *model.AnimationClip) (*bake.Output, error)
}

// forEachFrame はフレームごとの処理を並列に実行する。
// fn は自フレームの領域にのみ書き込まなければならない。
func forEachFrame(frameCount int, fn func(frame int) error) error {
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for frame := 0; frame < frameCount; frame++ {
		group.Go(func() error {
			return fn(frame)
		})
	}
	return group.Wait()
}

// trackSet は出力トラックを名前の登録順で保持する。
// フレーム処理の開始前に全トラックを登録しておく。
// byName は登録時の名前そのままの索引で、フレーム処理中の照合キー生成を省く。
type trackSet struct {
	frameCount int
	names      []string
	tracks     map[string]*model.Track
	byName     map[string]*model.Track
}

func newTrackSet(frameCount int, names ...string) *trackSet {
	set := &trackSet{frameCount: frameCount, tracks: map[string]*model.Track{}, byName: map[string]*model.Track{}}
	for _, name := range names {
		set.add(name)
	}
	return set
}

func (s *trackSet) add(name string) {
	key := model.NameKey(name)
	if _, ok := s.tracks[key]; ok {
		return
	}
	track := model.NewTrack(s.frameCount)
	s.names = append(s.names, name)
	s.tracks[key] = track
	s.byName[name] = track
}

func (s *trackSet) track(name string) *model.Track {
	if track, ok := s.byName[name]; ok {
		return track
	}
	return s.tracks[model.NameKey(name)]
}

func (s *trackSet) set(name string, frame int, transform mmath.Transform) {
	s.track(name).SetKey(frame, transform)
}

func (s *trackSet) bakeTo(output *bake.Output) error {
	for _, name := range s.names {
		if err := output.BakeTrack(name, s.byName[name]); err != nil {
			return err
		}
	}
	return nil
}

// warningFlags はフレーム並列処理中に発生した警告を集める。
type warningFlags struct {
	mu  sync.Mutex
	ids []string
}

func (w *warningFlags) add(warningID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.ids {
		if id == warningID {
			return
		}
	}
	w.ids = append(w.ids, warningID)
}

func (w *warningFlags) flushTo(output *bake.Output) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.ids {
		output.AddWarning(id)
	}
}

// legChain は足から辿った脚のボーンインデックスを表す。
type legChain struct {
	Foot        int
	Calf        int
	Thigh       int
	ThighParent int
}

// resolveLegChain は足ボーンから親を辿って脚チェーンを求める。
// 太ももの親がない場合の ThighParent は NoParent。
func resolveLegChain(skeleton *model.Skeleton, footName string) (legChain, error) {
	foot, err := skeleton.MustBoneIndex(footName)
	if err != nil {
		return legChain{}, err
	}
	calf := skeleton.ParentIndex(foot)
	if calf == model.NoParent {
		return legChain{}, fmt.Errorf("%w: %s にすねボーンがありません", model.ErrInvalidChain, footName)
	}
	thigh := skeleton.ParentIndex(calf)
	if thigh == model.NoParent {
		return legChain{}, fmt.Errorf("%w: %s に太ももボーンがありません", model.ErrInvalidChain, footName)
	}
	return legChain{Foot: foot, Calf: calf, Thigh: thigh, ThighParent: skeleton.ParentIndex(thigh)}, nil
}

// componentOrIdentity は NoParent の場合に単位変換を返す。
func componentOrIdentity(poses []mmath.Transform, index int) mmath.Transform {
	if index == model.NoParent {
		return mmath.TransformIdentity()
	}
	return poses[index]
}
