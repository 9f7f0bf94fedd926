// 指示: miu200521358
package pose

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

// Walker はボーン階層の祖先列と参照姿勢のコンポーネント空間変換を扱う。
// 祖先列は生成時に一度だけ求め、以降のフレーム処理で使い回す。
type Walker struct {
	skeleton     *model.Skeleton
	ancestors    [][]int
	refComponent []mmath.Transform
}

// NewWalker はスケルトンから Walker を生成する。
func NewWalker(skeleton *model.Skeleton) *Walker {
	count := skeleton.Len()
	w := &Walker{
		skeleton:     skeleton,
		ancestors:    make([][]int, count),
		refComponent: make([]mmath.Transform, count),
	}
	for i := 0; i < count; i++ {
		parent := skeleton.ParentIndex(i)
		local := skeleton.ReferenceLocal(i)
		if parent == model.NoParent {
			w.ancestors[i] = []int{i}
			w.refComponent[i] = local
			continue
		}
		chain := make([]int, 0, len(w.ancestors[parent])+1)
		chain = append(chain, w.ancestors[parent]...)
		w.ancestors[i] = append(chain, i)
		w.refComponent[i] = local.Muled(w.refComponent[parent])
	}
	return w
}

// Skeleton はスケルトンを返す。
func (w *Walker) Skeleton() *model.Skeleton {
	return w.skeleton
}

// BoneIndex はボーン名のインデックスを返す。見つからない場合はエラー。
func (w *Walker) BoneIndex(name string) (int, error) {
	return w.skeleton.MustBoneIndex(name)
}

// Ancestors はルートからボーン自身までのインデックス列を返す。
// 戻り値は共有されるため呼び出し側で変更しないこと。
func (w *Walker) Ancestors(boneIndex int) []int {
	return w.ancestors[boneIndex]
}

// ComponentSpaceOfReferencePose は参照姿勢のコンポーネント空間変換を返す。回転は正規化する。
func (w *Walker) ComponentSpaceOfReferencePose(boneIndex int) (mmath.Transform, error) {
	if !w.skeleton.IsValidIndex(boneIndex) {
		return mmath.TransformIdentity(), fmt.Errorf("%w: index=%d", model.ErrBoneNotFound, boneIndex)
	}
	return w.refComponent[boneIndex].NormalizedRotation(), nil
}

// ComponentSpaceOfReferencePoseByName はボーン名で参照姿勢のコンポーネント空間変換を返す。
func (w *Walker) ComponentSpaceOfReferencePoseByName(name string) (mmath.Transform, error) {
	index, err := w.BoneIndex(name)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	return w.ComponentSpaceOfReferencePose(index)
}

// ParentChain はボーンから祖先方向へ stopAtIndex の手前までのインデックス列を返す。
// stopAtIndex に NoParent を渡すとルートまで辿る。stopAtIndex が祖先でない場合もルートで止まる。
func (w *Walker) ParentChain(boneIndex int, stopAtIndex int) ([]int, error) {
	if !w.skeleton.IsValidIndex(boneIndex) {
		return nil, fmt.Errorf("%w: index=%d", model.ErrBoneNotFound, boneIndex)
	}
	chain := make([]int, 0, len(w.ancestors[boneIndex]))
	for index := boneIndex; index != model.NoParent && index != stopAtIndex; index = w.skeleton.ParentIndex(index) {
		chain = append(chain, index)
	}
	return chain, nil
}

// IsAncestor は ancestorIndex が boneIndex の祖先(自身を含まない)か判定する。
func (w *Walker) IsAncestor(ancestorIndex int, boneIndex int) bool {
	chain := w.ancestors[boneIndex]
	for _, index := range chain[:len(chain)-1] {
		if index == ancestorIndex {
			return true
		}
	}
	return false
}

// ChainUp はボーンから親方向へ length 本のインデックスを返す。
// ルートボーン(インデックス0以下)は含めない。length 本に満たない場合は truncated が true になる。
func (w *Walker) ChainUp(boneIndex int, length int) (chain []int, truncated bool) {
	chain = make([]int, 0, length)
	index := boneIndex
	for len(chain) < length {
		if index <= 0 {
			return chain, true
		}
		chain = append(chain, index)
		index = w.skeleton.ParentIndex(index)
	}
	return chain, false
}

// SocketReferenceComponentSpace はソケットの参照姿勢コンポーネント空間変換を返す。
func (w *Walker) SocketReferenceComponentSpace(socketName string) (mmath.Transform, error) {
	socket, err := w.skeleton.Socket(socketName)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	boneIndex, err := w.BoneIndex(socket.BoneName)
	if err != nil {
		return mmath.TransformIdentity(), err
	}
	return socket.Offset.Muled(w.refComponent[boneIndex]).NormalizedRotation(), nil
}

// LocalFromComponent はコンポーネント空間変換を親のコンポーネント空間変換に対するローカル変換へ変換する。
func LocalFromComponent(component mmath.Transform, parentComponent mmath.Transform) mmath.Transform {
	return component.RelativeTo(parentComponent).NormalizedRotation()
}

// ComponentFromLocal はローカル変換を親のコンポーネント空間変換と合成する。
func ComponentFromLocal(local mmath.Transform, parentComponent mmath.Transform) mmath.Transform {
	return local.Muled(parentComponent)
}
