// 指示: miu200521358
package pose

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

func TestComponentSpaceOfReferencePoseIsReproducible(t *testing.T) {
	skeleton := newChainSkeleton(t)
	first := NewWalker(skeleton)
	second := NewWalker(skeleton)

	for i := skeleton.Len() - 1; i >= 0; i-- {
		a, err := first.ComponentSpaceOfReferencePose(i)
		if err != nil {
			t.Fatalf("reference pose failed: %v", err)
		}
		b, _ := second.ComponentSpaceOfReferencePose(i)
		c, _ := first.ComponentSpaceOfReferencePose(i)
		if a != b || a != c {
			t.Fatalf("reference pose should be bit-identical: bone=%d a=%s b=%s c=%s", i, a, b, c)
		}
	}
}

func TestComponentSpaceOfReferencePoseComposesChain(t *testing.T) {
	walker := NewWalker(newChainSkeleton(t))

	got, err := walker.ComponentSpaceOfReferencePoseByName("hand")
	if err != nil {
		t.Fatalf("reference pose failed: %v", err)
	}
	// upper は Z 軸 90 度回転しているため、hand のローカル +X は +Y 方向になる。
	want := mmath.NewVec3(0, 18, 100)
	if !got.Translation.NearEquals(want, 1e-9) {
		t.Fatalf("component translation mismatch: got=%s want=%s", got.Translation, want)
	}
	if math.Abs(got.Rotation.Length()-1) > 1e-12 {
		t.Fatalf("rotation should be normalized: got=%v", got.Rotation.Length())
	}
}

func TestComponentLocalRoundTrip(t *testing.T) {
	walker := NewWalker(newChainSkeleton(t))

	for i := 1; i < walker.Skeleton().Len(); i++ {
		component, _ := walker.ComponentSpaceOfReferencePose(i)
		parent, _ := walker.ComponentSpaceOfReferencePose(walker.Skeleton().ParentIndex(i))
		local := LocalFromComponent(component, parent)
		restored := ComponentFromLocal(local, parent)
		if !restored.NearEquals(component, 1e-4) {
			t.Fatalf("round trip mismatch: bone=%d got=%s want=%s", i, restored, component)
		}
	}
}

func TestParentChain(t *testing.T) {
	walker := NewWalker(newChainSkeleton(t))

	chain, err := walker.ParentChain(3, model.NoParent)
	if err != nil {
		t.Fatalf("parent chain failed: %v", err)
	}
	assertIndices(t, chain, []int{3, 2, 1, 0})

	chain, _ = walker.ParentChain(3, 1)
	assertIndices(t, chain, []int{3, 2})

	if _, err := walker.ParentChain(9, model.NoParent); !errors.Is(err, model.ErrBoneNotFound) {
		t.Fatalf("expected ErrBoneNotFound: got=%v", err)
	}
}

func TestChainUpStopsBeforeRoot(t *testing.T) {
	walker := NewWalker(newChainSkeleton(t))

	chain, truncated := walker.ChainUp(3, 2)
	assertIndices(t, chain, []int{3, 2})
	if truncated {
		t.Fatalf("chain should not be truncated")
	}

	chain, truncated = walker.ChainUp(2, 5)
	assertIndices(t, chain, []int{2, 1})
	if !truncated {
		t.Fatalf("chain should be truncated at root")
	}
}

func TestSocketReferenceComponentSpace(t *testing.T) {
	walker := NewWalker(newChainSkeleton(t))

	got, err := walker.SocketReferenceComponentSpace("hand_tip")
	if err != nil {
		t.Fatalf("socket reference failed: %v", err)
	}
	want := mmath.NewVec3(0, 23, 100)
	if !got.Translation.NearEquals(want, 1e-9) {
		t.Fatalf("socket translation mismatch: got=%s want=%s", got.Translation, want)
	}
	if _, err := walker.SocketReferenceComponentSpace("missing"); !errors.Is(err, model.ErrSocketNotFound) {
		t.Fatalf("expected ErrSocketNotFound: got=%v", err)
	}
}

func assertIndices(t *testing.T, got []int, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("index length mismatch: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index mismatch: got=%v want=%v", got, want)
		}
	}
}

func newChainSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	rotZ90 := mmath.NewQuaternionFromAxisAngle(mmath.Vec3UnitZ(), math.Pi/2)
	skeleton, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: model.NoParent, ReferencePose: mmath.TransformIdentity()},
		{Name: "upper", ParentIndex: 0, ReferencePose: mmath.NewTransform(mmath.NewVec3(0, 0, 100), rotZ90, mmath.Vec3One())},
		{Name: "lower", ParentIndex: 1, ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(10, 0, 0))},
		{
			Name:          "hand",
			ParentIndex:   2,
			ReferencePose: mmath.NewTranslationTransform(mmath.NewVec3(8, 0, 0)),
			RetargetMode:  model.RetargetModeSkeleton,
		},
	}, []model.Socket{
		{Name: "hand_tip", BoneName: "hand", Offset: mmath.NewTranslationTransform(mmath.NewVec3(5, 0, 0))},
	})
	if err != nil {
		t.Fatalf("skeleton build failed: %v", err)
	}
	return skeleton
}
