// 指示: miu200521358
package model

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

const (
	// NoParent は親ボーンが存在しないことを表すインデックス。
	NoParent = -1
)

// RetargetMode はボーンごとのリターゲット方式を表す。
type RetargetMode int

const (
	// RetargetModeAnimation はアニメーションの平行移動・スケールをそのまま使う。
	RetargetModeAnimation RetargetMode = iota
	// RetargetModeSkeleton は平行移動・スケールを参照姿勢から取る。回転はアニメーションから取る。
	RetargetModeSkeleton
	// RetargetModeAnimationScaled はアニメーションの平行移動を骨長比でスケールする。
	RetargetModeAnimationScaled
	// RetargetModeAnimationRelative はアニメーションの平行移動を参照姿勢からの相対として扱う。
	RetargetModeAnimationRelative
	// RetargetModeOrientAndScale は向きと長さを合わせる。
	RetargetModeOrientAndScale
)

// String はリターゲット方式名を返す。
func (m RetargetMode) String() string {
	switch m {
	case RetargetModeSkeleton:
		return "skeleton"
	case RetargetModeAnimationScaled:
		return "animation_scaled"
	case RetargetModeAnimationRelative:
		return "animation_relative"
	case RetargetModeOrientAndScale:
		return "orient_and_scale"
	}
	return "animation"
}

// ParseRetargetMode はリターゲット方式名を解析する。空文字は Animation とする。
func ParseRetargetMode(value string) (RetargetMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "animation":
		return RetargetModeAnimation, nil
	case "skeleton":
		return RetargetModeSkeleton, nil
	case "animation_scaled":
		return RetargetModeAnimationScaled, nil
	case "animation_relative":
		return RetargetModeAnimationRelative, nil
	case "orient_and_scale":
		return RetargetModeOrientAndScale, nil
	}
	return RetargetModeAnimation, fmt.Errorf("リターゲット方式が不正です: %q", value)
}

// Bone はスケルトンのボーン定義を表す。
type Bone struct {
	Name          string
	ParentIndex   int
	ReferencePose mmath.Transform
	RetargetMode  RetargetMode
}

// Socket はボーンに付随する名前付きオフセット変換を表す。
type Socket struct {
	Name     string
	BoneName string
	Offset   mmath.Transform
}

// Skeleton はボーン階層と参照姿勢を保持する。生成後は読み取り専用として扱う。
type Skeleton struct {
	bones       []Bone
	sockets     []Socket
	boneIndex   map[string]int
	socketIndex map[string]int
	children    [][]int
}

// NewSkeleton はボーン・ソケット定義を検証してスケルトンを生成する。
// 親インデックスは子より小さくなければならない。
func NewSkeleton(bones []Bone, sockets []Socket) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("%w: ボーンがありません", ErrInvalidSkeleton)
	}

	s := &Skeleton{
		bones:       make([]Bone, len(bones)),
		sockets:     make([]Socket, len(sockets)),
		boneIndex:   make(map[string]int, len(bones)),
		socketIndex: make(map[string]int, len(sockets)),
		children:    make([][]int, len(bones)),
	}
	copy(s.bones, bones)
	copy(s.sockets, sockets)

	for i, bone := range s.bones {
		key := NameKey(bone.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: %d番目のボーン名が空です", ErrInvalidSkeleton, i)
		}
		if _, exists := s.boneIndex[key]; exists {
			return nil, fmt.Errorf("%w: ボーン名が重複しています: %s", ErrInvalidSkeleton, bone.Name)
		}
		if bone.ParentIndex != NoParent && (bone.ParentIndex < 0 || bone.ParentIndex >= i) {
			return nil, fmt.Errorf("%w: 親インデックスが不正です: %s(%d)", ErrInvalidSkeleton, bone.Name, bone.ParentIndex)
		}
		s.boneIndex[key] = i
		if bone.ParentIndex != NoParent {
			s.children[bone.ParentIndex] = append(s.children[bone.ParentIndex], i)
		}
	}

	for i, socket := range s.sockets {
		key := NameKey(socket.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: %d番目のソケット名が空です", ErrInvalidSkeleton, i)
		}
		if _, exists := s.socketIndex[key]; exists {
			return nil, fmt.Errorf("%w: ソケット名が重複しています: %s", ErrInvalidSkeleton, socket.Name)
		}
		if _, exists := s.boneIndex[NameKey(socket.BoneName)]; !exists {
			return nil, fmt.Errorf("%w: ソケット %s の親ボーン %s", ErrBoneNotFound, socket.Name, socket.BoneName)
		}
		s.socketIndex[key] = i
	}

	return s, nil
}

// Len はボーン数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// IsValidIndex はボーンインデックスが有効か判定する。
func (s *Skeleton) IsValidIndex(index int) bool {
	return s != nil && index >= 0 && index < len(s.bones)
}

// Bone はインデックスのボーン定義を返す。
func (s *Skeleton) Bone(index int) Bone {
	return s.bones[index]
}

// BoneName はインデックスのボーン名を返す。
func (s *Skeleton) BoneName(index int) string {
	return s.bones[index].Name
}

// BoneIndex はボーン名からインデックスを返す。
func (s *Skeleton) BoneIndex(name string) (int, bool) {
	if s == nil {
		return NoParent, false
	}
	index, ok := s.boneIndex[NameKey(name)]
	if !ok {
		return NoParent, false
	}
	return index, true
}

// MustBoneIndex はボーン名からインデックスを返す。見つからない場合はエラーを返す。
func (s *Skeleton) MustBoneIndex(name string) (int, error) {
	index, ok := s.BoneIndex(name)
	if !ok {
		return NoParent, BoneNotFoundError(name)
	}
	return index, nil
}

// ParentIndex は親ボーンのインデックスを返す。ルートの場合は NoParent。
func (s *Skeleton) ParentIndex(index int) int {
	return s.bones[index].ParentIndex
}

// Children は直下の子ボーンのインデックスを返す。
func (s *Skeleton) Children(index int) []int {
	out := make([]int, len(s.children[index]))
	copy(out, s.children[index])
	return out
}

// ReferenceLocal はボーンの参照姿勢ローカル変換を返す。
func (s *Skeleton) ReferenceLocal(index int) mmath.Transform {
	return s.bones[index].ReferencePose
}

// RetargetMode はボーンのリターゲット方式を返す。
func (s *Skeleton) RetargetMode(index int) RetargetMode {
	return s.bones[index].RetargetMode
}

// BoneNames は定義順のボーン名一覧を返す。
func (s *Skeleton) BoneNames() []string {
	names := make([]string, len(s.bones))
	for i, bone := range s.bones {
		names[i] = bone.Name
	}
	return names
}

// Socket はソケット定義を返す。
func (s *Skeleton) Socket(name string) (Socket, error) {
	if s == nil {
		return Socket{}, SocketNotFoundError(name)
	}
	index, ok := s.socketIndex[NameKey(name)]
	if !ok {
		return Socket{}, SocketNotFoundError(name)
	}
	return s.sockets[index], nil
}

// Sockets は定義順のソケット一覧を返す。
func (s *Skeleton) Sockets() []Socket {
	out := make([]Socket, len(s.sockets))
	copy(out, s.sockets)
	return out
}

// MarshalText はリターゲット方式名を返す。
func (m RetargetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText はリターゲット方式名を解析する。
func (m *RetargetMode) UnmarshalText(text []byte) error {
	mode, err := ParseRetargetMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
