// 指示: miu200521358
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBoneNotFound はボーン未検出を表す。
	ErrBoneNotFound = errors.New("ボーンが見つかりません")
	// ErrSocketNotFound はソケット未検出を表す。
	ErrSocketNotFound = errors.New("ソケットが見つかりません")
	// ErrCurveNotFound はカーブ未検出を表す。
	ErrCurveNotFound = errors.New("カーブが見つかりません")
	// ErrInvalidChain は要求されたボーンチェーンを構成できないことを表す。
	ErrInvalidChain = errors.New("ボーンチェーンが不正です")
	// ErrTrackLength はトラックのキー数がフレーム数と一致しないことを表す。
	ErrTrackLength = errors.New("トラックのキー数が不正です")
	// ErrInvalidSkeleton はスケルトン定義が不正であることを表す。
	ErrInvalidSkeleton = errors.New("スケルトン定義が不正です")
	// ErrInvalidClip はアニメーションクリップ定義が不正であることを表す。
	ErrInvalidClip = errors.New("アニメーションクリップ定義が不正です")
)

// BoneNotFoundError はボーン名付きの未検出エラーを返す。
func BoneNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrBoneNotFound, name)
}

// SocketNotFoundError はソケット名付きの未検出エラーを返す。
func SocketNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrSocketNotFound, name)
}

// CurveNotFoundError はカーブ名付きの未検出エラーを返す。
func CurveNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrCurveNotFound, name)
}
