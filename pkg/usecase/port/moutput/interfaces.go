// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

// IFileReader はクリップ読み込み契約を表す。
type IFileReader interface {
	// Load はパスからクリップを読み込む。
	Load(path string) (*model.AnimationClip, error)
}

// IFileWriter はクリップ書き込み契約を表す。
type IFileWriter interface {
	// Save はクリップをパスへ保存する。
	Save(path string, clip *model.AnimationClip, opts SaveOptions) error
}

// SaveOptions は保存時のオプションを表す。
type SaveOptions struct {
	// Overwrite が false の場合、既存ファイルへの保存はエラーとする。
	Overwrite bool
	// Indent は整形して保存するか。
	Indent bool
}

// IAnimationDataController はクリップへの出力反映契約を表す。
// 反映は全体が成功するか、クリップを変更しないかのどちらかでなければならない。
type IAnimationDataController interface {
	// Commit は出力バッファをクリップへ反映する。
	Commit(clip *model.AnimationClip, output *bake.Output) error
}

// IBakeRecorder は焼き込み結果の記録契約を表す。
type IBakeRecorder interface {
	// Record は実行IDごとに焼き込み結果を記録する。
	Record(runID string, modifierName string, clipName string, output *bake.Output) error
}
