// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/shared/base/logging"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

// AnimHelpersUsecaseDeps はアニメーション補助ユースケースの依存を表す。
type AnimHelpersUsecaseDeps struct {
	ClipReader moutput.IFileReader
	ClipWriter moutput.IFileWriter
	Controller moutput.IAnimationDataController
	// Recorder は任意。nil の場合は焼き込み結果を記録しない。
	Recorder moutput.IBakeRecorder
	Logger   *logging.Logger
}

// AnimHelpersUsecase はクリップへの加工処理の適用をまとめたユースケースを表す。
type AnimHelpersUsecase struct {
	clipReader moutput.IFileReader
	clipWriter moutput.IFileWriter
	controller moutput.IAnimationDataController
	recorder   moutput.IBakeRecorder
	logger     *logging.Logger
}

// NewAnimHelpersUsecase はアニメーション補助ユースケースを生成する。
func NewAnimHelpersUsecase(deps AnimHelpersUsecaseDeps) *AnimHelpersUsecase {
	logger := deps.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &AnimHelpersUsecase{
		clipReader: deps.ClipReader,
		clipWriter: deps.ClipWriter,
		controller: deps.Controller,
		recorder:   deps.Recorder,
		logger:     logger,
	}
}
