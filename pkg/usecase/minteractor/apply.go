// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/shared/base/logging"
)

// ErrNotRevertible は取り消しに対応していない処理を表す。
var ErrNotRevertible = errors.New("取り消しに対応していない処理です")

// Apply は加工処理を順に実行し、それぞれの結果をクリップへ反映する。
// 途中で失敗した場合、それまでに反映した結果は残る。
func (uc *AnimHelpersUsecase) Apply(request ApplyRequest) (*ApplyResult, error) {
	return uc.run(request, func(modifier Modifier, clip *model.AnimationClip) (*bake.Output, error) {
		return modifier.Apply(clip)
	})
}

// Revert は取り消しに対応した加工処理の取り消しを順に実行する。
func (uc *AnimHelpersUsecase) Revert(request ApplyRequest) (*ApplyResult, error) {
	return uc.run(request, func(modifier Modifier, clip *model.AnimationClip) (*bake.Output, error) {
		reverter, ok := modifier.(Reverter)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotRevertible, modifier.Name())
		}
		return reverter.Revert(clip)
	})
}

type modifierStep func(modifier Modifier, clip *model.AnimationClip) (*bake.Output, error)

func (uc *AnimHelpersUsecase) run(request ApplyRequest, step modifierStep) (*ApplyResult, error) {
	runID := uuid.NewString()
	logger := uc.logger.With("run_id", runID)
	result := &ApplyResult{RunID: runID}

	if err := uc.validateApplyRequest(request); err != nil {
		return failApply(logger, result, err)
	}
	count := len(request.Modifiers)
	reportApplyProgress(request.ProgressReporter, ApplyProgressEvent{
		Type:          ApplyProgressEventTypeInputValidated,
		ModifierCount: count,
	})

	clip := request.Clip
	for index, modifier := range request.Modifiers {
		name := modifier.Name()
		event := ApplyProgressEvent{ModifierName: name, ModifierIndex: index, ModifierCount: count}
		event.Type = ApplyProgressEventTypeModifierStarted
		reportApplyProgress(request.ProgressReporter, event)
		logger.Debug("加工処理開始: %s (%d/%d)", name, index+1, count)

		output, err := step(modifier, clip)
		if err != nil {
			return failApply(logger, result, fmt.Errorf("%s: %w", name, err))
		}
		event.Type = ApplyProgressEventTypeModifierBaked
		event.TrackCount = len(output.TrackNames())
		event.CurveCount = len(output.Curves())
		reportApplyProgress(request.ProgressReporter, event)
		for _, warningID := range output.Warnings() {
			logger.Warn("焼き込み時の警告: %s (%s)", warningID, name)
		}

		if err := uc.controller.Commit(clip, output); err != nil {
			return failApply(logger, result, fmt.Errorf("%s: クリップへの反映に失敗しました: %w", name, err))
		}
		event.Type = ApplyProgressEventTypeCommitted
		reportApplyProgress(request.ProgressReporter, event)

		if uc.recorder != nil {
			if err := uc.recorder.Record(runID, name, clip.Name, output); err != nil {
				return failApply(logger, result, fmt.Errorf("%s: 焼き込み結果の記録に失敗しました: %w", name, err))
			}
			event.Type = ApplyProgressEventTypeRecorded
			reportApplyProgress(request.ProgressReporter, event)
		}

		result.Outputs = append(result.Outputs, ModifierOutput{Name: name, Output: output})
		logger.Info("加工処理完了: %s トラック=%d カーブ=%d", name, event.TrackCount, event.CurveCount)
	}

	result.OK = true
	return result, nil
}

// validateApplyRequest は加工要求と依存を検証する。
func (uc *AnimHelpersUsecase) validateApplyRequest(request ApplyRequest) error {
	if uc.controller == nil {
		return fmt.Errorf("データ反映コントローラが設定されていません")
	}
	if request.Clip == nil {
		return fmt.Errorf("%w: 加工対象クリップが未設定です", model.ErrInvalidClip)
	}
	if len(request.Modifiers) == 0 {
		return fmt.Errorf("加工処理が指定されていません")
	}
	for i, modifier := range request.Modifiers {
		if modifier == nil {
			return fmt.Errorf("加工処理が未設定です: index=%d", i)
		}
	}
	return request.Clip.Validate()
}

// failApply は失敗時の結果を組み立て、診断ログを出力する。
func failApply(logger *logging.Logger, result *ApplyResult, err error) (*ApplyResult, error) {
	result.OK = false
	result.Message = err.Error()
	logger.Error("加工処理に失敗しました: %s", result.Message)
	return result, err
}

// reportApplyProgress は加工処理の進捗を通知する。
func reportApplyProgress(reporter IApplyProgressReporter, event ApplyProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportApplyProgress(event)
}
