// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

// SaveOptions は保存時オプションを表す。
type SaveOptions = moutput.SaveOptions

// ApplyProgressEventType は加工処理の進捗イベント種別を表す。
type ApplyProgressEventType string

const (
	// ApplyProgressEventTypeInputValidated は入力検証完了イベントを表す。
	ApplyProgressEventTypeInputValidated ApplyProgressEventType = "input_validated"
	// ApplyProgressEventTypeModifierStarted は加工処理開始イベントを表す。
	ApplyProgressEventTypeModifierStarted ApplyProgressEventType = "modifier_started"
	// ApplyProgressEventTypeModifierBaked は焼き込み完了イベントを表す。
	ApplyProgressEventTypeModifierBaked ApplyProgressEventType = "modifier_baked"
	// ApplyProgressEventTypeCommitted はクリップへの反映完了イベントを表す。
	ApplyProgressEventTypeCommitted ApplyProgressEventType = "committed"
	// ApplyProgressEventTypeRecorded は焼き込み結果の記録完了イベントを表す。
	ApplyProgressEventTypeRecorded ApplyProgressEventType = "recorded"
)

// ApplyProgressEvent は加工処理の進捗イベントを表す。
type ApplyProgressEvent struct {
	Type          ApplyProgressEventType
	ModifierName  string
	ModifierIndex int
	ModifierCount int
	TrackCount    int
	CurveCount    int
}

// IApplyProgressReporter は加工処理の進捗通知契約を表す。
type IApplyProgressReporter interface {
	// ReportApplyProgress は加工処理進捗を通知する。
	ReportApplyProgress(event ApplyProgressEvent)
}

// ApplyRequest はクリップへの加工要求を表す。
type ApplyRequest struct {
	Clip             *model.AnimationClip
	Modifiers        []Modifier
	ProgressReporter IApplyProgressReporter
}

// ModifierOutput は加工処理ごとの焼き込み結果を表す。
type ModifierOutput struct {
	Name   string
	Output *bake.Output
}

// ApplyResult は加工結果を表す。OK が false の場合、Message に失敗理由を持つ。
type ApplyResult struct {
	OK      bool
	Message string
	RunID   string
	Outputs []ModifierOutput
}

// ProcessRequest はファイル入出力を伴う加工要求を表す。
type ProcessRequest struct {
	InputPath        string
	OutputPath       string
	Modifiers        []Modifier
	Revert           bool
	Reader           moutput.IFileReader
	Writer           moutput.IFileWriter
	SaveOptions      SaveOptions
	ProgressReporter IApplyProgressReporter
}

// ProcessResult はファイル入出力を伴う加工結果を表す。
type ProcessResult struct {
	Clip       *model.AnimationClip
	OutputPath string
	Apply      *ApplyResult
}
