// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

// SaveClip はクリップを保存する。
func (uc *AnimHelpersUsecase) SaveClip(rep moutput.IFileWriter, path string, clip *model.AnimationClip, opts SaveOptions) error {
	writer := rep
	if writer == nil {
		writer = uc.clipWriter
	}
	if writer == nil {
		return fmt.Errorf("クリップ保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if clip == nil {
		return fmt.Errorf("保存対象クリップが未設定です")
	}
	return writer.Save(path, clip, opts)
}

// Process は入力クリップを読み込み、加工処理を順に適用して保存する。
func (uc *AnimHelpersUsecase) Process(request ProcessRequest) (*ProcessResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力クリップパスが未指定です")
	}
	outputPath, err := resolveClipOutputPath(request.InputPath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	clip, err := uc.LoadClip(request.Reader, request.InputPath)
	if err != nil {
		return nil, err
	}
	applyRequest := ApplyRequest{
		Clip:             clip,
		Modifiers:        request.Modifiers,
		ProgressReporter: request.ProgressReporter,
	}
	var applied *ApplyResult
	if request.Revert {
		applied, err = uc.Revert(applyRequest)
	} else {
		applied, err = uc.Apply(applyRequest)
	}
	if err != nil {
		return &ProcessResult{Clip: clip, Apply: applied}, err
	}

	if err := prepareOutputDir(outputPath); err != nil {
		return nil, err
	}
	if err := uc.SaveClip(request.Writer, outputPath, clip, request.SaveOptions); err != nil {
		return nil, err
	}
	return &ProcessResult{Clip: clip, OutputPath: outputPath, Apply: applied}, nil
}

// resolveClipOutputPath は保存先パスを解決し、拡張子を検証する。
func resolveClipOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", fmt.Errorf("保存先クリップパスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), clipFileExt) {
		return "", fmt.Errorf("保存先拡張子が %s ではありません: %s", clipFileExt, resolved)
	}
	return resolved, nil
}
