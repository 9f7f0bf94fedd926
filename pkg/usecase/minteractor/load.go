// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

// LoadClip はクリップを読み込む。
func (uc *AnimHelpersUsecase) LoadClip(rep moutput.IFileReader, path string) (*model.AnimationClip, error) {
	repo := rep
	if repo == nil {
		repo = uc.clipReader
	}
	if repo == nil {
		return nil, fmt.Errorf("クリップ読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("入力クリップパスが未指定です")
	}
	clip, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, fmt.Errorf("クリップ読み込み結果が空です")
	}
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("クリップが不正です: %s: %w", path, err)
	}
	return clip, nil
}
