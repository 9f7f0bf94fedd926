// 指示: miu200521358
package io_anim

import (
	"fmt"
	"sync"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

// MemoryDataController はメモリ上のクリップへ出力を反映する。
// 複製への反映が成功した場合のみ本体へ反映するため、失敗時にクリップは変更されない。
type MemoryDataController struct {
	mu sync.Mutex
}

// NewMemoryDataController はMemoryDataControllerを生成する。
func NewMemoryDataController() *MemoryDataController {
	return &MemoryDataController{}
}

// Commit は出力バッファをクリップへ反映する。トラック・カーブは削除してから追加する。
func (c *MemoryDataController) Commit(clip *model.AnimationClip, output *bake.Output) error {
	if clip == nil {
		return fmt.Errorf("%w: 反映先クリップが未設定です", model.ErrInvalidClip)
	}
	if output == nil || output.IsEmpty() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := clip.Clone()
	if err != nil {
		return err
	}
	if err := output.ApplyTo(snapshot); err != nil {
		return err
	}
	return output.ApplyTo(clip)
}
