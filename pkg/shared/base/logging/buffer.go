// 指示: miu200521358
package logging

import (
	"slices"
	"sync"
)

const defaultBufferSize = 1000

// MessageBuffer は直近の出力行を保持するリングバッファ。
type MessageBuffer struct {
	mu    sync.Mutex
	lines []string
	limit int
}

// NewMessageBuffer は保持上限付きのバッファを生成する。
func NewMessageBuffer(limit int) *MessageBuffer {
	return &MessageBuffer{limit: max(limit, 1)}
}

// Append は行を追加する。上限を超えた分は古い順に捨てる。
func (b *MessageBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.limit; over > 0 {
		b.lines = slices.Delete(b.lines, 0, over)
	}
}

// Lines は保持している行を返す。
func (b *MessageBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.lines)
}

// Clear は保持している行を消去する。
func (b *MessageBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
