// 指示: miu200521358
package model

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// foldCasers は照合キー生成用の Caser を使い回す。Caser は同時利用できない。
var foldCasers = sync.Pool{
	New: func() any {
		caser := cases.Fold()
		return &caser
	},
}

// NameKey は名前照合用のキーを返す。大文字小文字を区別しない。
func NameKey(name string) string {
	caser := foldCasers.Get().(*cases.Caser)
	defer foldCasers.Put(caser)
	return caser.String(strings.TrimSpace(name))
}

// SameName は2つの名前が照合上同一か判定する。
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
