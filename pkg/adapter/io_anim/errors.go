// 指示: miu200521358
package io_anim

import (
	"errors"
	"fmt"
)

var (
	// ErrExtInvalid は拡張子が未対応であることを表す。
	ErrExtInvalid = errors.New("拡張子が未対応です")
	// ErrFileNotFound はファイルが存在しないことを表す。
	ErrFileNotFound = errors.New("ファイルが見つかりません")
	// ErrFileExists は上書き禁止の保存先が既に存在することを表す。
	ErrFileExists = errors.New("保存先ファイルが既に存在します")
	// ErrParseFailed は文書の解析に失敗したことを表す。
	ErrParseFailed = errors.New("文書の解析に失敗しました")
)

func newExtInvalidError(path string) error {
	return fmt.Errorf("%w: %s", ErrExtInvalid, path)
}

func newFileNotFoundError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
}

func newParseFailedError(message string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrParseFailed, message, err)
}
