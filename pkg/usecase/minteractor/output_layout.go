// 指示: miu200521358
package minteractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	clipFileExt       = ".json"
	outputDirFileMode = 0o755
)

var nowFunc = time.Now

// BuildDefaultOutputPath は入力クリップパスから既定の出力パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	return buildDefaultOutputPathAt(inputPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定の出力パスを生成する。
// 入力と同じフォルダに時刻付きの名前で出力する。
func buildDefaultOutputPathAt(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	stamp := now.Format("20060102150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, stamp, clipFileExt))
}

// prepareOutputDir は出力先フォルダを作成する。
func prepareOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, outputDirFileMode); err != nil {
		return fmt.Errorf("出力フォルダの作成に失敗しました: %s: %w", dir, err)
	}
	return nil
}
