// 指示: miu200521358
package io_anim

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/shared/base/logging"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
)

const (
	clipFileExt      = ".json"
	lockFileSuffix   = ".lock"
	outputFileMode   = 0o644
	jsonIndentPrefix = ""
	jsonIndent       = "  "
)

// ClipRepository はJSONクリップ文書の読み書きを表す。
// 保存中は保存先ごとのロックファイルで他プロセスの書き込みを排除する。
type ClipRepository struct{}

// NewClipRepository はClipRepositoryを生成する。
func NewClipRepository() *ClipRepository {
	return &ClipRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *ClipRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), clipFileExt)
}

// InferName はパスからクリップ名を推定する。
func (r *ClipRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はクリップ文書を読み込む。文書に名前がない場合はファイル名を使う。
func (r *ClipRepository) Load(path string) (*model.AnimationClip, error) {
	if !r.CanLoad(path) {
		return nil, newExtInvalidError(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newFileNotFoundError(path, err)
		}
		return nil, newParseFailedError("クリップファイルの読み取りに失敗しました", err)
	}
	logClipStep("クリップ読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	doc := clipDocument{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, newParseFailedError("クリップJSONの解析に失敗しました", err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		doc.Name = r.InferName(path)
	}
	clip, err := doc.clip()
	if err != nil {
		return nil, newParseFailedError("クリップ文書が不正です", err)
	}
	logClipInfo("クリップ読込完了: file=%s bones=%d frames=%d tracks=%d",
		filepath.Base(path), clip.Skeleton.Len(), clip.FrameCount, len(clip.TrackNames()))
	return clip, nil
}

// Save はクリップ文書を保存する。一時ファイルへ書き出してから置き換える。
func (r *ClipRepository) Save(path string, clip *model.AnimationClip, opts moutput.SaveOptions) error {
	if !r.CanLoad(path) {
		return newExtInvalidError(path)
	}
	if clip == nil {
		return fmt.Errorf("%w: 保存対象クリップが未設定です", model.ErrInvalidClip)
	}

	lock := flock.New(path + lockFileSuffix)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("保存ロックの取得に失敗しました: %s: %w", path, err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(path + lockFileSuffix)
	}()

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}

	data, err := encodeClipDocument(newClipDocument(clip), opts.Indent)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("クリップの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("クリップの書き込みに失敗しました: %w", err)
	}
	if err := os.Chmod(tmpPath, outputFileMode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("クリップの書き込みに失敗しました: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("クリップの置き換えに失敗しました: %w", err)
	}
	logClipInfo("クリップ保存完了: file=%s", filepath.Base(path))
	return nil
}

func encodeClipDocument(doc *clipDocument, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if indent {
		encoder.SetIndent(jsonIndentPrefix, jsonIndent)
	}
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("クリップJSONの生成に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// logClipInfo はクリップ入出力のINFOログを出力する。
func logClipInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logClipStep はクリップ入出力の進捗デバッグログを出力する。
func logClipStep(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}
