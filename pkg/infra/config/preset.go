// 指示: miu200521358
// Package config はTOMLプリセットの読み込みと加工処理の組み立てを提供する。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Preset は順に適用する加工処理の一覧を表す。
type Preset struct {
	Name    string  `toml:"name"`
	Logging Logging `toml:"logging"`
	Steps   []Step  `toml:"steps"`

	// dir はプリセットファイルのフォルダ。相対パスの解決に使う。
	dir string
}

// Logging はログ出力の設定を表す。
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Step は1つの加工処理と、既定値へ上書きするパラメータを表す。
type Step struct {
	Modifier string         `toml:"modifier"`
	Params   map[string]any `toml:"params"`
}

// DefaultPreset は加工処理を持たない既定のプリセットを返す。
func DefaultPreset() Preset {
	return Preset{
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// LoadPreset はプリセットを読み込み、正規化と検証を行う。
func LoadPreset(path string) (*Preset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("プリセットパスが未指定です")
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("プリセットが見つかりません: %s", path)
		}
		return nil, fmt.Errorf("プリセットを開けませんでした: %w", err)
	}
	defer file.Close()

	preset := DefaultPreset()
	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(&preset); err != nil {
		return nil, fmt.Errorf("プリセットの解析に失敗しました: %s: %w", path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("プリセットパスの解決に失敗しました: %w", err)
	}
	preset.dir = filepath.Dir(absPath)
	if strings.TrimSpace(preset.Name) == "" {
		preset.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	preset.normalize()
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return &preset, nil
}

// normalize は処理名とログ設定の表記揺れを揃える。
func (p *Preset) normalize() {
	p.Logging.Level = strings.ToLower(strings.TrimSpace(p.Logging.Level))
	p.Logging.Format = strings.ToLower(strings.TrimSpace(p.Logging.Format))
	for i := range p.Steps {
		p.Steps[i].Modifier = strings.ToLower(strings.TrimSpace(p.Steps[i].Modifier))
	}
}

// ResolvePath はプリセットからの相対パスを絶対パスへ解決する。
func (p *Preset) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}
