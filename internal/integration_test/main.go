// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/io_anim"
	"github.com/miu200521358/mu_anim_helpers/pkg/infra/config"
	"github.com/miu200521358/mu_anim_helpers/pkg/shared/base/logging"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
	clipPattern        = "*.json"
)

// batchConfig はバッチ加工の実行設定を表す。
type batchConfig struct {
	PresetPath string
	InputDir   string
	OutputRoot string
	StorePath  string
	DryRun     bool
	FailFast   bool
}

// processEntry は1クリップ分の加工入力情報を表す。
type processEntry struct {
	Index      int
	SourcePath string
	ClipName   string
	OutputPath string
}

// processResult は1クリップ分の加工結果を表す。
type processResult struct {
	Entry      processEntry
	Status     string
	Duration   time.Duration
	Err        error
	StageInfo  string
	WarningIDs []string
}

// applyProgressCollector は加工処理の進捗イベントを収集する。
type applyProgressCollector struct {
	eventCounts map[minteractor.ApplyProgressEventType]int
	trackTotal  int
	curveTotal  int
}

// main はフォルダ内のクリップへプリセットを一括適用する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括加工を実行し、終了コードを返す。
func run() int {
	batch, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	inputPaths, err := filepath.Glob(filepath.Join(batch.InputDir, clipPattern))
	if err != nil {
		fmt.Fprintf(os.Stderr, "入力クリップの列挙に失敗しました: %v\n", err)
		return 2
	}
	sort.Strings(inputPaths)
	entries := buildProcessEntries(batch.OutputRoot, inputPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "加工対象クリップがありません")
		return 2
	}

	results, err := executeBatch(batch, entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "バッチ加工の準備に失敗しました: %v\n", err)
		return 2
	}
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	presetPath := flag.String("preset", "", "適用するプリセットTOML")
	inputDir := flag.String("input-dir", "", "加工対象クリップのフォルダ")
	outputRoot := flag.String("output-root", defaultOutputRoot, "加工結果の出力ルートディレクトリ")
	storePath := flag.String("store", "", "焼き込み結果を記録するSQLiteのパス")
	dryRun := flag.Bool("dry-run", false, "実加工せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	if strings.TrimSpace(*presetPath) == "" {
		return batchConfig{}, errors.New("preset が空です")
	}
	if strings.TrimSpace(*inputDir) == "" {
		return batchConfig{}, errors.New("input-dir が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		PresetPath: normalizeInputPath(*presetPath),
		InputDir:   normalizeInputPath(*inputDir),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		StorePath:  strings.TrimSpace(*storePath),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// buildProcessEntries は入力パス一覧から加工対象エントリを生成する。
func buildProcessEntries(outputRoot string, inputPaths []string) []processEntry {
	entries := make([]processEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		clipName := resolveClipName(rawPath)
		fileName := fmt.Sprintf("%03d_%s.json", i+1, sanitizePathComponent(clipName))
		entries = append(entries, processEntry{
			Index:      i + 1,
			SourcePath: normalizeInputPath(rawPath),
			ClipName:   clipName,
			OutputPath: filepath.Join(outputRoot, fileName),
		})
	}
	return entries
}

// executeBatch は全クリップの加工処理を順次実行する。
func executeBatch(batch batchConfig, entries []processEntry) ([]processResult, error) {
	preset, err := config.LoadPreset(batch.PresetPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: preset.Logging.Level, Format: preset.Logging.Format, Writer: os.Stderr})
	if err != nil {
		return nil, err
	}
	logging.SetDefaultLogger(logger)

	repository := io_anim.NewClipRepository()
	modifiers, err := config.BuildModifiers(preset, repository)
	if err != nil {
		return nil, err
	}
	deps := minteractor.AnimHelpersUsecaseDeps{
		ClipReader: repository,
		ClipWriter: repository,
		Controller: io_anim.NewMemoryDataController(),
		Logger:     logger,
	}
	if batch.StorePath != "" && !batch.DryRun {
		store, err := io_anim.OpenBakeStore(batch.StorePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		deps.Recorder = store
	}
	usecase := minteractor.NewAnimHelpersUsecase(deps)

	results := make([]processResult, 0, len(entries))
	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 加工開始: clip=%s\n", entry.Index, total, entry.ClipName)
		result := processClipEntry(usecase, modifiers, batch, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 加工成功: clip=%s output=%s elapsed=%s\n",
				entry.Index, total, entry.ClipName, entry.OutputPath, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.StageInfo) != "" {
				fmt.Printf("[%d/%d] 加工進捗: %s\n", entry.Index, total, result.StageInfo)
			}
			if len(result.WarningIDs) > 0 {
				fmt.Printf("[%d/%d] 警告: %s\n", entry.Index, total, strings.Join(result.WarningIDs, ","))
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: clip=%s input=%s output=%s\n", entry.Index, total, entry.ClipName, entry.SourcePath, entry.OutputPath)
		default:
			fmt.Printf("[%d/%d] 加工失敗: clip=%s reason=%v\n", entry.Index, total, entry.ClipName, result.Err)
			if batch.FailFast {
				return results, nil
			}
		}
	}
	return results, nil
}

// processClipEntry は1クリップ分の加工を実行する。
func processClipEntry(
	usecase *minteractor.AnimHelpersUsecase,
	modifiers []minteractor.Modifier,
	batch batchConfig,
	entry processEntry,
) processResult {
	result := processResult{Entry: entry, Status: "failed"}
	if batch.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(filepath.Dir(entry.OutputPath), batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	collector := newApplyProgressCollector()
	processed, err := usecase.Process(minteractor.ProcessRequest{
		InputPath:        entry.SourcePath,
		OutputPath:       entry.OutputPath,
		Modifiers:        modifiers,
		SaveOptions:      minteractor.SaveOptions{Overwrite: true, Indent: true},
		ProgressReporter: collector,
	})
	if err != nil {
		result.Err = err
		return result
	}
	for _, output := range processed.Apply.Outputs {
		result.WarningIDs = append(result.WarningIDs, output.Output.Warnings()...)
	}
	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.StageInfo = collector.Summary()
	return result
}

// printBatchSummary は加工結果の集計を標準出力へ表示する。
func printBatchSummary(results []processResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf("バッチ加工サマリ: total=%d succeeded=%d failed=%d dry_run=%d\n",
		len(results), succeeded, failed, dryRun)
}

// resolveClipName は入力パスから拡張子を除いたクリップ名を返す。
func resolveClipName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return "clip"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "clip"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "clip"
	}
	return replaced
}

// newApplyProgressCollector は加工進捗収集器を生成する。
func newApplyProgressCollector() *applyProgressCollector {
	return &applyProgressCollector{eventCounts: map[minteractor.ApplyProgressEventType]int{}}
}

// ReportApplyProgress は加工処理の進捗イベントを収集する。
func (collector *applyProgressCollector) ReportApplyProgress(event minteractor.ApplyProgressEvent) {
	if collector == nil {
		return
	}
	collector.eventCounts[event.Type]++
	if event.Type == minteractor.ApplyProgressEventTypeModifierBaked {
		collector.trackTotal += event.TrackCount
		collector.curveTotal += event.CurveCount
	}
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *applyProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf("events=%d tracks=%d curves=%d stages=%s",
		len(collector.eventCounts), collector.trackTotal, collector.curveTotal, strings.Join(types, ","))
}
