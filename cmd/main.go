// 指示: miu200521358
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/io_anim"
	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/mpresenter"
	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_anim_helpers/pkg/infra/config"
	"github.com/miu200521358/mu_anim_helpers/pkg/shared/base/logging"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
	"github.com/spf13/cobra"
)

const appName = "mu_anim_helpers"

// options はCLI引数を保持する。
type options struct {
	presetPath string
	outputPath string
	storePath  string
	logLevel   string
	logFormat  string
	overwrite  bool
	runID      string
	showBones  bool
}

// main はクリップへの加工処理を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	cmd := newRootCommand(out, errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// newRootCommand はサブコマンドを束ねたルートコマンドを生成する。
func newRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         messages.HelpRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", messages.FlagLogLevel)
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", messages.FlagLogFormat)

	rootCmd.AddCommand(newProcessCommand("apply", messages.HelpApply, false, opts, out, errOut))
	rootCmd.AddCommand(newProcessCommand("revert", messages.HelpRevert, true, opts, out, errOut))
	rootCmd.AddCommand(newInspectCommand(opts, out, errOut))
	rootCmd.AddCommand(newRecordsCommand(opts, out, errOut))
	return rootCmd
}

// newProcessCommand は加工処理またはその取り消しを実行するコマンドを生成する。
func newProcessCommand(use string, short string, revert bool, opts *options, out io.Writer, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <input.json>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], revert, opts, out, errOut)
		},
	}
	cmd.Flags().StringVarP(&opts.presetPath, "preset", "p", "", messages.FlagPreset)
	cmd.Flags().StringVarP(&opts.outputPath, "out", "o", "", messages.FlagOut)
	cmd.Flags().StringVar(&opts.storePath, "store", "", messages.FlagStore)
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, messages.FlagOverwrite)
	return cmd
}

// runProcess はプリセットを読み込み、クリップへ加工処理を適用して保存する。
func runProcess(inputPath string, revert bool, opts *options, out io.Writer, errOut io.Writer) error {
	if strings.TrimSpace(opts.presetPath) == "" {
		return errors.New(messages.MessagePresetRequired)
	}
	preset, err := config.LoadPreset(opts.presetPath)
	if err != nil {
		return err
	}
	logger, err := setupLogger(opts, preset.Logging, errOut)
	if err != nil {
		return err
	}

	repository := io_anim.NewClipRepository()
	modifiers, err := config.BuildModifiers(preset, repository)
	if err != nil {
		return err
	}

	deps := minteractor.AnimHelpersUsecaseDeps{
		ClipReader: repository,
		ClipWriter: repository,
		Controller: io_anim.NewMemoryDataController(),
		Logger:     logger,
	}
	if strings.TrimSpace(opts.storePath) != "" {
		store, err := io_anim.OpenBakeStore(opts.storePath)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.Recorder = store
	}
	uc := minteractor.NewAnimHelpersUsecase(deps)

	fmt.Fprintf(out, "[%s] 読み込み開始: %s\n", appName, inputPath)
	result, err := uc.Process(minteractor.ProcessRequest{
		InputPath:        inputPath,
		OutputPath:       opts.outputPath,
		Modifiers:        modifiers,
		Revert:           revert,
		SaveOptions:      moutput.SaveOptions{Overwrite: opts.overwrite, Indent: true},
		ProgressReporter: &progressLogger{logger: logger},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageApplyFailed, err)
	}
	fmt.Fprintln(out, mpresenter.RenderApplyResult(result.Apply))
	fmt.Fprintf(out, "[%s] "+messages.LogApplySuccess+"\n", appName, result.OutputPath, result.Apply.RunID)
	return nil
}

// newInspectCommand はクリップ概要を表示するコマンドを生成する。
func newInspectCommand(opts *options, out io.Writer, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input.json>",
		Short: messages.HelpInspect,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setupLogger(opts, config.Logging{}, errOut); err != nil {
				return err
			}
			clip, err := io_anim.NewClipRepository().Load(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
			}
			fmt.Fprintln(out, mpresenter.RenderClipSummary(clip))
			if opts.showBones {
				fmt.Fprintln(out, mpresenter.RenderBones(clip))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.showBones, "bones", false, messages.FlagShowBones)
	return cmd
}

// newRecordsCommand は記録済みの焼き込み結果を表示するコマンドを生成する。
func newRecordsCommand(opts *options, out io.Writer, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: messages.HelpRecords,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.storePath) == "" {
				return errors.New(messages.MessageStoreRequired)
			}
			if _, err := setupLogger(opts, config.Logging{}, errOut); err != nil {
				return err
			}
			store, err := io_anim.OpenBakeStore(opts.storePath)
			if err != nil {
				return err
			}
			defer store.Close()
			records, err := store.Records(cmd.Context(), opts.runID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, mpresenter.RenderBakeRecords(records))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.storePath, "store", "", messages.FlagStore)
	cmd.Flags().StringVar(&opts.runID, "run-id", "", messages.FlagRunID)
	return cmd
}

// setupLogger はフラグとプリセットからロガーを生成し、既定のロガーへ設定する。
// フラグの指定をプリセットより優先する。
func setupLogger(opts *options, presetLogging config.Logging, errOut io.Writer) (*logging.Logger, error) {
	level := presetLogging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	format := presetLogging.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format, Writer: errOut})
	if err != nil {
		return nil, err
	}
	logging.SetDefaultLogger(logger)
	return logger, nil
}

// progressLogger は加工処理の進捗をデバッグログへ出力する。
type progressLogger struct {
	logger *logging.Logger
}

func (p *progressLogger) ReportApplyProgress(event minteractor.ApplyProgressEvent) {
	if event.ModifierName == "" {
		p.logger.Debug("進捗: %s 処理数=%d", event.Type, event.ModifierCount)
		return
	}
	p.logger.Debug("進捗: %s %s (%d/%d)", event.Type, event.ModifierName, event.ModifierIndex+1, event.ModifierCount)
}
