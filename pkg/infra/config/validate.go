// 指示: miu200521358
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/minteractor"
)

// Validate はプリセットが使用可能か検証する。
func (p *Preset) Validate() error {
	if err := p.validateLogging(); err != nil {
		return err
	}
	if len(p.Steps) == 0 {
		return errors.New("steps に加工処理が1つもありません")
	}
	for i, step := range p.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func (p *Preset) validateLogging() error {
	switch p.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level が不正です: %q", p.Logging.Level)
	}
	switch p.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format が不正です: %q", p.Logging.Format)
	}
	return nil
}

func validateStep(step Step) error {
	if !slices.Contains(ModifierNames(), step.Modifier) {
		return fmt.Errorf("未対応の加工処理です: %q", step.Modifier)
	}
	cfg, err := decodeStep(step)
	if err != nil {
		return err
	}
	switch step.Modifier {
	case ModifierTorsoOffset:
		return validateTorsoOffset(cfg.torsoOffset)
	case ModifierCopyBone:
		return validateCopyBone(cfg.copyBone)
	case ModifierDistanceCurve:
		return validateDistanceCurve(cfg.distanceCurve)
	case ModifierLocalRetarget:
		return validateLocalRetarget(cfg.localRetarget)
	case ModifierAnimateIKBones:
		for i, pair := range cfg.animateIKBones.Pairs {
			if strings.TrimSpace(pair.IKBone) == "" || strings.TrimSpace(pair.FKBone) == "" {
				return fmt.Errorf("pairs[%d] のボーン名が空です", i)
			}
		}
	}
	return nil
}

func validateTorsoOffset(cfg minteractor.TorsoOffsetConfig) error {
	if cfg.KneeStraightThreshold <= 0 || cfg.KneeStraightThreshold > 1 {
		return fmt.Errorf("knee_straight_threshold は0より大きく1以下でなければなりません: %v", cfg.KneeStraightThreshold)
	}
	if cfg.IK.MaxStretchScale < 1 {
		return fmt.Errorf("ik.max_stretch_scale は1以上でなければなりません: %v", cfg.IK.MaxStretchScale)
	}
	return nil
}

func validateCopyBone(cfg minteractor.CopyBoneConfig) error {
	if strings.TrimSpace(cfg.SourcePath) == "" {
		return errors.New("source_path を指定してください")
	}
	for i, chain := range cfg.Bones {
		if chain.ChainLength < 1 {
			return fmt.Errorf("bones[%d].chain_length は1以上でなければなりません: %d", i, chain.ChainLength)
		}
	}
	return nil
}

func validateDistanceCurve(cfg minteractor.DistanceCurveConfig) error {
	if cfg.SampleRate < 1 {
		return fmt.Errorf("sample_rate は1以上でなければなりません: %d", cfg.SampleRate)
	}
	if strings.TrimSpace(cfg.CurveName) == "" {
		return errors.New("curve_name が空です")
	}
	if cfg.StopSpeedThreshold < 0 {
		return fmt.Errorf("stop_speed_threshold は0以上でなければなりません: %v", cfg.StopSpeedThreshold)
	}
	if cfg.SmoothenAccuracy < 0 {
		return fmt.Errorf("smoothen_accuracy は0以上でなければなりません: %v", cfg.SmoothenAccuracy)
	}
	return nil
}

func validateLocalRetarget(cfg minteractor.LocalRetargetConfig) error {
	if strings.TrimSpace(cfg.SourcePath) == "" {
		return errors.New("source_path を指定してください")
	}
	if len(cfg.BoneNames) != len(cfg.SourceBoneNames) {
		return fmt.Errorf("bone_names と source_bone_names の数が一致しません: %d != %d",
			len(cfg.BoneNames), len(cfg.SourceBoneNames))
	}
	return nil
}
