// 指示: miu200521358
package config

import (
	"bytes"
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/port/moutput"
	"github.com/pelletier/go-toml/v2"
)

// 加工処理名一覧。
const (
	ModifierMirror           = "mirror"
	ModifierTorsoOffset      = "torso_offset"
	ModifierTurnInPlace      = "turn_in_place"
	ModifierFingersCurl      = "fingers_curl"
	ModifierFootLock         = "foot_lock"
	ModifierCopyBone         = "copy_bone"
	ModifierAnimateIKBones   = "animate_ik_bones"
	ModifierDistanceCurve    = "distance_curve"
	ModifierResetTranslation = "reset_translation"
	ModifierLocalRetarget    = "local_retarget"
)

// ModifierNames は対応している加工処理名を返す。
func ModifierNames() []string {
	return []string{
		ModifierMirror,
		ModifierTorsoOffset,
		ModifierTurnInPlace,
		ModifierFingersCurl,
		ModifierFootLock,
		ModifierCopyBone,
		ModifierAnimateIKBones,
		ModifierDistanceCurve,
		ModifierResetTranslation,
		ModifierLocalRetarget,
	}
}

// stepConfig は加工処理ごとの設定値を表す。
type stepConfig struct {
	mirror         minteractor.MirrorConfig
	torsoOffset    minteractor.TorsoOffsetConfig
	turnInPlace    minteractor.TurnInPlaceConfig
	fingersCurl    minteractor.FingersCurlConfig
	footLock       minteractor.FootLockConfig
	copyBone       minteractor.CopyBoneConfig
	animateIKBones minteractor.AnimateIKBonesConfig
	distanceCurve  minteractor.DistanceCurveConfig
	localRetarget  minteractor.LocalRetargetConfig
}

// decodeStep は既定値へパラメータを上書きした設定を返す。未知のパラメータはエラーとする。
func decodeStep(step Step) (stepConfig, error) {
	var (
		cfg    stepConfig
		target any
	)
	switch step.Modifier {
	case ModifierMirror:
		cfg.mirror = minteractor.DefaultMirrorConfig()
		target = &cfg.mirror
	case ModifierTorsoOffset:
		cfg.torsoOffset = minteractor.DefaultTorsoOffsetConfig()
		target = &cfg.torsoOffset
	case ModifierTurnInPlace:
		cfg.turnInPlace = minteractor.DefaultTurnInPlaceConfig()
		target = &cfg.turnInPlace
	case ModifierFingersCurl:
		cfg.fingersCurl = minteractor.DefaultFingersCurlConfig()
		target = &cfg.fingersCurl
	case ModifierFootLock:
		cfg.footLock = minteractor.DefaultFootLockConfig()
		target = &cfg.footLock
	case ModifierCopyBone:
		cfg.copyBone = minteractor.DefaultCopyBoneConfig()
		target = &cfg.copyBone
	case ModifierAnimateIKBones:
		cfg.animateIKBones = minteractor.DefaultAnimateIKBonesConfig()
		target = &cfg.animateIKBones
	case ModifierDistanceCurve:
		cfg.distanceCurve = minteractor.DefaultDistanceCurveConfig()
		target = &cfg.distanceCurve
	case ModifierLocalRetarget:
		cfg.localRetarget = minteractor.DefaultLocalRetargetConfig()
		target = &cfg.localRetarget
	case ModifierResetTranslation:
		if len(step.Params) > 0 {
			return cfg, fmt.Errorf("%s はパラメータを持ちません", step.Modifier)
		}
		return cfg, nil
	default:
		return cfg, fmt.Errorf("未対応の加工処理です: %q", step.Modifier)
	}

	if len(step.Params) == 0 {
		return cfg, nil
	}
	data, err := toml.Marshal(step.Params)
	if err != nil {
		return cfg, fmt.Errorf("%s のパラメータを変換できませんでした: %w", step.Modifier, err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(target); err != nil {
		return cfg, fmt.Errorf("%s のパラメータが不正です: %w", step.Modifier, err)
	}
	return cfg, nil
}

// BuildModifiers はプリセットの各処理を生成する。
// コピー元クリップを使う処理は reader でプリセットからの相対パスを読み込む。
func BuildModifiers(preset *Preset, reader moutput.IFileReader) ([]minteractor.Modifier, error) {
	if preset == nil {
		return nil, fmt.Errorf("プリセットが未設定です")
	}
	sources := map[string]*model.AnimationClip{}
	loadSource := func(path string) (*model.AnimationClip, error) {
		resolved := preset.ResolvePath(path)
		if clip, ok := sources[resolved]; ok {
			return clip, nil
		}
		if reader == nil {
			return nil, fmt.Errorf("コピー元の読み込みリポジトリが設定されていません")
		}
		clip, err := reader.Load(resolved)
		if err != nil {
			return nil, fmt.Errorf("コピー元クリップの読み込みに失敗しました: %w", err)
		}
		sources[resolved] = clip
		return clip, nil
	}

	modifiers := make([]minteractor.Modifier, 0, len(preset.Steps))
	for i, step := range preset.Steps {
		cfg, err := decodeStep(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		var modifier minteractor.Modifier
		switch step.Modifier {
		case ModifierMirror:
			modifier = minteractor.NewMirrorAnimation(cfg.mirror)
		case ModifierTorsoOffset:
			modifier = minteractor.NewTorsoOffset(cfg.torsoOffset)
		case ModifierTurnInPlace:
			modifier = minteractor.NewPrepareTurnInPlace(cfg.turnInPlace)
		case ModifierFingersCurl:
			modifier = minteractor.NewFingersCurl(cfg.fingersCurl)
		case ModifierFootLock:
			modifier = minteractor.NewSnapFootToGround(cfg.footLock)
		case ModifierAnimateIKBones:
			modifier = minteractor.NewAnimateIKBones(cfg.animateIKBones)
		case ModifierDistanceCurve:
			modifier = minteractor.NewDistanceCurve(cfg.distanceCurve)
		case ModifierResetTranslation:
			modifier = minteractor.NewResetBonesTranslation()
		case ModifierCopyBone:
			source, err := loadSource(cfg.copyBone.SourcePath)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
			modifier = minteractor.NewCopyBoneLocalSpace(cfg.copyBone, source)
		case ModifierLocalRetarget:
			source, err := loadSource(cfg.localRetarget.SourcePath)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
			modifier = minteractor.NewLocalRetargetBone(cfg.localRetarget, source)
		}
		modifiers = append(modifiers, modifier)
	}
	return modifiers, nil
}
