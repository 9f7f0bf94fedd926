// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

import "github.com/miu200521358/mu_anim_helpers/pkg/domain/model"

// メッセージキー一覧。
const (
	HelpRoot       = "アニメーションクリップの焼き込み補助ツール"
	HelpApply      = "プリセットの加工処理を順にクリップへ適用して保存する"
	HelpRevert     = "プリセットの加工処理の取り消しを順に適用して保存する"
	HelpInspect    = "クリップのスケルトンとトラック・カーブの概要を表示する"
	HelpRecords    = "記録先に残した焼き込み結果を表示する"
	FlagPreset     = "加工処理を記述したプリセットTOMLのパス"
	FlagOut        = "保存先クリップパス (未指定時は入力と同じフォルダに時刻付きで保存)"
	FlagStore      = "焼き込み結果を記録するSQLiteのパス"
	FlagLogLevel   = "ログ出力レベル (debug/info/warn/error)"
	FlagLogFormat  = "ログ形式 (console/json)"
	FlagOverwrite  = "保存先が存在する場合に上書きする"
	FlagRunID      = "表示する実行ID (未指定時は全件)"
	FlagShowBones  = "ボーン一覧も表示する"
	LabelModifier  = "処理"
	LabelTracks    = "トラック"
	LabelCurves    = "カーブ"
	LabelRemoved   = "削除カーブ"
	LabelWarnings  = "警告"
	LabelBone      = "ボーン"
	LabelParent    = "親"
	LabelMode      = "リターゲット"
	LabelKeyed     = "キー"
	LabelItem      = "項目"
	LabelValue     = "値"
	LabelRunID     = "実行ID"
	LabelClip      = "クリップ"
	LabelFrames    = "フレーム数"
	LabelRecorded  = "記録日時"
	LabelFrameRate = "フレームレート"
	LabelDuration  = "長さ(秒)"
	LabelSockets   = "ソケット"

	MessageLoadFailed     = "読み込み失敗"
	MessageSaveFailed     = "保存失敗"
	MessageApplyFailed    = "加工失敗"
	MessageInputRequired  = "入力クリップを指定してください"
	MessagePresetRequired = "プリセットを指定してください"
	MessageStoreRequired  = "記録先を指定してください"

	LogLoadSuccess  = "クリップ読み込み成功: %s"
	LogApplySuccess = "クリップ保存成功: %s (実行ID=%s)"
)

var warningMessages = map[string]string{
	model.WarningIKDegenerate:      "IKの入力が退化していたため根元位置で代用しました",
	model.WarningIKUnreachable:     "IKの目標に届かないため脚を伸ばしきりました",
	model.WarningTrackMissing:      "トラックがないボーンは参照姿勢を使いました",
	model.WarningChainTruncated:    "ボーンチェーンがルートで打ち切られました",
	model.WarningSourceTimeClamped: "コピー元の時刻が範囲外のため端に丸めました",
	model.WarningExtremumPruned:    "ルートモーション推定で近接した極値を間引きました",
}

// WarningMessage は警告IDの表示文言を返す。未知のIDはそのまま返す。
func WarningMessage(warningID string) string {
	if message, ok := warningMessages[warningID]; ok {
		return message
	}
	return warningID
}
