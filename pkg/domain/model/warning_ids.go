// 指示: miu200521358
package model

const (
	// WarningIKDegenerate は2ボーンIKの退化入力で根元位置へフォールバックした警告。
	WarningIKDegenerate = "WarningIKDegenerate"
	// WarningIKUnreachable は2ボーンIKの目標が届かず直線化した警告。
	WarningIKUnreachable = "WarningIKUnreachable"
	// WarningTrackMissing は対象ボーンにトラックがなく参照姿勢を使った警告。
	WarningTrackMissing = "WarningTrackMissing"
	// WarningChainTruncated はボーンチェーンがルートで打ち切られた警告。
	WarningChainTruncated = "WarningChainTruncated"
	// WarningSourceTimeClamped はコピー元時刻が範囲外で丸められた警告。
	WarningSourceTimeClamped = "WarningSourceTimeClamped"
	// WarningExtremumPruned は極値の間引きが行われた警告。
	WarningExtremumPruned = "WarningExtremumPruned"
)

// WarningIDs は定義済み警告IDを定義順で返す。
func WarningIDs() []string {
	return []string{
		WarningIKDegenerate,
		WarningIKUnreachable,
		WarningTrackMissing,
		WarningChainTruncated,
		WarningSourceTimeClamped,
		WarningExtremumPruned,
	}
}
