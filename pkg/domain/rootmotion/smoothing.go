// 指示: miu200521358
package rootmotion

import (
	"slices"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

// DetectExtrema は軸ごとの極値インデックスを昇順で返す。
// 前後 window 個の差分の符号がすべて揃うサンプルを極値とする。
// X は先頭2件、Z は先頭1件を固定し、末尾1件は全軸で固定する。Y の先頭は固定しない。
func DetectExtrema(curve *model.VectorCurve, window int) [3][]int {
	count := curve.Len()
	var extrema [3][]int
	if count == 0 {
		return extrema
	}

	extrema[0] = append(extrema[0], 0)
	if count > 1 {
		extrema[0] = append(extrema[0], 1)
	}
	extrema[2] = append(extrema[2], 0)

	for i := window; i < count-window; i++ {
		for axis := 0; axis < 3; axis++ {
			keys := curve.Axes[axis].Keys
			if isExtremum(keys, i, window) {
				extrema[axis] = append(extrema[axis], i)
			}
		}
	}

	for axis := 0; axis < 3; axis++ {
		extrema[axis] = append(extrema[axis], count-1)
		slices.Sort(extrema[axis])
		extrema[axis] = slices.Compact(extrema[axis])
	}
	return extrema
}

func isExtremum(keys []model.CurveKey, index int, window int) bool {
	current := keys[index].Value
	reference := 0.0
	for other := index - window; other <= index+window; other++ {
		if other == index {
			continue
		}
		delta := current - keys[other].Value
		deltaSign := sign(delta)
		if reference == 0 {
			reference = deltaSign
			continue
		}
		if deltaSign != reference && delta != 0 {
			return false
		}
	}
	return true
}

// PruneExtrema は近接した極値のうち真の山・谷でないものを取り除く。
// 隣の極値との時間差が accuracy 未満で、反対側とは accuracy より離れている極値が対象になる。
func PruneExtrema(curve *model.VectorCurve, extrema [3][]int, accuracy float64) (kept [3][]int, removed [3][]int) {
	for axis := 0; axis < 3; axis++ {
		list := extrema[axis]
		keys := curve.Axes[axis].Keys
		remove := map[int]struct{}{}

		for i := 1; i < len(list)-1; i++ {
			prev := keys[list[i-1]]
			curr := keys[list[i]]
			next := keys[list[i+1]]

			switch {
			case curr.Time-prev.Time < accuracy && next.Time-curr.Time > accuracy:
				if i == 1 {
					remove[list[i]] = struct{}{}
					continue
				}
				prev = keys[list[i-2]]
				if sign(prev.Value-curr.Value) != sign(next.Value-curr.Value) {
					remove[list[i]] = struct{}{}
				}
			case next.Time-curr.Time < accuracy && curr.Time-prev.Time > accuracy:
				if i == len(list)-2 {
					remove[list[i]] = struct{}{}
					continue
				}
				next = keys[list[i+2]]
				if sign(prev.Value-curr.Value) != sign(next.Value-curr.Value) {
					remove[list[i]] = struct{}{}
				}
			}
		}

		for _, index := range list {
			if _, ok := remove[index]; ok {
				removed[axis] = append(removed[axis], index)
				continue
			}
			kept[axis] = append(kept[axis], index)
		}
	}
	return kept, removed
}

// Smooth は固定されていないサンプルを前後との3点平均で passes 回平滑化する。
// 更新は先頭から順に行い、直前サンプルの更新結果を次の平均に使う。
func Smooth(curve *model.VectorCurve, pinned [3][]int, passes int) {
	count := curve.Len()
	var pinnedSet [3]map[int]struct{}
	for axis := 0; axis < 3; axis++ {
		pinnedSet[axis] = make(map[int]struct{}, len(pinned[axis]))
		for _, index := range pinned[axis] {
			pinnedSet[axis][index] = struct{}{}
		}
	}

	for pass := 0; pass < passes; pass++ {
		for i := 1; i < count-1; i++ {
			for axis := 0; axis < 3; axis++ {
				if _, ok := pinnedSet[axis][i]; ok {
					continue
				}
				keys := curve.Axes[axis].Keys
				curve.SetKeyComponent(axis, i, (keys[i-1].Value+keys[i].Value+keys[i+1].Value)/3)
			}
		}
	}
}

func sign(value float64) float64 {
	switch {
	case value > 0:
		return 1
	case value < 0:
		return -1
	}
	return 0
}
