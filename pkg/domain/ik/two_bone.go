// 指示: miu200521358
package ik

import (
	"math"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
)

const smallNumber = 1e-8

// TwoBoneOptions は2ボーンIKの伸長設定を表す。
type TwoBoneOptions struct {
	AllowStretching   bool    `toml:"allow_stretching"`
	StartStretchRatio float64 `toml:"start_stretch_ratio"`
	MaxStretchScale   float64 `toml:"max_stretch_scale"`
}

// DefaultTwoBoneOptions は伸長なしの既定設定を返す。
func DefaultTwoBoneOptions() TwoBoneOptions {
	return TwoBoneOptions{
		AllowStretching:   false,
		StartStretchRatio: 0.5,
		MaxStretchScale:   1.0,
	}
}

// TwoBoneResult は2ボーンIKの解を表す。
type TwoBoneResult struct {
	// Joint は中間関節の新しい位置。
	Joint mmath.Vec3
	// End は末端関節の新しい位置。
	End mmath.Vec3
	// Reachable は目標に届いたか。届かない場合は目標方向へ伸び切っている。
	Reachable bool
	// Degenerate は骨長ゼロまたは目標が根元と一致し、根元位置を返したか。
	Degenerate bool
}

// SolveTwoBone は3関節チェーンの中間・末端位置を解析的に求める。
// 骨長は入力の root-joint, joint-end 間距離から取る。
func SolveTwoBone(
	root, joint, end, jointTarget, effector mmath.Vec3, options TwoBoneOptions,
) TwoBoneResult {
	return SolveTwoBoneWithLengths(root, jointTarget, effector, root.Distance(joint), joint.Distance(end), options)
}

// SolveTwoBoneWithLengths は骨長を指定して2ボーンIKを解く。
// 中間関節は root・目標・ポール目標が張る平面上で、ポール目標側へ曲がる。
func SolveTwoBoneWithLengths(
	root, jointTarget, effector mmath.Vec3, upperLength, lowerLength float64, options TwoBoneOptions,
) TwoBoneResult {
	desiredDelta := effector.Subed(root)
	desiredLength := desiredDelta.Length()
	if upperLength <= smallNumber || lowerLength <= smallNumber || desiredLength <= smallNumber ||
		math.IsNaN(desiredLength) || math.IsNaN(upperLength) || math.IsNaN(lowerLength) {
		return TwoBoneResult{Joint: root, End: root, Degenerate: true}
	}
	desiredDir := desiredDelta.MuledScalar(1 / desiredLength)
	bendDir := bendDirection(root, jointTarget, desiredDir)

	maxLimbLength := upperLength + lowerLength
	if options.AllowStretching {
		scaleRange := options.MaxStretchScale - options.StartStretchRatio
		if scaleRange > smallNumber && maxLimbLength > smallNumber {
			reachRatio := desiredLength / maxLimbLength
			scalingFactor := (options.MaxStretchScale - 1) *
				mmath.Clamp((reachRatio-options.StartStretchRatio)/scaleRange, 0, 1)
			if scalingFactor > smallNumber {
				upperLength *= 1 + scalingFactor
				lowerLength *= 1 + scalingFactor
				maxLimbLength *= 1 + scalingFactor
			}
		}
	}

	if desiredLength >= maxLimbLength {
		return TwoBoneResult{
			Joint:     root.Added(desiredDir.MuledScalar(upperLength)),
			End:       root.Added(desiredDir.MuledScalar(maxLimbLength)),
			Reachable: desiredLength == maxLimbLength,
		}
	}

	// 余弦定理で根元角を求める。acos の引数は [-1,1] に丸める。
	cosAngle := (upperLength*upperLength + desiredLength*desiredLength - lowerLength*lowerLength) /
		(2 * upperLength * desiredLength)
	reverseUpper := cosAngle < 0
	angle := math.Acos(mmath.Clamp(cosAngle, -1, 1))
	jointLineDist := upperLength * math.Sin(angle)
	projJointDist := math.Sqrt(math.Max(0, upperLength*upperLength-jointLineDist*jointLineDist))
	if reverseUpper {
		projJointDist = -projJointDist
	}

	return TwoBoneResult{
		Joint:     root.Added(desiredDir.MuledScalar(projJointDist)).Added(bendDir.MuledScalar(jointLineDist)),
		End:       effector,
		Reachable: true,
	}
}

// bendDirection は目標方向に直交し、ポール目標側を向く曲げ方向を返す。
func bendDirection(root, jointTarget, desiredDir mmath.Vec3) mmath.Vec3 {
	targetDelta := jointTarget.Subed(root)
	if targetDelta.LengthSqr() <= smallNumber*smallNumber {
		return fallbackBendDirection(desiredDir)
	}
	planeNormal := desiredDir.Cross(targetDelta)
	if planeNormal.LengthSqr() <= smallNumber*smallNumber {
		return fallbackBendDirection(desiredDir)
	}
	bend := targetDelta.Subed(desiredDir.MuledScalar(targetDelta.Dot(desiredDir)))
	return bend.Normalized()
}

// fallbackBendDirection はポール目標が使えない場合に目標方向と直交する軸を返す。
func fallbackBendDirection(desiredDir mmath.Vec3) mmath.Vec3 {
	candidate := mmath.Vec3UnitY()
	if math.Abs(desiredDir.Dot(candidate)) > 0.99 {
		candidate = mmath.Vec3UnitZ()
	}
	return candidate.Subed(desiredDir.MuledScalar(candidate.Dot(desiredDir))).Normalized()
}
