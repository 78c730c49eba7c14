// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"math/big"
)

var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// DiffOneTarget is the target of a difficulty 1 share: 0x0000ffff in the
	// most significant 32-bit word, zeros below.
	DiffOneTarget = new(big.Int).Lsh(big.NewInt(0xffff), 224)

	// MaxTarget is the largest 256-bit target.
	MaxTarget = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 256), bigOne)
)

// CompactToBig converts a compact representation of a whole number N to an
// unsigned 32-bit number. The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out as follows:
//
//	* the most significant 8 bits represent the unsigned base 256 exponent
//	* bit 23 (the 24th bit) represents the sign bit
//	* the least significant 23 bits represent the mantissa
//
//	-------------------------------------------------
//	|   Exponent     |    Sign    |    Mantissa     |
//	-------------------------------------------------
//	| 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//	-------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
func CompactToBig(compact uint32) *big.Int {
	// Extract the mantissa, sign bit, and exponent.
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes to represent the full 256-bit number. So,
	// treat the exponent as the number of bytes and shift the mantissa
	// right or left accordingly. This is equivalent to:
	// N = mantissa * 256^(exponent-3)
	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	// Make it negative if the sign bit is set.
	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// BigToCompact converts a whole number N to a compact representation using
// an unsigned 32-bit number. The compact representation only provides 23 bits
// of precision, so values larger than (2^23 - 1) only encode the most
// significant digits of the number. See CompactToBig for details.
func BigToCompact(n *big.Int) uint32 {
	// No need to do any work if it's zero.
	if n.Sign() == 0 {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes. So, shift the number right or left
	// accordingly. This is equivalent to:
	// mantissa = mantissa / 256^(exponent-3)
	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		// Use a copy to avoid modifying the caller's original number.
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by 256
	// and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	// Pack the exponent, sign bit, and mantissa into an unsigned 32-bit
	// int and return it.
	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// TargetFromDifficulty returns the target of a share with the given
// difficulty: DiffOneTarget / difficulty, clamped to [1, MaxTarget].
// Non-positive difficulties yield MaxTarget.
func TargetFromDifficulty(difficulty float64) *big.Int {
	if difficulty <= 0 {
		return new(big.Int).Set(MaxTarget)
	}

	// Scale to keep fractional difficulties precise.
	const precision = 1 << 32
	scaledDifficulty, _ := new(big.Float).Mul(big.NewFloat(difficulty), big.NewFloat(precision)).Int(nil)
	if scaledDifficulty.Sign() == 0 {
		return new(big.Int).Set(MaxTarget)
	}

	target := new(big.Int).Lsh(DiffOneTarget, 32)
	target.Div(target, scaledDifficulty)
	if target.Sign() == 0 {
		return new(big.Int).Set(bigOne)
	}
	if target.Cmp(MaxTarget) > 0 {
		return new(big.Int).Set(MaxTarget)
	}
	return target
}

// DifficultyFromTarget is the inverse of TargetFromDifficulty.
func DifficultyFromTarget(target *big.Int) float64 {
	if target.Sign() <= 0 {
		return 0
	}
	difficulty, _ := new(big.Float).Quo(new(big.Float).SetInt(DiffOneTarget), new(big.Float).SetInt(target)).Float64()
	return difficulty
}
