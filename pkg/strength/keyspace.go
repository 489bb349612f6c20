package strength

import (
	"math"
	"math/big"
)

// floatPrec matches float64 so that every keyspace a float64 can hold exactly
// is computed exactly, and divisions round the way float64 division does.
const floatPrec = 53

// Keyspace returns alphabet^length. An empty alphabet or zero length yields 1.
func Keyspace(alphabet, length int) *big.Float {
	result := newFloat().SetInt64(1)
	if alphabet <= 0 || length <= 0 {
		return result
	}

	base := newFloat().SetInt64(int64(alphabet))
	for n := length; n > 0; n >>= 1 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		if n > 1 {
			base.Mul(base, base)
		}
	}
	return result
}

// Entropy returns the brute-force entropy in bits: length * log2(alphabet).
func Entropy(alphabet, length int) float64 {
	if alphabet <= 1 || length <= 0 {
		return 0
	}
	return float64(length) * math.Log2(float64(alphabet))
}

// SecondsToCrack divides the attempts needed by the guess rate. With
// averageCase the keyspace is halved. Results beyond float64 range are +Inf.
func SecondsToCrack(keyspace *big.Float, calcs float64, averageCase bool) float64 {
	attempts := newFloat().Set(keyspace)
	if averageCase {
		attempts.Quo(attempts, newFloat().SetInt64(2))
	}
	seconds := newFloat().Quo(attempts, newFloat().SetFloat64(calcs))
	f, _ := seconds.Float64()
	return f
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(floatPrec)
}
