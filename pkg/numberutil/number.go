package numberutil

import "math/big"

func AbsInt64(a int64) int64 {
	if a < 0 {
		return -a
	}

	return a
}

// CeilDiv returns ceil(a/b) for a >= 0 and b > 0.
func CeilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}

	return q
}

// CeilUnix rounds a unix time in milliseconds up to whole seconds.
func CeilUnix(ms int64) int64 {
	if ms%1000 == 0 {
		return ms / 1000
	}

	return ms/1000 + 1
}

// ToInt64 reports false when v is nil or does not fit in an int64.
func ToInt64(v *big.Int) (int64, bool) {
	if v == nil || !v.IsInt64() {
		return 0, false
	}

	return v.Int64(), true
}
