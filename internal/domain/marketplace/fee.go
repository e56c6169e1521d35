package marketplace

import (
	"math/big"
	"time"

	"github.com/rentable-lab/marketplace/pkg/numberutil"
)

const SecondsPerDay = 86400

var bigDay = big.NewInt(SecondsPerDay)

// ListingWindow returns the rental window of a new listing. The window opens buffer after now,
// rounded up to the next whole second.
func ListingWindow(now time.Time, buffer time.Duration, duration int64) (start, end int64) {
	start = numberutil.CeilUnix(now.UnixMilli()) + int64(buffer/time.Second)
	return start, start + duration
}

// RentalFee is ceil((duration/86400 + 1) * pricePerDay), computed without rounding error.
func RentalFee(duration int64, pricePerDay *big.Int) *big.Int {
	numerator := new(big.Int).Mul(big.NewInt(duration+SecondsPerDay), pricePerDay)
	return numberutil.CeilDiv(numerator, bigDay)
}

// UnlistRefund is the amount owed to the current renter when a listing is removed:
// ceil((expires-now)/86400 + 1) * pricePerDay. Nothing is owed once the rental has expired.
func UnlistRefund(expires int64, now time.Time, pricePerDay *big.Int) *big.Int {
	remainingMs := expires*1000 - now.UnixMilli()
	if remainingMs <= 0 || pricePerDay.Sign() <= 0 {
		return new(big.Int)
	}

	days := numberutil.CeilDiv(big.NewInt(remainingMs+SecondsPerDay*1000), big.NewInt(SecondsPerDay*1000))
	return days.Mul(days, pricePerDay)
}
