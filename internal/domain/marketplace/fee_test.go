package marketplace

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_ListingWindow(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_250)

	start, end := ListingWindow(now, 30*time.Second, SecondsPerDay)
	require.Equal(t, int64(1_700_000_031), start)
	require.Equal(t, start+SecondsPerDay, end)
	require.Equal(t, int64(SecondsPerDay), end-start)

	start, _ = ListingWindow(time.Unix(1_700_000_000, 0), 30*time.Second, 60)
	require.Equal(t, int64(1_700_000_030), start)
}

func Test_RentalFee(t *testing.T) {
	tests := []struct {
		name     string
		duration int64
		price    int64
		want     int64
	}{
		{name: "one day", duration: SecondsPerDay, price: 100, want: 200},
		{name: "half a day", duration: SecondsPerDay / 2, price: 100, want: 150},
		{name: "one second rounds up", duration: 1, price: 100, want: 101},
		{name: "fractional rounds up", duration: SecondsPerDay / 3, price: 10, want: 14},
		{name: "zero price", duration: SecondsPerDay, price: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, big.NewInt(tt.want), RentalFee(tt.duration, big.NewInt(tt.price)))
		})
	}
}

func Test_RentalFee_AtLeastPricePerDay(t *testing.T) {
	price := big.NewInt(1_000_000_007)
	for _, days := range []int64{1, 2, 7, 30, 365} {
		for _, extra := range []int64{0, 1, 3599, SecondsPerDay - 1} {
			fee := RentalFee(days*SecondsPerDay+extra, price)
			require.True(t, fee.Cmp(price) >= 0)
		}
	}
}

func Test_UnlistRefund(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	price := big.NewInt(100)

	// Expired an hour ago.
	require.Equal(t, big.NewInt(0), UnlistRefund(now.Unix()-3600, now, price))

	// Never rented.
	require.Equal(t, big.NewInt(0), UnlistRefund(0, now, price))

	// Expires exactly now.
	require.Equal(t, big.NewInt(0), UnlistRefund(now.Unix(), now, price))

	// One hour left is counted as a day plus the inclusive day.
	require.Equal(t, big.NewInt(200), UnlistRefund(now.Unix()+3600, now, price))

	// Exactly one day left.
	require.Equal(t, big.NewInt(200), UnlistRefund(now.Unix()+SecondsPerDay, now, price))

	// One day and a second left.
	require.Equal(t, big.NewInt(300), UnlistRefund(now.Unix()+SecondsPerDay+1, now, price))
}

func Test_UnlistRefund_NeverNegative(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	for _, offset := range []int64{-10 * SecondsPerDay, -SecondsPerDay, -1, 0, 1, SecondsPerDay} {
		refund := UnlistRefund(now.Unix()+offset, now, big.NewInt(100))
		require.True(t, refund.Sign() >= 0)
	}
}
