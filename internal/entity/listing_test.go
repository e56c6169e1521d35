package entity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func Test_ListingIndex(t *testing.T) {
	contractA := common.HexToAddress("0x01")
	contractB := common.HexToAddress("0x02")

	idx := NewListingIndex()
	require.Equal(t, 0, idx.Len())

	idx.Put(contractA, big.NewInt(1), ListingData{PricePerDay: big.NewInt(10)})
	idx.Put(contractA, big.NewInt(2), ListingData{PricePerDay: big.NewInt(20)})
	idx.Put(contractB, big.NewInt(1), ListingData{PricePerDay: big.NewInt(30)})
	require.Equal(t, 3, idx.Len())

	data, ok := idx.Lookup(contractA, big.NewInt(2))
	require.True(t, ok)
	require.Equal(t, big.NewInt(20), data.PricePerDay)

	_, ok = idx.Lookup(contractB, big.NewInt(2))
	require.False(t, ok)

	var nilIndex ListingIndex
	_, ok = nilIndex.Lookup(contractA, big.NewInt(1))
	require.False(t, ok)
}

func Test_Listing_Data(t *testing.T) {
	listing := Listing{
		PricePerDay:   big.NewInt(100),
		StartDateUnix: 10,
		EndDateUnix:   86410,
		Duration:      86400,
		Expires:       0,
		User:          common.HexToAddress("0x03"),
	}

	data := listing.Data()
	require.Equal(t, int64(86400), data.Duration)
	require.Equal(t, listing.User, data.User)
	require.Equal(t, listing.PricePerDay, data.PricePerDay)
}
