package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Listing struct {
	NFTContract common.Address
	TokenID     *big.Int

	Owner common.Address
	User  common.Address

	PricePerDay   *big.Int
	StartDateUnix int64
	EndDateUnix   int64
	Duration      int64
	Expires       int64

	IsOwner bool
	IsUser  bool

	TokenURI string
	Metadata *Metadata
}

// Data returns the reduced record stored in the listing index.
func (l Listing) Data() ListingData {
	return ListingData{
		PricePerDay:   l.PricePerDay,
		StartDateUnix: l.StartDateUnix,
		EndDateUnix:   l.EndDateUnix,
		Duration:      l.Duration,
		Expires:       l.Expires,
		User:          l.User,
	}
}

type ListingData struct {
	PricePerDay   *big.Int
	StartDateUnix int64
	EndDateUnix   int64
	Duration      int64
	Expires       int64
	User          common.Address
}

// ListingIndex maps contract address -> token id (decimal) -> listing data.
type ListingIndex map[common.Address]map[string]ListingData

func NewListingIndex() ListingIndex {
	return ListingIndex{}
}

func (idx ListingIndex) Put(contract common.Address, tokenID *big.Int, data ListingData) {
	tokens, ok := idx[contract]
	if !ok {
		tokens = map[string]ListingData{}
		idx[contract] = tokens
	}

	tokens[tokenID.String()] = data
}

func (idx ListingIndex) Lookup(contract common.Address, tokenID *big.Int) (ListingData, bool) {
	if idx == nil || tokenID == nil {
		return ListingData{}, false
	}

	data, ok := idx[contract][tokenID.String()]
	return data, ok
}

func (idx ListingIndex) Len() int {
	n := 0
	for _, tokens := range idx {
		n += len(tokens)
	}

	return n
}
