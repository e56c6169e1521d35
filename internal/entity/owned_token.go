package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type OwnedToken struct {
	NFTContract common.Address
	TokenID     *big.Int

	// Only known when the token was found by scanning mint events.
	TokenURI string
	Metadata *Metadata

	// Nil when the token is not listed.
	ListingData *ListingData
}
