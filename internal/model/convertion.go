package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339

func ConvertUnix(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(DefaultTimeLayout)
}

// ConvertExpires returns an empty string for a rental that never started.
func ConvertExpires(seconds int64) string {
	if seconds == 0 {
		return ""
	}

	return ConvertUnix(seconds)
}

func ConvertAddress(addr common.Address) string {
	if addr == (common.Address{}) {
		return ""
	}

	return addr.Hex()
}

func ConvertBigInt(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return v.String()
}

func ConvertMetadata(m *entity.Metadata) *Metadata {
	if m == nil {
		return nil
	}

	attributes := []Attribute{}
	for _, a := range m.Attributes {
		attributes = append(attributes, Attribute{
			TraitType:   a.TraitType,
			DisplayType: a.DisplayType,
			Value:       a.Value,
		})
	}

	return &Metadata{
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		ExternalURL: m.ExternalURL,
		Attributes:  attributes,
		Extra:       m.Extra,
	}
}

func ConvertListing(l entity.Listing) Listing {
	return Listing{
		NFTContract: l.NFTContract.Hex(),
		TokenID:     ConvertBigInt(l.TokenID),
		Owner:       l.Owner.Hex(),
		User:        ConvertAddress(l.User),
		PricePerDay: ConvertBigInt(l.PricePerDay),
		StartDate:   ConvertUnix(l.StartDateUnix),
		EndDate:     ConvertUnix(l.EndDateUnix),
		Duration:    l.Duration,
		Expires:     ConvertExpires(l.Expires),
		IsOwner:     l.IsOwner,
		IsUser:      l.IsUser,
		TokenURI:    l.TokenURI,
		Metadata:    ConvertMetadata(l.Metadata),
	}
}

func ConvertListings(listings []entity.Listing) []Listing {
	result := []Listing{}
	for _, l := range listings {
		result = append(result, ConvertListing(l))
	}
	return result
}

func ConvertListingData(d *entity.ListingData) *ListingData {
	if d == nil {
		return nil
	}

	return &ListingData{
		PricePerDay: ConvertBigInt(d.PricePerDay),
		StartDate:   ConvertUnix(d.StartDateUnix),
		EndDate:     ConvertUnix(d.EndDateUnix),
		Duration:    d.Duration,
		Expires:     ConvertExpires(d.Expires),
		User:        ConvertAddress(d.User),
	}
}

func ConvertOwnedToken(t entity.OwnedToken) OwnedToken {
	return OwnedToken{
		NFTContract: t.NFTContract.Hex(),
		TokenID:     ConvertBigInt(t.TokenID),
		TokenURI:    t.TokenURI,
		Metadata:    ConvertMetadata(t.Metadata),
		Listing:     ConvertListingData(t.ListingData),
	}
}

func ConvertOwnedTokens(tokens []entity.OwnedToken) []OwnedToken {
	result := []OwnedToken{}
	for _, t := range tokens {
		result = append(result, ConvertOwnedToken(t))
	}
	return result
}
