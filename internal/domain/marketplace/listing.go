package marketplace

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/rentable-lab/marketplace/internal/common"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/eth"
	"github.com/rentable-lab/marketplace/internal/domain/metadata"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/numberutil"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

// Snapshot holds the listings and the index built from them in the same refresh.
type Snapshot struct {
	Listings []entity.Listing
	Index    entity.ListingIndex
}

type ListingReconciler struct {
	ethClient eth.EthClient
	fetcher   metadata.Fetcher
}

func NewListingReconciler(ethClient eth.EthClient, fetcher metadata.Fetcher) *ListingReconciler {
	return &ListingReconciler{ethClient: ethClient, fetcher: fetcher}
}

// RefreshListings reads every active listing from the marketplace contract and resolves the
// metadata of each token concurrently. A metadata failure only leaves that listing's Metadata
// nil, while a contract read failure fails the whole refresh.
func (r *ListingReconciler) RefreshListings(ctx context.Context, account common.Address) (*Snapshot, error) {
	start := time.Now()
	defer func() {
		internalcommon.PromHistograms[internalcommon.MarketplaceRefreshDuration].
			WithLabelValues("listings").Observe(time.Since(start).Seconds())
	}()

	raws, err := r.ethClient.GetAllListings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all listings: %v", err)
		return nil, err
	}

	listings := make([]entity.Listing, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	for i := range raws {
		i := i
		raw := raws[i]
		g.Go(func() error {
			start, startOK := numberutil.ToInt64(raw.StartDateUNIX)
			end, endOK := numberutil.ToInt64(raw.EndDateUNIX)
			expires, expiresOK := numberutil.ToInt64(raw.Expires)
			if !startOK || !endOK || !expiresOK {
				return errorx.New(errorx.BadResponse, "listing %s/%s has an out of range timestamp",
					raw.NftContract.Hex(), raw.TokenId)
			}

			listing := entity.Listing{
				NFTContract:   raw.NftContract,
				TokenID:       raw.TokenId,
				Owner:         raw.Owner,
				User:          raw.User,
				PricePerDay:   raw.PricePerDay,
				StartDateUnix: start,
				EndDateUnix:   end,
				Expires:       expires,
				IsOwner:       raw.Owner == account,
				IsUser:        raw.User == account,
			}
			listing.Duration = listing.EndDateUnix - listing.StartDateUnix

			tokenURI, err := r.ethClient.TokenURI(gctx, raw.NftContract, raw.TokenId)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get token uri of %s/%s: %v",
					raw.NftContract.Hex(), raw.TokenId, err)
				return err
			}

			listing.TokenURI = tokenURI
			listing.Metadata = fetchMetadata(gctx, r.fetcher, tokenURI)
			listings[i] = listing
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := entity.NewListingIndex()
	for _, listing := range listings {
		index.Put(listing.NFTContract, listing.TokenID, listing.Data())
	}

	return &Snapshot{Listings: listings, Index: index}, nil
}

// fetchMetadata never fails. An unreachable or malformed document is logged and reported as nil.
func fetchMetadata(ctx context.Context, fetcher metadata.Fetcher, tokenURI string) *entity.Metadata {
	m, err := fetcher.Fetch(ctx, tokenURI)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Bad uri %s: %v", tokenURI, err)
		internalcommon.PromCounters[internalcommon.MetadataFetchFailure].WithLabelValues("gateway").Inc()
		return nil
	}

	return m
}
