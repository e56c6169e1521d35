package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/rentable-lab/marketplace/internal/common"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/eth"
	"github.com/rentable-lab/marketplace/internal/domain/indexer"
	"github.com/rentable-lab/marketplace/internal/domain/metadata"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

var ErrMissingListingIndex = errorx.New(errorx.MissingState, "listing index is not loaded yet")

// OwnershipSource is the strategy used to find owned tokens in one refresh.
type OwnershipSource int

const (
	SourceIndexed OwnershipSource = iota
	SourceEventScan
)

func (s OwnershipSource) String() string {
	switch s {
	case SourceIndexed:
		return "indexed"
	case SourceEventScan:
		return "event_scan"
	}

	return "unknown"
}

type OwnershipReconciler struct {
	ethClient   eth.EthClient
	indexer     indexer.Service
	fetcher     metadata.Fetcher
	rentableNft common.Address
}

func NewOwnershipReconciler(
	ethClient eth.EthClient,
	indexerService indexer.Service,
	fetcher metadata.Fetcher,
	rentableNft common.Address,
) *OwnershipReconciler {
	return &OwnershipReconciler{
		ethClient:   ethClient,
		indexer:     indexerService,
		fetcher:     fetcher,
		rentableNft: rentableNft,
	}
}

// Source selects the strategy for the next refresh. The indexer service may be nil.
func (r *OwnershipReconciler) Source() OwnershipSource {
	if r.indexer != nil && r.indexer.Active() {
		return SourceIndexed
	}

	return SourceEventScan
}

// RefreshOwnedTokens resolves the tokens owned by account and attaches the listing data found in
// index. Exactly one strategy runs per call. The event scan only sees tokens minted to account,
// tokens received by transfer are not reported.
func (r *OwnershipReconciler) RefreshOwnedTokens(
	ctx context.Context,
	account common.Address,
	index entity.ListingIndex,
) ([]entity.OwnedToken, error) {
	if index == nil {
		return nil, ErrMissingListingIndex
	}

	source := r.Source()
	start := time.Now()
	defer func() {
		internalcommon.PromHistograms[internalcommon.MarketplaceRefreshDuration].
			WithLabelValues("owned_" + source.String()).Observe(time.Since(start).Seconds())
	}()

	var tokens []entity.OwnedToken
	var err error
	switch source {
	case SourceIndexed:
		tokens, err = r.fromIndexer(ctx, account)
	case SourceEventScan:
		tokens, err = r.fromEventScan(ctx, account)
	default:
		err = errors.New("unknown ownership source")
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refresh owned tokens of %s using %s: %v", account.Hex(), source, err)
		return nil, err
	}

	for i := range tokens {
		if data, ok := index.Lookup(tokens[i].NFTContract, tokens[i].TokenID); ok {
			data := data
			tokens[i].ListingData = &data
		}
	}

	return tokens, nil
}

func (r *OwnershipReconciler) fromIndexer(ctx context.Context, account common.Address) ([]entity.OwnedToken, error) {
	tokens, err := r.indexer.GetOwnedTokens(ctx, account)
	if err != nil {
		return nil, err
	}

	if tokens == nil {
		tokens = []entity.OwnedToken{}
	}

	return tokens, nil
}

func (r *OwnershipReconciler) fromEventScan(ctx context.Context, account common.Address) ([]entity.OwnedToken, error) {
	tokenIDs, err := r.ethClient.MintedTokenIDs(ctx, account)
	if err != nil {
		return nil, err
	}

	tokens := make([]entity.OwnedToken, len(tokenIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range tokenIDs {
		i := i
		tokenID := tokenIDs[i]
		g.Go(func() error {
			tokenURI, err := r.ethClient.TokenURI(gctx, r.rentableNft, tokenID)
			if err != nil {
				return err
			}

			tokens[i] = entity.OwnedToken{
				NFTContract: r.rentableNft,
				TokenID:     tokenID,
				TokenURI:    tokenURI,
				Metadata:    fetchMetadata(gctx, r.fetcher, tokenURI),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tokens, nil
}
