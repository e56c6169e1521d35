package marketplace

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/config"
	internalcommon "github.com/rentable-lab/marketplace/internal/common"
	"github.com/rentable-lab/marketplace/internal/domain/indexer"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

// Provider keeps the latest listings, listing index and owned tokens of one account and exposes
// the marketplace actions. State is recomputed when the account or the indexer availability
// changes, and after every successful action.
//
// Refreshes may run concurrently. Each one takes a generation number when it starts and its
// result is applied only if no later refresh of the same kind has been applied already.
type Provider struct {
	listingReconciler   *ListingReconciler
	ownershipReconciler *OwnershipReconciler
	indexer             indexer.Service
	actions             *ActionDispatcher

	listingGeneration atomic.Uint64
	ownedGeneration   atomic.Uint64

	mutex             sync.RWMutex
	account           common.Address
	listings          []entity.Listing
	index             entity.ListingIndex
	ownedTokens       []entity.OwnedToken
	appliedListingGen uint64
	appliedOwnedGen   uint64
}

// NewProvider wires the action dispatcher back to the provider. indexerService may be nil.
func NewProvider(
	account common.Address,
	listingReconciler *ListingReconciler,
	ownershipReconciler *OwnershipReconciler,
	indexerService indexer.Service,
	actions *ActionDispatcher,
) *Provider {
	p := &Provider{
		listingReconciler:   listingReconciler,
		ownershipReconciler: ownershipReconciler,
		indexer:             indexerService,
		actions:             actions,
		account:             account,
	}

	if actions != nil {
		actions.SetRefresher(p)
	}

	return p
}

func (p *Provider) Account() common.Address {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.account
}

// Listings returns a copy of the latest listings, empty before the first load.
func (p *Provider) Listings() []entity.Listing {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	result := make([]entity.Listing, len(p.listings))
	copy(result, p.listings)
	return result
}

// OwnedTokens returns a copy of the latest owned tokens, empty before the first load.
func (p *Provider) OwnedTokens() []entity.OwnedToken {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	result := make([]entity.OwnedToken, len(p.ownedTokens))
	copy(result, p.ownedTokens)
	return result
}

// Index returns the listing index of the latest applied listing refresh. It is nil before the
// first load and must not be modified.
func (p *Provider) Index() entity.ListingIndex {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.index
}

// SetAccount switches the account and recomputes everything depending on it.
func (p *Provider) SetAccount(ctx context.Context, account common.Address) error {
	p.mutex.Lock()
	changed := p.account != account
	p.account = account
	if changed {
		p.ownedTokens = nil
	}
	p.mutex.Unlock()

	if !changed {
		return nil
	}

	return p.Refresh(ctx)
}

// Refresh recomputes the listings and then the owned tokens.
func (p *Provider) Refresh(ctx context.Context) error {
	return p.RefreshListings(ctx)
}

func (p *Provider) RefreshListings(ctx context.Context) error {
	generation := p.listingGeneration.Add(1)
	account := p.Account()

	snapshot, err := p.listingReconciler.RefreshListings(ctx, account)
	if err != nil {
		countRefresh("listings", "failure")
		return err
	}

	p.mutex.Lock()
	applied := generation > p.appliedListingGen && account == p.account
	if applied {
		p.listings = snapshot.Listings
		p.index = snapshot.Index
		p.appliedListingGen = generation
		p.ownedTokens = attachListingData(p.ownedTokens, snapshot.Index)
	}
	p.mutex.Unlock()

	if !applied {
		countRefresh("listings", "discarded")
		xcontext.Logger(ctx).Debugf("Discard listing refresh %d, a newer one was applied", generation)
		return nil
	}

	countRefresh("listings", "success")
	xcontext.Logger(ctx).Debugf("Applied listing refresh %d with %d listings", generation, len(snapshot.Listings))

	return p.RefreshOwnedTokens(ctx)
}

// RefreshOwnedTokens is a no-op until the first listing refresh has been applied.
func (p *Provider) RefreshOwnedTokens(ctx context.Context) error {
	generation := p.ownedGeneration.Add(1)

	p.mutex.RLock()
	account, index, listingGen := p.account, p.index, p.appliedListingGen
	p.mutex.RUnlock()

	if index == nil {
		xcontext.Logger(ctx).Debugf("Skip owned token refresh %d, listing index is not loaded", generation)
		return nil
	}

	tokens, err := p.ownershipReconciler.RefreshOwnedTokens(ctx, account, index)
	if err != nil {
		countRefresh("owned_tokens", "failure")
		return err
	}

	p.mutex.Lock()
	// Tokens resolved against a replaced index are dropped, the refresh chained to the newer
	// listing refresh supersedes them.
	applied := generation > p.appliedOwnedGen && account == p.account && listingGen == p.appliedListingGen
	if applied {
		p.ownedTokens = tokens
		p.appliedOwnedGen = generation
	}
	p.mutex.Unlock()

	if !applied {
		countRefresh("owned_tokens", "discarded")
		xcontext.Logger(ctx).Debugf("Discard owned token refresh %d, a newer refresh or index was applied", generation)
		return nil
	}

	countRefresh("owned_tokens", "success")
	return nil
}

// CheckIndexer checks the indexer and refreshes the owned tokens when its availability changed.
func (p *Provider) CheckIndexer(ctx context.Context) error {
	if p.indexer == nil {
		return nil
	}

	before := p.indexer.Active()
	after := p.indexer.CheckAvailability(ctx)
	if before == after {
		return nil
	}

	xcontext.Logger(ctx).Infof("Indexer availability changed to %t", after)
	return p.RefreshOwnedTokens(ctx)
}

// Watch refreshes the state every interval and on every new head received from heads until ctx
// is done. heads may be nil. A non-positive interval falls back to the default one.
func (p *Provider) Watch(ctx context.Context, interval time.Duration, heads <-chan uint64) {
	if interval <= 0 {
		interval = config.Default().Marketplace.WatchInterval.Duration
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case height := <-heads:
			if err := p.Refresh(ctx); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot refresh marketplace at height %d: %v", height, err)
			}

		case <-ticker.C:
			if err := p.CheckIndexer(ctx); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot refresh owned tokens after indexer change: %v", err)
			}

			if err := p.Refresh(ctx); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot refresh marketplace: %v", err)
			}
		}
	}
}

func (p *Provider) Mint(ctx context.Context, tokenURI string) (*ActionResult, error) {
	return p.actions.Mint(ctx, tokenURI)
}

func (p *Provider) List(
	ctx context.Context, nftContract common.Address, tokenID, pricePerDay *big.Int, duration int64,
) (*ActionResult, error) {
	return p.actions.List(ctx, nftContract, tokenID, pricePerDay, duration)
}

func (p *Provider) Unlist(ctx context.Context, nftContract common.Address, tokenID *big.Int) (*ActionResult, error) {
	return p.actions.Unlist(ctx, nftContract, tokenID)
}

func (p *Provider) Rent(
	ctx context.Context, nftContract common.Address, tokenID *big.Int, duration int64,
) (*ActionResult, error) {
	return p.actions.Rent(ctx, nftContract, tokenID, duration)
}

// attachListingData returns a copy of tokens carrying the listing data found in index.
func attachListingData(tokens []entity.OwnedToken, index entity.ListingIndex) []entity.OwnedToken {
	if tokens == nil {
		return nil
	}

	result := make([]entity.OwnedToken, len(tokens))
	for i, token := range tokens {
		token.ListingData = nil
		if data, ok := index.Lookup(token.NFTContract, token.TokenID); ok {
			data := data
			token.ListingData = &data
		}
		result[i] = token
	}

	return result
}

func countRefresh(kind, result string) {
	internalcommon.PromCounters[internalcommon.MarketplaceRefreshTotal].WithLabelValues(kind, result).Inc()
}
