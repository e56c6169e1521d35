package marketplace

import (
	"errors"
	"math/big"
	"testing"

	marketplacecontract "github.com/rentable-lab/marketplace/contract/marketplace"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/mocks"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_ListingReconciler_RefreshListings(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	ethClient.On("GetAllListings", mock.Anything).Return([]marketplacecontract.MarketplaceListing{
		newRawListing(1, account, otherUser, 100, 1000, 1000+86400, 5000),
		newRawListing(2, otherUser, account, 250, 2000, 2000+3*86400, 0),
	}, nil)
	ethClient.On("TokenURI", mock.Anything, rentableNft, big.NewInt(1)).Return("ipfs://one", nil)
	ethClient.On("TokenURI", mock.Anything, rentableNft, big.NewInt(2)).Return("ipfs://two", nil)

	fetcher := &mockFetcher{docs: map[string]*entity.Metadata{
		"ipfs://one": {Name: "One"},
	}}

	snapshot, err := NewListingReconciler(ethClient, fetcher).RefreshListings(ctx, account)
	require.NoError(t, err)
	require.Len(t, snapshot.Listings, 2)
	require.Equal(t, 2, snapshot.Index.Len())

	first := snapshot.Listings[0]
	require.Equal(t, big.NewInt(1), first.TokenID)
	require.Equal(t, rentableNft, first.NFTContract)
	require.Equal(t, big.NewInt(100), first.PricePerDay)
	require.Equal(t, int64(86400), first.Duration)
	require.Equal(t, int64(5000), first.Expires)
	require.True(t, first.IsOwner)
	require.False(t, first.IsUser)
	require.Equal(t, "ipfs://one", first.TokenURI)
	require.Equal(t, "One", first.Metadata.Name)

	// The metadata of the second token cannot be fetched, the listing is still there.
	second := snapshot.Listings[1]
	require.Equal(t, big.NewInt(2), second.TokenID)
	require.Nil(t, second.Metadata)
	require.False(t, second.IsOwner)
	require.True(t, second.IsUser)
	require.Equal(t, int64(3*86400), second.Duration)

	data, ok := snapshot.Index.Lookup(rentableNft, big.NewInt(2))
	require.True(t, ok)
	require.Equal(t, big.NewInt(250), data.PricePerDay)
	require.Equal(t, account, data.User)
	require.Equal(t, second.Data(), data)
}

func Test_ListingReconciler_RefreshListings_Sizes(t *testing.T) {
	ctx := testutil.MockContext()

	for _, n := range []int{0, 1, 5, 20} {
		raws := []marketplacecontract.MarketplaceListing{}
		ethClient := &mocks.EthClient{}
		for i := 0; i < n; i++ {
			raws = append(raws, newRawListing(int64(i), otherUser, otherUser, 1, 0, 10, 0))
			ethClient.On("TokenURI", mock.Anything, rentableNft, big.NewInt(int64(i))).Return("ipfs://x", nil)
		}
		ethClient.On("GetAllListings", mock.Anything).Return(raws, nil)

		snapshot, err := NewListingReconciler(ethClient, &mockFetcher{}).RefreshListings(ctx, account)
		require.NoError(t, err)
		require.NotNil(t, snapshot.Listings)
		require.NotNil(t, snapshot.Index)
		require.Len(t, snapshot.Listings, n)
		require.Equal(t, n, snapshot.Index.Len())

		for i, listing := range snapshot.Listings {
			require.Equal(t, big.NewInt(int64(i)), listing.TokenID)
		}
	}
}

func Test_ListingReconciler_RefreshListings_Idempotent(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	ethClient.On("GetAllListings", mock.Anything).Return([]marketplacecontract.MarketplaceListing{
		newRawListing(1, account, otherUser, 100, 1000, 2000, 0),
		newRawListing(2, otherUser, otherUser, 100, 1000, 2000, 0),
	}, nil)
	ethClient.On("TokenURI", mock.Anything, rentableNft, mock.Anything).Return("ipfs://doc", nil)

	reconciler := NewListingReconciler(ethClient, &mockFetcher{docs: map[string]*entity.Metadata{
		"ipfs://doc": {Name: "Doc"},
	}})

	first, err := reconciler.RefreshListings(ctx, account)
	require.NoError(t, err)

	second, err := reconciler.RefreshListings(ctx, account)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func Test_ListingReconciler_RefreshListings_ContractFailure(t *testing.T) {
	ctx := testutil.MockContext()

	t.Run("get all listings", func(t *testing.T) {
		ethClient := &mocks.EthClient{}
		ethClient.On("GetAllListings", mock.Anything).Return(nil, errors.New("rpc down"))

		_, err := NewListingReconciler(ethClient, &mockFetcher{}).RefreshListings(ctx, account)
		require.Error(t, err)
	})

	t.Run("token uri", func(t *testing.T) {
		ethClient := &mocks.EthClient{}
		ethClient.On("GetAllListings", mock.Anything).Return([]marketplacecontract.MarketplaceListing{
			newRawListing(1, account, otherUser, 100, 1000, 2000, 0),
		}, nil)
		ethClient.On("TokenURI", mock.Anything, rentableNft, big.NewInt(1)).Return("", errors.New("execution reverted"))

		_, err := NewListingReconciler(ethClient, &mockFetcher{}).RefreshListings(ctx, account)
		require.Error(t, err)
	})

	t.Run("timestamp out of range", func(t *testing.T) {
		raw := newRawListing(1, account, otherUser, 100, 1000, 2000, 0)
		raw.EndDateUNIX = new(big.Int).Lsh(big.NewInt(1), 64)

		ethClient := &mocks.EthClient{}
		ethClient.On("GetAllListings", mock.Anything).Return([]marketplacecontract.MarketplaceListing{raw}, nil)
		ethClient.On("TokenURI", mock.Anything, rentableNft, big.NewInt(1)).Return("ipfs://one", nil)

		_, err := NewListingReconciler(ethClient, &mockFetcher{}).RefreshListings(ctx, account)
		require.True(t, errorx.Is(err, errorx.BadResponse))
	})
}
