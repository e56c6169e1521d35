package marketplace

import (
	"errors"
	"math/big"
	"testing"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/types"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/mocks"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestActionDispatcher(
	ethClient *mocks.EthClient,
	dispatcher *mockDispatcher,
	waiter *mockReceiptWaiter,
	refresher *mockRefresher,
) *ActionDispatcher {
	d := NewActionDispatcher(testutil.MockContext(), account, ethClient, dispatcher, waiter)
	d.SetRefresher(refresher)
	d.now = func() time.Time { return fixedNow }
	return d
}

func listedIndex(price int64) entity.ListingIndex {
	index := entity.NewListingIndex()
	index.Put(rentableNft, big.NewInt(1), entity.ListingData{
		PricePerDay:   big.NewInt(price),
		StartDateUnix: fixedNow.Unix(),
		EndDateUnix:   fixedNow.Unix() + SecondsPerDay,
		Duration:      SecondsPerDay,
	})
	return index
}

func Test_ActionDispatcher_Mint(t *testing.T) {
	ctx := testutil.MockContext()
	tx := newTx(0)
	ethClient := &mocks.EthClient{}
	ethClient.On("GetSignedMintTx", ctx, "ipfs://new").Return(tx, nil)

	dispatcher := &mockDispatcher{}
	waiter := &mockReceiptWaiter{status: ethtypes.ReceiptStatusSuccessful}
	refresher := &mockRefresher{}

	result, err := newTestActionDispatcher(ethClient, dispatcher, waiter, refresher).Mint(ctx, "ipfs://new")
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), result.TxHash)
	require.NotEmpty(t, result.ID)

	require.Len(t, dispatcher.requests, 1)
	require.Equal(t, account, dispatcher.requests[0].From)
	require.Equal(t, 1, refresher.ownedCalls)
	require.Equal(t, 0, refresher.listingCalls)
}

func Test_ActionDispatcher_List(t *testing.T) {
	ctx := testutil.MockContext()
	tx := newTx(10)
	start := fixedNow.Unix() + 30

	ethClient := &mocks.EthClient{}
	ethClient.On("GetListingFee", ctx).Return(big.NewInt(10), nil)
	ethClient.On("GetSignedListTx", ctx, rentableNft, big.NewInt(1), big.NewInt(100),
		big.NewInt(start), big.NewInt(start+SecondsPerDay), big.NewInt(10)).Return(tx, nil)

	refresher := &mockRefresher{}
	d := newTestActionDispatcher(ethClient, &mockDispatcher{}, &mockReceiptWaiter{status: 1}, refresher)

	result, err := d.List(ctx, rentableNft, big.NewInt(1), big.NewInt(100), SecondsPerDay)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10), result.Value)
	require.Equal(t, 1, refresher.listingCalls)
	ethClient.AssertExpectations(t)
}

func Test_ActionDispatcher_List_BadRequest(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	d := newTestActionDispatcher(ethClient, &mockDispatcher{}, &mockReceiptWaiter{}, &mockRefresher{})

	_, err := d.List(ctx, rentableNft, big.NewInt(1), big.NewInt(100), 0)
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.List(ctx, rentableNft, big.NewInt(1), big.NewInt(-1), SecondsPerDay)
	require.True(t, errorx.Is(err, errorx.BadRequest))

	ethClient.AssertNotCalled(t, "GetListingFee", mock.Anything)
}

func Test_ActionDispatcher_Rent(t *testing.T) {
	ctx := testutil.MockContext()
	tx := newTx(200)

	ethClient := &mocks.EthClient{}
	ethClient.On("GetSignedRentTx", ctx, rentableNft, big.NewInt(1),
		uint64(fixedNow.Unix()+SecondsPerDay), big.NewInt(200)).Return(tx, nil)

	refresher := &mockRefresher{index: listedIndex(100)}
	d := newTestActionDispatcher(ethClient, &mockDispatcher{}, &mockReceiptWaiter{status: 1}, refresher)

	result, err := d.Rent(ctx, rentableNft, big.NewInt(1), SecondsPerDay)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(200), result.Value)
	require.Equal(t, 1, refresher.listingCalls)
	ethClient.AssertExpectations(t)
}

func Test_ActionDispatcher_Unlist(t *testing.T) {
	ctx := testutil.MockContext()

	tests := []struct {
		name    string
		expires int64
		refund  int64
	}{
		{name: "expired an hour ago", expires: fixedNow.Unix() - 3600, refund: 0},
		{name: "never rented", expires: 0, refund: 0},
		{name: "an hour left", expires: fixedNow.Unix() + 3600, refund: 200},
		{name: "two days left", expires: fixedNow.Unix() + 2*SecondsPerDay, refund: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTx(tt.refund)
			ethClient := &mocks.EthClient{}
			ethClient.On("UserExpires", ctx, rentableNft, big.NewInt(1)).Return(big.NewInt(tt.expires), nil)
			ethClient.On("GetSignedUnlistTx", ctx, rentableNft, big.NewInt(1),
				mock.MatchedBy(func(v *big.Int) bool { return v.Cmp(big.NewInt(tt.refund)) == 0 })).Return(tx, nil)

			refresher := &mockRefresher{index: listedIndex(100)}
			d := newTestActionDispatcher(ethClient, &mockDispatcher{}, &mockReceiptWaiter{status: 1}, refresher)

			_, err := d.Unlist(ctx, rentableNft, big.NewInt(1))
			require.NoError(t, err)
			require.Equal(t, 1, refresher.listingCalls)
			ethClient.AssertExpectations(t)
		})
	}
}

func Test_ActionDispatcher_Unlist_ExpiresOutOfRange(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	ethClient.On("UserExpires", ctx, rentableNft, big.NewInt(1)).
		Return(new(big.Int).Lsh(big.NewInt(1), 64), nil)

	dispatcher := &mockDispatcher{}
	refresher := &mockRefresher{index: listedIndex(100)}
	d := newTestActionDispatcher(ethClient, dispatcher, &mockReceiptWaiter{status: 1}, refresher)

	_, err := d.Unlist(ctx, rentableNft, big.NewInt(1))
	require.True(t, errorx.Is(err, errorx.BadResponse))
	require.Empty(t, dispatcher.requests)
	ethClient.AssertNotCalled(t, "GetSignedUnlistTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_ActionDispatcher_NotListed(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	dispatcher := &mockDispatcher{}
	refresher := &mockRefresher{index: listedIndex(100)}
	d := newTestActionDispatcher(ethClient, dispatcher, &mockReceiptWaiter{status: 1}, refresher)

	_, err := d.Rent(ctx, rentableNft, big.NewInt(99), SecondsPerDay)
	require.True(t, errorx.Is(err, errorx.NotListed))

	_, err = d.Unlist(ctx, rentableNft, big.NewInt(99))
	require.True(t, errorx.Is(err, errorx.NotListed))

	// Nothing loaded yet.
	refresher.index = nil
	_, err = d.Rent(ctx, rentableNft, big.NewInt(1), SecondsPerDay)
	require.True(t, errorx.Is(err, errorx.NotListed))

	require.Empty(t, dispatcher.requests)
	ethClient.AssertNotCalled(t, "UserExpires", mock.Anything, mock.Anything, mock.Anything)
	require.Equal(t, 0, refresher.listingCalls)
}

func Test_ActionDispatcher_FailedTransaction(t *testing.T) {
	ctx := testutil.MockContext()

	t.Run("reverted", func(t *testing.T) {
		ethClient := &mocks.EthClient{}
		ethClient.On("GetSignedMintTx", ctx, "ipfs://new").Return(newTx(0), nil)

		dispatcher := &mockDispatcher{}
		waiter := &mockReceiptWaiter{status: ethtypes.ReceiptStatusFailed}
		refresher := &mockRefresher{}

		_, err := newTestActionDispatcher(ethClient, dispatcher, waiter, refresher).Mint(ctx, "ipfs://new")
		require.True(t, errorx.Is(err, errorx.TxFailed))
		require.Len(t, dispatcher.requests, 1)
		require.Equal(t, 0, refresher.ownedCalls)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		tx := newTx(200)
		ethClient := &mocks.EthClient{}
		ethClient.On("GetSignedRentTx", ctx, rentableNft, big.NewInt(1), mock.Anything, mock.Anything).Return(tx, nil)

		dispatcher := &mockDispatcher{result: &types.DispatchedTxResult{Success: false, Err: types.ErrNotEnoughBalance}}
		waiter := &mockReceiptWaiter{status: 1}
		refresher := &mockRefresher{index: listedIndex(100)}

		_, err := newTestActionDispatcher(ethClient, dispatcher, waiter, refresher).
			Rent(ctx, rentableNft, big.NewInt(1), SecondsPerDay)
		require.True(t, errorx.Is(err, errorx.TxDispatch))
		require.Equal(t, 0, waiter.calls)
		require.Equal(t, 0, refresher.listingCalls)
	})

	t.Run("no receipt", func(t *testing.T) {
		ethClient := &mocks.EthClient{}
		ethClient.On("GetSignedMintTx", ctx, "ipfs://new").Return(newTx(0), nil)

		waiter := &mockReceiptWaiter{err: errorx.New(errorx.TxTimeout, "timeout")}
		refresher := &mockRefresher{}

		_, err := newTestActionDispatcher(ethClient, &mockDispatcher{}, waiter, refresher).Mint(ctx, "ipfs://new")
		require.True(t, errorx.Is(err, errorx.TxTimeout))
		require.Equal(t, 0, refresher.ownedCalls)
	})

	t.Run("build failure", func(t *testing.T) {
		ethClient := &mocks.EthClient{}
		ethClient.On("GetSignedMintTx", ctx, "ipfs://new").Return(nil, errors.New("gas estimation failed"))

		dispatcher := &mockDispatcher{}
		_, err := newTestActionDispatcher(ethClient, dispatcher, &mockReceiptWaiter{}, &mockRefresher{}).
			Mint(ctx, "ipfs://new")
		require.True(t, errorx.Is(err, errorx.TxDispatch))
		require.Empty(t, dispatcher.requests)
	})
}

func Test_ActionDispatcher_RefreshFailureKeepsResult(t *testing.T) {
	ctx := testutil.MockContext()
	ethClient := &mocks.EthClient{}
	ethClient.On("GetSignedMintTx", ctx, "ipfs://new").Return(newTx(0), nil)

	refresher := &mockRefresher{refreshErr: errors.New("rpc down")}
	result, err := newTestActionDispatcher(ethClient, &mockDispatcher{}, &mockReceiptWaiter{status: 1}, refresher).
		Mint(ctx, "ipfs://new")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, 1, refresher.ownedCalls)
}
