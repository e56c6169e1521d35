package marketplace

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	marketplacecontract "github.com/rentable-lab/marketplace/contract/marketplace"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/types"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/testutil"
)

var (
	rentableNft = common.HexToAddress(testutil.RentableNftAddress)
	account     = common.HexToAddress(testutil.Account)
	otherUser   = common.HexToAddress("0x00000000000000000000000000000000000000dd")
)

type mockFetcher struct {
	docs map[string]*entity.Metadata

	mutex sync.Mutex
	calls []string
}

func (f *mockFetcher) Fetch(ctx context.Context, tokenURI string) (*entity.Metadata, error) {
	f.mutex.Lock()
	f.calls = append(f.calls, tokenURI)
	f.mutex.Unlock()

	if m, ok := f.docs[tokenURI]; ok {
		return m, nil
	}

	return nil, errors.New("bad uri")
}

type mockIndexer struct {
	active    bool
	available bool
	tokens    []entity.OwnedToken
	err       error

	getCalls   int
	checkCalls int
}

func (m *mockIndexer) Active() bool {
	return m.active
}

func (m *mockIndexer) CheckAvailability(ctx context.Context) bool {
	m.checkCalls++
	m.active = m.available
	return m.active
}

func (m *mockIndexer) GetOwnedTokens(ctx context.Context, account common.Address) ([]entity.OwnedToken, error) {
	m.getCalls++
	return m.tokens, m.err
}

type mockDispatcher struct {
	result   *types.DispatchedTxResult
	requests []*types.DispatchedTxRequest
}

func (d *mockDispatcher) Dispatch(ctx context.Context, request *types.DispatchedTxRequest) *types.DispatchedTxResult {
	d.requests = append(d.requests, request)
	if d.result != nil {
		return d.result
	}

	return types.NewDispatchTxSuccess(request)
}

type mockReceiptWaiter struct {
	status uint64
	err    error
	calls  int
}

func (w *mockReceiptWaiter) WaitReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	w.calls++
	if w.err != nil {
		return nil, w.err
	}

	return &ethtypes.Receipt{Status: w.status, TxHash: txHash, BlockNumber: big.NewInt(1)}, nil
}

type mockRefresher struct {
	index        entity.ListingIndex
	listingCalls int
	ownedCalls   int
	refreshErr   error
}

func (r *mockRefresher) Index() entity.ListingIndex {
	return r.index
}

func (r *mockRefresher) RefreshListings(ctx context.Context) error {
	r.listingCalls++
	return r.refreshErr
}

func (r *mockRefresher) RefreshOwnedTokens(ctx context.Context) error {
	r.ownedCalls++
	return r.refreshErr
}

func newRawListing(tokenID int64, owner, user common.Address, price, start, end, expires int64) marketplacecontract.MarketplaceListing {
	return marketplacecontract.MarketplaceListing{
		Owner:         owner,
		User:          user,
		NftContract:   rentableNft,
		TokenId:       big.NewInt(tokenID),
		PricePerDay:   big.NewInt(price),
		StartDateUNIX: big.NewInt(start),
		EndDateUNIX:   big.NewInt(end),
		Expires:       big.NewInt(expires),
	}
}

func newTx(value int64) *ethtypes.Transaction {
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    1,
		Gas:      21000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(value),
	})
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
