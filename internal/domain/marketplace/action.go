package marketplace

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	internalcommon "github.com/rentable-lab/marketplace/internal/common"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/eth"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/types"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/numberutil"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

// Refresher is the state the dispatcher reads listing data from and refreshes after a
// successful transaction.
type Refresher interface {
	Index() entity.ListingIndex
	RefreshListings(ctx context.Context) error
	RefreshOwnedTokens(ctx context.Context) error
}

type ActionResult struct {
	ID     string
	TxHash common.Hash
	Value  *big.Int
}

type ActionDispatcher struct {
	chain      string
	from       common.Address
	listBuffer time.Duration

	ethClient     eth.EthClient
	dispatcher    blockchain.Dispatcher
	receiptWaiter blockchain.ReceiptWaiter
	refresher     Refresher

	now func() time.Time
}

func NewActionDispatcher(
	ctx context.Context,
	from common.Address,
	ethClient eth.EthClient,
	dispatcher blockchain.Dispatcher,
	receiptWaiter blockchain.ReceiptWaiter,
) *ActionDispatcher {
	cfg := xcontext.Configs(ctx)
	return &ActionDispatcher{
		chain:         cfg.Chain.Name,
		from:          from,
		listBuffer:    cfg.Marketplace.ListBuffer.Duration,
		ethClient:     ethClient,
		dispatcher:    dispatcher,
		receiptWaiter: receiptWaiter,
		now:           time.Now,
	}
}

// SetRefresher must be called before any action is dispatched.
func (d *ActionDispatcher) SetRefresher(refresher Refresher) {
	d.refresher = refresher
}

func (d *ActionDispatcher) Mint(ctx context.Context, tokenURI string) (*ActionResult, error) {
	if tokenURI == "" {
		return nil, errorx.New(errorx.BadRequest, "token uri is required")
	}

	tx, err := d.ethClient.GetSignedMintTx(ctx, tokenURI)
	if err != nil {
		return nil, d.buildFailed(ctx, "mint", err)
	}

	result, err := d.submit(ctx, "mint", tx)
	if err != nil {
		return nil, err
	}

	d.refresh(ctx, "mint", d.refresher.RefreshOwnedTokens)
	return result, nil
}

func (d *ActionDispatcher) List(
	ctx context.Context,
	nftContract common.Address,
	tokenID *big.Int,
	pricePerDay *big.Int,
	duration int64,
) (*ActionResult, error) {
	if pricePerDay == nil || pricePerDay.Sign() < 0 {
		return nil, errorx.New(errorx.BadRequest, "price per day must not be negative")
	}

	if duration <= 0 {
		return nil, errorx.New(errorx.BadRequest, "duration must be positive")
	}

	fee, err := d.ethClient.GetListingFee(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get listing fee: %v", err)
		return nil, err
	}

	start, end := ListingWindow(d.now(), d.listBuffer, duration)
	tx, err := d.ethClient.GetSignedListTx(
		ctx, nftContract, tokenID, pricePerDay, big.NewInt(start), big.NewInt(end), fee)
	if err != nil {
		return nil, d.buildFailed(ctx, "list", err)
	}

	result, err := d.submit(ctx, "list", tx)
	if err != nil {
		return nil, err
	}

	d.refresh(ctx, "list", d.refresher.RefreshListings)
	return result, nil
}

func (d *ActionDispatcher) Unlist(
	ctx context.Context,
	nftContract common.Address,
	tokenID *big.Int,
) (*ActionResult, error) {
	data, ok := d.refresher.Index().Lookup(nftContract, tokenID)
	if !ok {
		return nil, notListed(nftContract, tokenID)
	}

	expires, err := d.ethClient.UserExpires(ctx, nftContract, tokenID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user expires of %s/%s: %v", nftContract.Hex(), tokenID, err)
		return nil, err
	}

	expiresUnix, ok := numberutil.ToInt64(expires)
	if !ok {
		return nil, errorx.New(errorx.BadResponse, "user expires of %s/%s is out of range: %v",
			nftContract.Hex(), tokenID, expires)
	}

	refund := UnlistRefund(expiresUnix, d.now(), data.PricePerDay)
	tx, err := d.ethClient.GetSignedUnlistTx(ctx, nftContract, tokenID, refund)
	if err != nil {
		return nil, d.buildFailed(ctx, "unlist", err)
	}

	result, err := d.submit(ctx, "unlist", tx)
	if err != nil {
		return nil, err
	}

	d.refresh(ctx, "unlist", d.refresher.RefreshListings)
	return result, nil
}

func (d *ActionDispatcher) Rent(
	ctx context.Context,
	nftContract common.Address,
	tokenID *big.Int,
	duration int64,
) (*ActionResult, error) {
	if duration <= 0 {
		return nil, errorx.New(errorx.BadRequest, "duration must be positive")
	}

	data, ok := d.refresher.Index().Lookup(nftContract, tokenID)
	if !ok {
		return nil, notListed(nftContract, tokenID)
	}

	expires := numberutil.CeilUnix(d.now().UnixMilli()) + duration
	fee := RentalFee(duration, data.PricePerDay)
	tx, err := d.ethClient.GetSignedRentTx(ctx, nftContract, tokenID, uint64(expires), fee)
	if err != nil {
		return nil, d.buildFailed(ctx, "rent", err)
	}

	result, err := d.submit(ctx, "rent", tx)
	if err != nil {
		return nil, err
	}

	d.refresh(ctx, "rent", d.refresher.RefreshListings)
	return result, nil
}

// submit sends a signed transaction and waits for its receipt. Failed transactions are never
// retried.
func (d *ActionDispatcher) submit(ctx context.Context, method string, tx *ethtypes.Transaction) (*ActionResult, error) {
	result := &ActionResult{ID: uuid.NewString(), TxHash: tx.Hash(), Value: tx.Value()}
	xcontext.Logger(ctx).Infof("Action %s (%s) submits tx %s with value %s",
		result.ID, method, tx.Hash().Hex(), tx.Value())

	dispatchResult := d.dispatcher.Dispatch(ctx, &types.DispatchedTxRequest{
		Chain: d.chain,
		From:  d.from,
		Tx:    tx,
	})
	if !dispatchResult.Success {
		d.countFailure(method)
		return nil, errorx.New(errorx.TxDispatch, "cannot dispatch %s tx %s: %s",
			method, tx.Hash().Hex(), dispatchResult.Err)
	}

	receipt, err := d.receiptWaiter.WaitReceipt(ctx, tx.Hash())
	if err != nil {
		d.countFailure(method)
		return nil, err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		d.countFailure(method)
		xcontext.Logger(ctx).Errorf("Action %s (%s) tx %s reverted in block %s",
			result.ID, method, tx.Hash().Hex(), receipt.BlockNumber)
		return nil, errorx.New(errorx.TxFailed, "%s tx %s failed", method, tx.Hash().Hex())
	}

	xcontext.Logger(ctx).Infof("Action %s (%s) succeeded in tx %s", result.ID, method, tx.Hash().Hex())
	return result, nil
}

// refresh runs after a successful transaction. Its failure is logged only, the previous state
// stays visible until the next refresh.
func (d *ActionDispatcher) refresh(ctx context.Context, method string, f func(context.Context) error) {
	if err := f(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot refresh state after %s: %v", method, err)
	}
}

func (d *ActionDispatcher) buildFailed(ctx context.Context, method string, err error) error {
	d.countFailure(method)
	xcontext.Logger(ctx).Errorf("Cannot build %s tx: %v", method, err)
	return errorx.New(errorx.TxDispatch, "cannot build %s tx: %v", method, err)
}

func (d *ActionDispatcher) countFailure(method string) {
	internalcommon.PromCounters[internalcommon.BlockchainTransactionFailure].WithLabelValues(method).Inc()
}

func notListed(nftContract common.Address, tokenID *big.Int) error {
	return errorx.New(errorx.NotListed, "token %s/%s is not listed", nftContract.Hex(), tokenID)
}
