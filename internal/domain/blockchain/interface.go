package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/types"
)

// This is an interface for all dispatcher that sends transactions to different blockchain.
type Dispatcher interface {
	Dispatch(ctx context.Context, request *types.DispatchedTxRequest) *types.DispatchedTxResult
}

// ReceiptWaiter blocks until the transaction is included or the retry budget runs out.
type ReceiptWaiter interface {
	WaitReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}
