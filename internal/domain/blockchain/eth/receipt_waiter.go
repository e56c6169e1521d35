package eth

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

const (
	DefaultMaxReceiptRetry = 5
)

type ReceiptWaiter struct {
	chain     string
	client    EthClient
	maxRetry  int
	retryTime time.Duration
}

func NewReceiptWaiter(client EthClient, cfg config.ChainConfigs) *ReceiptWaiter {
	maxRetry := cfg.ReceiptRetry
	if maxRetry <= 0 {
		maxRetry = DefaultMaxReceiptRetry
	}

	retryTime := cfg.ReceiptRetryInterval.Duration
	if retryTime <= 0 {
		retryTime = time.Second * 5
	}

	return &ReceiptWaiter{
		chain:     cfg.Name,
		client:    client,
		maxRetry:  maxRetry,
		retryTime: retryTime,
	}
}

// WaitReceipt polls the chain until the receipt of txHash is available. A pending transaction and
// a flaky rpc look the same from here, so both are retried.
func (w *ReceiptWaiter) WaitReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	for retry := 0; ; retry++ {
		timeoutCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
		receipt, err := w.client.TransactionReceipt(timeoutCtx, txHash)
		cancel()

		if err == nil && receipt != nil {
			return receipt, nil
		}

		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot get receipt for tx hash %s: %v", txHash.String(), err)
		}

		if retry >= w.maxRetry {
			xcontext.Logger(ctx).Errorf("Cannot get receipt for tx with hash %s on chain %s",
				txHash.String(), w.chain)
			return nil, errorx.New(errorx.TxTimeout, "no receipt for tx %s after %d retries",
				txHash.String(), retry)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.retryTime):
		}
	}
}
