package eth

import (
	"context"
	"time"

	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

const (
	MinWaitTime = 500 * time.Millisecond
)

// HeadWatcher polls the chain height and reports every new head. The wait between two polls
// grows while the height does not move and shrinks again when new blocks are found.
type HeadWatcher struct {
	chain      string
	client     EthClient
	blockTime  time.Duration
	adjustTime time.Duration
	minWait    time.Duration
	maxWait    time.Duration

	height uint64
}

func NewHeadWatcher(client EthClient, cfg config.ChainConfigs) *HeadWatcher {
	blockTime := cfg.BlockTime.Duration
	if blockTime <= 0 {
		blockTime = 2 * time.Second
	}

	adjustTime := cfg.AdjustTime.Duration
	if adjustTime <= 0 {
		adjustTime = blockTime / 4
	}

	minWait := MinWaitTime
	if minWait > blockTime {
		minWait = blockTime
	}

	return &HeadWatcher{
		chain:      cfg.Name,
		client:     client,
		blockTime:  blockTime,
		adjustTime: adjustTime,
		minWait:    minWait,
		maxWait:    10 * blockTime,
	}
}

// Run sends the height of every new head to headCh until ctx is done. Skipped heights are not
// reported one by one, only the latest one.
func (w *HeadWatcher) Run(ctx context.Context, headCh chan<- uint64) {
	wait := w.blockTime
	for {
		number, err := w.getBlockNumber(ctx)
		switch {
		case err != nil:
			xcontext.Logger(ctx).Errorf("Cannot get latest block number for chain %s: %v", w.chain, err)
			wait += w.adjustTime

		case number <= w.height:
			wait += w.adjustTime

		default:
			xcontext.Logger(ctx).Debugf("%s Height = %d", w.chain, number)
			w.height = number

			select {
			case <-ctx.Done():
				return
			case headCh <- number:
			}

			wait -= w.adjustTime / 4
		}

		if wait < w.minWait {
			wait = w.minWait
		}

		if wait > w.maxWait {
			wait = w.maxWait
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (w *HeadWatcher) getBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	return w.client.BlockNumber(ctx)
}
