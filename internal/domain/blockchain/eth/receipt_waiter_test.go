package eth

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/mocks"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTxHash = common.HexToHash("0x1234")

func newTestReceiptWaiter(client EthClient) *ReceiptWaiter {
	return NewReceiptWaiter(client, config.ChainConfigs{
		Name:                 "ganache",
		ReceiptRetry:         2,
		ReceiptRetryInterval: config.Duration{Duration: time.Millisecond},
	})
}

func Test_NewReceiptWaiter_Defaults(t *testing.T) {
	w := NewReceiptWaiter(&mocks.EthClient{}, config.ChainConfigs{Name: "ganache"})
	require.Equal(t, DefaultMaxReceiptRetry, w.maxRetry)
	require.Equal(t, 5*time.Second, w.retryTime)
}

func Test_ReceiptWaiter_WaitReceipt(t *testing.T) {
	ctx := testutil.MockContext()
	receipt := &ethtypes.Receipt{
		Status:      ethtypes.ReceiptStatusSuccessful,
		TxHash:      testTxHash,
		BlockNumber: big.NewInt(10),
	}

	client := &mocks.EthClient{}
	client.On("TransactionReceipt", mock.Anything, testTxHash).Return(nil, ethereum.NotFound).Once()
	client.On("TransactionReceipt", mock.Anything, testTxHash).Return(receipt, nil).Once()

	got, err := newTestReceiptWaiter(client).WaitReceipt(ctx, testTxHash)
	require.NoError(t, err)
	require.Equal(t, receipt, got)
	client.AssertNumberOfCalls(t, "TransactionReceipt", 2)
}

func Test_ReceiptWaiter_WaitReceipt_Timeout(t *testing.T) {
	ctx := testutil.MockContext()

	client := &mocks.EthClient{}
	client.On("TransactionReceipt", mock.Anything, testTxHash).Return(nil, errors.New("not found"))

	_, err := newTestReceiptWaiter(client).WaitReceipt(ctx, testTxHash)
	require.True(t, errorx.Is(err, errorx.TxTimeout))

	// The first attempt plus two retries.
	client.AssertNumberOfCalls(t, "TransactionReceipt", 3)
}
