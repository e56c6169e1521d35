package eth

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/types"
	"github.com/rentable-lab/marketplace/mocks"
	"github.com/rentable-lab/marketplace/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatchRequest(value int64) *types.DispatchedTxRequest {
	return &types.DispatchedTxRequest{
		Chain: "ganache",
		From:  common.HexToAddress(testutil.Account),
		Tx: ethtypes.NewTx(&ethtypes.LegacyTx{
			Nonce:    1,
			Gas:      21000,
			GasPrice: big.NewInt(1),
			Value:    big.NewInt(value),
		}),
	}
}

func Test_EthDispatcher_Dispatch(t *testing.T) {
	testCases := []struct {
		name    string
		balance *big.Int
		sendErr error
		want    types.DispatchError
		sent    bool
	}{
		{
			name:    "happy case",
			balance: big.NewInt(21100),
			want:    types.ErrNil,
			sent:    true,
		},
		{
			name:    "not enough balance",
			balance: big.NewInt(21099),
			want:    types.ErrNotEnoughBalance,
		},
		{
			name:    "already known",
			balance: big.NewInt(1_000_000),
			sendErr: errors.New("already known"),
			want:    types.ErrNil,
			sent:    true,
		},
		{
			name:    "rpc rejects tx",
			balance: big.NewInt(1_000_000),
			sendErr: errors.New("nonce too low"),
			want:    types.ErrSubmitTx,
			sent:    true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			request := newDispatchRequest(100)

			client := &mocks.EthClient{}
			client.On("BalanceAt", mock.Anything, request.From, mock.Anything).Return(tt.balance, nil)
			client.On("SendTransaction", mock.Anything, request.Tx).Return(tt.sendErr)

			result := NewEthDispatcher(client).Dispatch(ctx, request)
			require.Equal(t, tt.want, result.Err)
			require.Equal(t, tt.want == types.ErrNil, result.Success)
			require.Equal(t, request.Tx.Hash(), result.TxHash)

			if tt.sent {
				client.AssertCalled(t, "SendTransaction", mock.Anything, request.Tx)
			} else {
				client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
			}
		})
	}
}

func Test_EthDispatcher_Dispatch_BalanceFailure(t *testing.T) {
	ctx := testutil.MockContext()
	request := newDispatchRequest(0)

	client := &mocks.EthClient{}
	client.On("BalanceAt", mock.Anything, request.From, mock.Anything).Return(nil, errors.New("rpc down"))

	result := NewEthDispatcher(client).Dispatch(ctx, request)
	require.False(t, result.Success)
	require.Equal(t, types.ErrGeneric, result.Err)
}
