package mocks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/contract/marketplace"
	"github.com/stretchr/testify/mock"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type EthClient struct {
	mock.Mock
}

func (c *EthClient) Start(arg1 context.Context) {
}

func (c *EthClient) BlockNumber(arg1 context.Context) (uint64, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *EthClient) TransactionReceipt(arg1 context.Context, arg2 common.Hash) (*ethtypes.Receipt, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Receipt), args.Error(1)
}

func (c *EthClient) SuggestGasPrice(arg1 context.Context) (*big.Int, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (c *EthClient) PendingNonceAt(arg1 context.Context, arg2 common.Address) (uint64, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *EthClient) SendTransaction(arg1 context.Context, arg2 *ethtypes.Transaction) error {
	args := c.Called(arg1, arg2)
	return args.Error(0)
}

func (c *EthClient) BalanceAt(arg1 context.Context, arg2 common.Address, arg3 *big.Int) (*big.Int, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (c *EthClient) GetAllListings(arg1 context.Context) ([]marketplace.MarketplaceListing, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.MarketplaceListing), args.Error(1)
}

func (c *EthClient) GetListingFee(arg1 context.Context) (*big.Int, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (c *EthClient) TokenURI(arg1 context.Context, arg2 common.Address, arg3 *big.Int) (string, error) {
	args := c.Called(arg1, arg2, arg3)
	return args.String(0), args.Error(1)
}

func (c *EthClient) UserExpires(arg1 context.Context, arg2 common.Address, arg3 *big.Int) (*big.Int, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (c *EthClient) MintedTokenIDs(arg1 context.Context, arg2 common.Address) ([]*big.Int, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*big.Int), args.Error(1)
}

func (c *EthClient) GetSignedMintTx(arg1 context.Context, arg2 string) (*ethtypes.Transaction, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Error(1)
}

func (c *EthClient) GetSignedListTx(
	arg1 context.Context, arg2 common.Address, arg3, arg4, arg5, arg6, arg7 *big.Int,
) (*ethtypes.Transaction, error) {
	args := c.Called(arg1, arg2, arg3, arg4, arg5, arg6, arg7)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Error(1)
}

func (c *EthClient) GetSignedUnlistTx(
	arg1 context.Context, arg2 common.Address, arg3, arg4 *big.Int,
) (*ethtypes.Transaction, error) {
	args := c.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Error(1)
}

func (c *EthClient) GetSignedRentTx(
	arg1 context.Context, arg2 common.Address, arg3 *big.Int, arg4 uint64, arg5 *big.Int,
) (*ethtypes.Transaction, error) {
	args := c.Called(arg1, arg2, arg3, arg4, arg5)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Error(1)
}
