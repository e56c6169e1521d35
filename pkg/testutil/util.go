package testutil

import (
	"context"
	"time"

	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/pkg/logger"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

const (
	MarketplaceAddress = "0x00000000000000000000000000000000000000aa"
	RentableNftAddress = "0x00000000000000000000000000000000000000bb"

	// Hardhat's first default account.
	PrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	Account    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.LogLevel = "silence"
	cfg.Contracts = config.ContractConfigs{
		Marketplace: MarketplaceAddress,
		RentableNft: RentableNftAddress,
	}
	cfg.Wallet = config.WalletConfigs{PrivateKey: PrivateKey}
	cfg.Chain.ReceiptRetry = 2
	cfg.Chain.ReceiptRetryInterval = config.Duration{Duration: time.Millisecond}
	cfg.IPFS.Gateway = "https://gateway.test"

	return cfg
}

func MockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))

	return ctx
}
