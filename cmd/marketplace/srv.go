package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/internal/domain/blockchain/eth"
	"github.com/rentable-lab/marketplace/internal/domain/indexer"
	"github.com/rentable-lab/marketplace/internal/domain/marketplace"
	"github.com/rentable-lab/marketplace/internal/domain/metadata"
	"github.com/rentable-lab/marketplace/pkg/api"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/ethutil"
	"github.com/rentable-lab/marketplace/pkg/logger"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"github.com/rentable-lab/marketplace/pkg/xredis"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App
	ctx context.Context

	// account signs the transactions, viewAccount is the one whose state is shown.
	account     common.Address
	viewAccount common.Address

	ethClient      eth.EthClient
	metadataCache  metadata.Cache
	fetcher        metadata.Fetcher
	indexerService indexer.Service
	ownership      *marketplace.OwnershipReconciler
	provider       *marketplace.Provider
}

// prepare loads every dependency of the provider. The returned cancel stops the background rpc
// health checks.
func (s *srv) prepare(c *cli.Context) (context.CancelFunc, error) {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	s.ctx = ctx

	if err := s.loadConfig(c); err != nil {
		cancel()
		return nil, err
	}

	s.loadLogger()

	if err := s.loadAccount(c); err != nil {
		cancel()
		return nil, err
	}

	s.loadEthClient()
	s.loadMetadata()
	s.loadIndexer()
	s.loadProvider()

	return cancel, nil
}

func (s *srv) loadConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if c.IsSet("rpc") {
		cfg.Chain.Rpcs = c.StringSlice("rpc")
	}

	if c.IsSet("private-key") {
		cfg.Wallet.PrivateKey = c.String("private-key")
	}

	if c.IsSet("marketplace") {
		cfg.Contracts.Marketplace = c.String("marketplace")
	}

	if c.IsSet("rentable-nft") {
		cfg.Contracts.RentableNft = c.String("rentable-nft")
	}

	if c.IsSet("redis") {
		cfg.Redis.Addr = c.String("redis")
	}

	if c.IsSet("indexer-key") {
		cfg.Indexer.Enabled = true
		cfg.Indexer.APIKey = c.String("indexer-key")
	}

	if c.IsSet("indexer-secret") {
		cfg.Indexer.APISecret = c.String("indexer-secret")
	}

	if c.IsSet("pinata-token") {
		cfg.Pinata.Token = c.String("pinata-token")
	}

	if c.IsSet("interval") {
		cfg.Marketplace.WatchInterval = config.Duration{Duration: c.Duration("interval")}
	}

	if err := cfg.Validate(); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid config: %v", err)
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
}

func (s *srv) loadAccount(c *cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	account, err := ethutil.LoadAddress(cfg.Wallet.PrivateKey, cfg.Wallet.Secret, cfg.Wallet.Nonce)
	if err != nil {
		return err
	}

	s.account = account
	s.viewAccount = s.account
	if c.IsSet("account") {
		hex := c.String("account")
		if !common.IsHexAddress(hex) {
			return errorx.New(errorx.BadRequest, "Invalid account %s", hex)
		}

		s.viewAccount = common.HexToAddress(hex)
	}

	xcontext.Logger(s.ctx).Infof("Using account %s", s.account.Hex())
	return nil
}

func (s *srv) loadEthClient() {
	cfg := xcontext.Configs(s.ctx)
	s.ethClient = eth.NewEthClients(cfg.Chain, cfg.Contracts)
	s.ethClient.Start(s.ctx)
}

// loadMetadata uses redis as the metadata cache when it is configured and reachable, otherwise
// an in-process cache.
func (s *srv) loadMetadata() {
	cfg := xcontext.Configs(s.ctx)

	s.metadataCache = metadata.NewMemoryCache()
	if cfg.Redis.Addr != "" {
		redisClient, err := xredis.NewClient(s.ctx)
		if err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot connect to redis %s, use memory cache: %v", cfg.Redis.Addr, err)
		} else {
			s.metadataCache = metadata.NewRedisCache(redisClient, cfg.Redis.MetadataTTL.Duration)
		}
	}

	s.fetcher = metadata.NewFetcher(cfg.IPFS.Gateway, api.NewGenerator(), s.metadataCache)
}

func (s *srv) loadIndexer() {
	cfg := xcontext.Configs(s.ctx)
	s.indexerService = indexer.NewInfuraService(
		cfg.Indexer,
		cfg.Chain.ID,
		common.HexToAddress(cfg.Contracts.RentableNft),
		api.NewGenerator(cfg.Indexer.Endpoint),
	)
	s.indexerService.CheckAvailability(s.ctx)
}

func (s *srv) loadProvider() {
	cfg := xcontext.Configs(s.ctx)

	actions := marketplace.NewActionDispatcher(
		s.ctx,
		s.account,
		s.ethClient,
		eth.NewEthDispatcher(s.ethClient),
		eth.NewReceiptWaiter(s.ethClient, cfg.Chain),
	)

	s.ownership = marketplace.NewOwnershipReconciler(
		s.ethClient,
		s.indexerService,
		s.fetcher,
		common.HexToAddress(cfg.Contracts.RentableNft),
	)

	s.provider = marketplace.NewProvider(
		s.viewAccount,
		marketplace.NewListingReconciler(s.ethClient, s.fetcher),
		s.ownership,
		s.indexerService,
		actions,
	)
}
