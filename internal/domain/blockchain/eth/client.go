package eth

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/contract/marketplace"
	"github.com/rentable-lab/marketplace/contract/rentablenft"
	"github.com/rentable-lab/marketplace/pkg/ethutil"
	"github.com/rentable-lab/marketplace/pkg/numberutil"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"

	"github.com/ethereum/go-ethereum/common"
)

const (
	RpcTimeOut      = time.Second * 5
	MaxShuffleTimes = 20
)

// A wrapper around eth.client so that we can mock in reconciler tests.
type EthClient interface {
	Start(ctx context.Context)

	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	BalanceAt(ctx context.Context, from common.Address, block *big.Int) (*big.Int, error)

	GetAllListings(ctx context.Context) ([]marketplace.MarketplaceListing, error)
	GetListingFee(ctx context.Context) (*big.Int, error)
	TokenURI(ctx context.Context, nftContract common.Address, tokenID *big.Int) (string, error)
	UserExpires(ctx context.Context, nftContract common.Address, tokenID *big.Int) (*big.Int, error)
	MintedTokenIDs(ctx context.Context, to common.Address) ([]*big.Int, error)

	GetSignedMintTx(ctx context.Context, tokenURI string) (*ethtypes.Transaction, error)
	GetSignedListTx(ctx context.Context, nftContract common.Address, tokenID, pricePerDay, start, end, fee *big.Int) (*ethtypes.Transaction, error)
	GetSignedUnlistTx(ctx context.Context, nftContract common.Address, tokenID, refund *big.Int) (*ethtypes.Transaction, error)
	GetSignedRentTx(ctx context.Context, nftContract common.Address, tokenID *big.Int, expires uint64, fee *big.Int) (*ethtypes.Transaction, error)
}

// Default implementation of ETH client. Since eth RPC often unstable, this client maintains a list
// of different RPC to connect to and uses the ones that is stable to dispatch a transaction.
type defaultEthClient struct {
	chain           string
	chainID         *big.Int
	useExternalRpcs bool
	configuredRpcs  []string

	marketplaceAddress common.Address
	rentableNftAddress common.Address

	clients   []*ethclient.Client
	healthies []bool
	rpcs      []string

	mutex sync.RWMutex
}

func NewEthClients(chain config.ChainConfigs, contracts config.ContractConfigs) EthClient {
	c := &defaultEthClient{
		chain:              chain.Name,
		chainID:            big.NewInt(chain.ID),
		useExternalRpcs:    chain.UseExternalRpcs,
		configuredRpcs:     chain.Rpcs,
		marketplaceAddress: common.HexToAddress(contracts.Marketplace),
		rentableNftAddress: common.HexToAddress(contracts.RentableNft),
		mutex:              sync.RWMutex{},
	}

	return c
}

// Start connects to the healthy rpcs and keeps refreshing the connections until ctx is done.
func (c *defaultEthClient) Start(ctx context.Context) {
	c.updateRpcs(ctx)
	go c.loopCheck(ctx)
}

func (c *defaultEthClient) loopCheck(ctx context.Context) {
	ticker := time.NewTicker(xcontext.Configs(ctx).Chain.RefreshConnectionFrequency.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.closeAll()
			return
		case <-ticker.C:
			c.updateRpcs(ctx)
		}
	}
}

func (c *defaultEthClient) closeAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, client := range c.clients {
		client.Close()
	}
	c.rpcs, c.clients, c.healthies = nil, nil, nil
}

func (c *defaultEthClient) updateRpcs(ctx context.Context) {
	rpcs := append([]string{}, c.configuredRpcs...)
	if len(rpcs) == 0 {
		xcontext.Logger(ctx).Errorf("No rpc configured for chain %s", c.chain)
	}

	if c.useExternalRpcs {
		// Get external rpcs.
		externals, err := c.GetExtraRpcs(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Failed to get external rpc info: %v", err)
		} else {
			rpcs = append(rpcs, externals...)
		}
	}

	c.mutex.RLock()
	oldClients := c.clients
	c.mutex.RUnlock()

	rpcs, clients, healthies := c.getRpcsHealthiness(ctx, rpcs)

	// Close all the old clients
	c.mutex.Lock()
	for _, client := range oldClients {
		client.Close()
	}

	c.rpcs, c.clients, c.healthies = rpcs, clients, healthies
	c.mutex.Unlock()
}

func (c *defaultEthClient) getRpcsHealthiness(ctx context.Context, allRpcs []string) ([]string, []*ethclient.Client, []bool) {
	clients := make([]*ethclient.Client, 0)
	rpcs := make([]string, 0)
	healthies := make([]bool, 0)

	type healthyNode struct {
		client *ethclient.Client
		rpc    string
		height int64
	}

	nodes := make([]*healthyNode, 0)
	for _, rpc := range allRpcs {
		client, err := ethclient.DialContext(ctx, rpc)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s: %v", rpc, err)
			continue
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
		header, err := client.HeaderByNumber(timeoutCtx, nil)
		cancel()

		if err != nil || header.Number == nil {
			xcontext.Logger(ctx).Warnf("Rpc %s is unhealthy: %v", rpc, err)
			client.Close()
			continue
		}

		nodes = append(nodes, &healthyNode{
			client: client,
			rpc:    rpc,
			height: header.Number.Int64(),
		})
	}

	if len(nodes) == 0 {
		return rpcs, clients, healthies
	}

	// Sorts all nodes by height
	slices.SortStableFunc(nodes, func(a, b *healthyNode) bool {
		return a.height > b.height
	})

	// Only select some nodes within a certain height from the median
	height := nodes[len(nodes)/2].height
	for _, node := range nodes {
		if numberutil.AbsInt64(node.height-height) < 5 {
			rpcs = append(rpcs, node.rpc)
			clients = append(clients, node.client)
			healthies = append(healthies, true)
		} else {
			node.client.Close()
		}
	}

	xcontext.Logger(ctx).Infof("Healthy rpcs for chain %s: %s", c.chain, rpcs)

	return rpcs, clients, healthies
}

func (c *defaultEthClient) processData(text string) ([]string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	var data string
	for {
		tokenType := tokenizer.Next()
		stop := false
		switch tokenType {
		case html.ErrorToken:
			stop = true

		case html.TextToken:
			text := tokenizer.Token().Data
			var js json.RawMessage
			if json.Unmarshal([]byte(text), &js) == nil {
				data = text
			}
		}

		if stop {
			break
		}
	}

	// Process the data
	type result struct {
		Props struct {
			PageProps struct {
				Chain struct {
					Name string `json:"name"`
					RPC  []struct {
						Url string `json:"url"`
					} `json:"rpc"`
				} `json:"chain"`
			} `json:"pageProps"`
		} `json:"props"`
	}

	r := &result{}
	if err := json.Unmarshal([]byte(data), r); err != nil {
		return nil, err
	}

	ret := make([]string, 0)
	for _, rpc := range r.Props.PageProps.Chain.RPC {
		// Websocket endpoints are not used by this client.
		if strings.HasPrefix(rpc.Url, "http") {
			ret = append(ret, rpc.Url)
		}
	}

	return ret, nil
}

func (c *defaultEthClient) GetExtraRpcs(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("https://chainlist.org/chain/%d", c.chainID)
	xcontext.Logger(ctx).Infof("Getting extra rpcs status from remote link %s for chain %s",
		url, c.chain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := xcontext.HTTPClient(ctx).Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get chain list data, status code = %d", res.StatusCode)
	}

	bz, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return c.processData(string(bz))
}

func (c *defaultEthClient) shuffle() ([]*ethclient.Client, []bool, []string) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	n := len(c.clients)
	if n == 0 {
		return nil, nil, nil
	}

	clients := make([]*ethclient.Client, n)
	healthy := make([]bool, n)
	rpcs := make([]string, n)

	copy(clients, c.clients)
	copy(healthy, c.healthies)
	copy(rpcs, c.rpcs)

	for i := 0; i < MaxShuffleTimes; i++ {
		x := rand.Intn(n)
		y := rand.Intn(n)

		clients[x], clients[y] = clients[y], clients[x]
		healthy[x], healthy[y] = healthy[y], healthy[x]
		rpcs[x], rpcs[y] = rpcs[y], rpcs[x]
	}

	return clients, healthy, rpcs
}

func (c *defaultEthClient) getHealthyClient(ctx context.Context) (*ethclient.Client, string) {
	c.mutex.RLock()
	if c.clients == nil {
		c.mutex.RUnlock()
		c.updateRpcs(ctx)
	} else {
		c.mutex.RUnlock()
	}

	// Shuffle rpcs so that we will use different healthy rpc
	clients, healthies, rpcs := c.shuffle()
	for i, healthy := range healthies {
		if healthy {
			return clients[i], rpcs[i]
		}
	}

	return nil, ""
}

func (c *defaultEthClient) execute(ctx context.Context, f func(client *ethclient.Client, rpc string) (any, error)) (any, error) {
	client, rpc := c.getHealthyClient(ctx)
	if client == nil {
		return nil, fmt.Errorf("no healthy RPC for chain %s", c.chain)
	}

	ret, err := f(client, rpc)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Rpc %s returned an error: %v", rpc, err)
		return nil, err
	}

	return ret, nil
}

func (c *defaultEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	num, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.BlockNumber(ctx)
	})

	if err != nil {
		return 0, err
	}

	return num.(uint64), nil
}

func (c *defaultEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	receipt, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.TransactionReceipt(ctx, txHash)
	})

	if err != nil {
		return nil, err
	}

	return receipt.(*ethtypes.Receipt), nil
}

func (c *defaultEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	gas, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.SuggestGasPrice(ctx)
	})

	if err != nil {
		return nil, err
	}

	return gas.(*big.Int), nil
}

func (c *defaultEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.PendingNonceAt(ctx, account)
	})

	if err != nil {
		return 0, err
	}

	return nonce.(uint64), nil
}

func (c *defaultEthClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	_, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		err := client.SendTransaction(ctx, tx)
		return 0, err
	})

	return err
}

func (c *defaultEthClient) BalanceAt(ctx context.Context, from common.Address, block *big.Int) (*big.Int, error) {
	balance, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		balance, err := client.BalanceAt(ctx, from, block)
		if err == nil && balance != nil && balance.Sign() == 0 {
			xcontext.Logger(ctx).Warnf("Balance is 0 for using URL %s", rpc)
		}

		return balance, err
	})

	if err != nil {
		return nil, err
	}

	return balance.(*big.Int), nil
}

func (c *defaultEthClient) GetAllListings(ctx context.Context) ([]marketplace.MarketplaceListing, error) {
	listings, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		instance, err := marketplace.NewMarketplace(c.marketplaceAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.GetAllListings(&bind.CallOpts{Context: ctx})
	})

	if err != nil {
		return nil, err
	}

	return listings.([]marketplace.MarketplaceListing), nil
}

func (c *defaultEthClient) GetListingFee(ctx context.Context) (*big.Int, error) {
	fee, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		instance, err := marketplace.NewMarketplace(c.marketplaceAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.GetListingFee(&bind.CallOpts{Context: ctx})
	})

	if err != nil {
		return nil, err
	}

	return fee.(*big.Int), nil
}

func (c *defaultEthClient) TokenURI(ctx context.Context, nftContract common.Address, tokenID *big.Int) (string, error) {
	uri, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		instance, err := rentablenft.NewRentableNft(nftContract, client)
		if err != nil {
			return nil, err
		}

		return instance.TokenURI(&bind.CallOpts{Context: ctx}, tokenID)
	})

	if err != nil {
		return "", err
	}

	return uri.(string), nil
}

func (c *defaultEthClient) UserExpires(ctx context.Context, nftContract common.Address, tokenID *big.Int) (*big.Int, error) {
	expires, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		instance, err := rentablenft.NewRentableNft(nftContract, client)
		if err != nil {
			return nil, err
		}

		return instance.UserExpires(&bind.CallOpts{Context: ctx}, tokenID)
	})

	if err != nil {
		return nil, err
	}

	return expires.(*big.Int), nil
}

// MintedTokenIDs scans Transfer events of the rentable nft contract from genesis and returns the
// ids of tokens minted to the given address. Tokens received by a later transfer are not included.
func (c *defaultEthClient) MintedTokenIDs(ctx context.Context, to common.Address) ([]*big.Int, error) {
	ids, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		instance, err := rentablenft.NewRentableNft(c.rentableNftAddress, client)
		if err != nil {
			return nil, err
		}

		it, err := instance.FilterTransfer(
			&bind.FilterOpts{Start: 0, Context: ctx},
			[]common.Address{{}},
			[]common.Address{to},
			nil,
		)
		if err != nil {
			return nil, err
		}
		defer it.Close()

		ids := make([]*big.Int, 0)
		for it.Next() {
			ids = append(ids, it.Event.TokenId)
		}

		if err := it.Error(); err != nil {
			return nil, err
		}

		return ids, nil
	})

	if err != nil {
		return nil, err
	}

	return ids.([]*big.Int), nil
}

func (c *defaultEthClient) GetSignedMintTx(ctx context.Context, tokenURI string) (*ethtypes.Transaction, error) {
	return c.signTx(ctx, common.Big0, func(client *ethclient.Client, opts *bind.TransactOpts) (*ethtypes.Transaction, error) {
		instance, err := rentablenft.NewRentableNft(c.rentableNftAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.Mint(opts, tokenURI)
	})
}

func (c *defaultEthClient) GetSignedListTx(
	ctx context.Context,
	nftContract common.Address,
	tokenID, pricePerDay, start, end, fee *big.Int,
) (*ethtypes.Transaction, error) {
	return c.signTx(ctx, fee, func(client *ethclient.Client, opts *bind.TransactOpts) (*ethtypes.Transaction, error) {
		instance, err := marketplace.NewMarketplace(c.marketplaceAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.ListNFT(opts, nftContract, tokenID, pricePerDay, start, end)
	})
}

func (c *defaultEthClient) GetSignedUnlistTx(
	ctx context.Context,
	nftContract common.Address,
	tokenID, refund *big.Int,
) (*ethtypes.Transaction, error) {
	return c.signTx(ctx, refund, func(client *ethclient.Client, opts *bind.TransactOpts) (*ethtypes.Transaction, error) {
		instance, err := marketplace.NewMarketplace(c.marketplaceAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.UnlistNFT(opts, nftContract, tokenID)
	})
}

func (c *defaultEthClient) GetSignedRentTx(
	ctx context.Context,
	nftContract common.Address,
	tokenID *big.Int,
	expires uint64,
	fee *big.Int,
) (*ethtypes.Transaction, error) {
	return c.signTx(ctx, fee, func(client *ethclient.Client, opts *bind.TransactOpts) (*ethtypes.Transaction, error) {
		instance, err := marketplace.NewMarketplace(c.marketplaceAddress, client)
		if err != nil {
			return nil, err
		}

		return instance.RentNFT(opts, nftContract, tokenID, expires)
	})
}

func (c *defaultEthClient) signTx(
	ctx context.Context,
	value *big.Int,
	build func(client *ethclient.Client, opts *bind.TransactOpts) (*ethtypes.Transaction, error),
) (*ethtypes.Transaction, error) {
	signedTx, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		wallet := xcontext.Configs(ctx).Wallet
		privateKey, err := ethutil.LoadPrivateKey(wallet.PrivateKey, wallet.Secret, wallet.Nonce)
		if err != nil {
			return nil, err
		}

		tx, err := build(client, c.TransactionOpts(ctx, privateKey, value))
		if err != nil {
			return nil, err
		}

		if tx == nil {
			return nil, errors.New("contract binding returned no transaction")
		}

		return tx, nil
	})
	if err != nil {
		return nil, err
	}

	return signedTx.(*ethtypes.Transaction), nil
}

func (c *defaultEthClient) TransactionOpts(
	ctx context.Context, fromPrivateKey *ecdsa.PrivateKey, value *big.Int,
) *bind.TransactOpts {
	return &bind.TransactOpts{
		From: crypto.PubkeyToAddress(fromPrivateKey.PublicKey),
		Signer: func(a common.Address, t *ethtypes.Transaction) (*ethtypes.Transaction, error) {
			signedTx, err := ethtypes.SignTx(t, ethtypes.LatestSignerForChainID(c.chainID), fromPrivateKey)
			if err != nil {
				return nil, err
			}
			return signedTx, nil
		},
		Value:   value,
		Context: ctx,
		NoSend:  true,
	}
}
