package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Chain            ChainConfigs       `toml:"chain"`
	Contracts        ContractConfigs    `toml:"contracts"`
	Wallet           WalletConfigs      `toml:"wallet"`
	IPFS             IPFSConfigs        `toml:"ipfs"`
	Indexer          IndexerConfigs     `toml:"indexer"`
	Pinata           PinataConfigs      `toml:"pinata"`
	Redis            RedisConfigs       `toml:"redis"`
	Marketplace      MarketplaceConfigs `toml:"marketplace"`
	PrometheusServer ServerConfigs      `toml:"prometheus_server"`
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type ChainConfigs struct {
	Name string   `toml:"name"`
	ID   int64    `toml:"id"`
	Rpcs []string `toml:"rpcs"`

	// Also pull public RPCs of this chain from chainlist.org.
	UseExternalRpcs bool `toml:"use_external_rpcs"`

	RefreshConnectionFrequency Duration `toml:"refresh_connection_frequency"`
	ReceiptRetry               int      `toml:"receipt_retry"`
	ReceiptRetryInterval       Duration `toml:"receipt_retry_interval"`

	// Expected time between two blocks, tuned at runtime by AdjustTime steps.
	BlockTime  Duration `toml:"block_time"`
	AdjustTime Duration `toml:"adjust_time"`
}

type ContractConfigs struct {
	Marketplace string `toml:"marketplace"`
	RentableNft string `toml:"rentable_nft"`
}

type WalletConfigs struct {
	PrivateKey string `toml:"private_key"`

	// Used to derive the key when PrivateKey is empty.
	Secret string `toml:"secret"`
	Nonce  string `toml:"nonce"`
}

type IPFSConfigs struct {
	Gateway string `toml:"gateway"`
}

type IndexerConfigs struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

type PinataConfigs struct {
	Token string `toml:"token"`
}

type RedisConfigs struct {
	Addr        string   `toml:"addr"`
	MetadataTTL Duration `toml:"metadata_ttl"`
}

type MarketplaceConfigs struct {
	ListBuffer    Duration `toml:"list_buffer"`
	WatchInterval Duration `toml:"watch_interval"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Chain: ChainConfigs{
			Name:                       "ganache",
			ID:                         1337,
			Rpcs:                       []string{"http://127.0.0.1:8545"},
			RefreshConnectionFrequency: Duration{5 * time.Minute},
			ReceiptRetry:               30,
			ReceiptRetryInterval:       Duration{2 * time.Second},
		},
		IPFS: IPFSConfigs{
			Gateway: "https://ipfs.io",
		},
		Indexer: IndexerConfigs{
			Endpoint: "https://nft.api.infura.io",
		},
		Redis: RedisConfigs{
			MetadataTTL: Duration{24 * time.Hour},
		},
		Marketplace: MarketplaceConfigs{
			ListBuffer:    Duration{30 * time.Second},
			WatchInterval: Duration{15 * time.Second},
		},
	}
}

// Duration accepts strings such as "30s" or "5m" in toml files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

// Validate rejects values the marketplace cannot run with.
func (c Configs) Validate() error {
	if c.Marketplace.WatchInterval.Duration <= 0 {
		return fmt.Errorf("marketplace.watch_interval must be positive, got %s", c.Marketplace.WatchInterval)
	}

	if c.Marketplace.ListBuffer.Duration < 0 {
		return fmt.Errorf("marketplace.list_buffer must not be negative, got %s", c.Marketplace.ListBuffer)
	}

	if c.Chain.RefreshConnectionFrequency.Duration <= 0 {
		return fmt.Errorf("chain.refresh_connection_frequency must be positive, got %s",
			c.Chain.RefreshConnectionFrequency)
	}

	return nil
}

// Load reads the toml file at path on top of the default configs. An empty
// path returns the defaults.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Configs{}, err
	}

	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot decode config %s: %w", path, err)
	}

	return cfg, nil
}
