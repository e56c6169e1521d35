package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "marketplace"
	s.app.Usage = "Rent and lend ERC-4907 NFTs"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path of the toml config file",
			EnvVars: []string{"MARKETPLACE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "One of debug, info, warning, error, silence",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringSliceFlag{
			Name:    "rpc",
			Usage:   "Chain rpc url, overrides the configured ones",
			EnvVars: []string{"CHAIN_RPCS"},
		},
		&cli.StringFlag{
			Name:    "private-key",
			Usage:   "Hex private key of the wallet",
			EnvVars: []string{"WALLET_PRIVATE_KEY"},
		},
		&cli.StringFlag{
			Name:    "marketplace",
			Usage:   "Address of the marketplace contract",
			EnvVars: []string{"MARKETPLACE_CONTRACT"},
		},
		&cli.StringFlag{
			Name:    "rentable-nft",
			Usage:   "Address of the rentable nft contract",
			EnvVars: []string{"RENTABLE_NFT_CONTRACT"},
		},
		&cli.StringFlag{
			Name:    "redis",
			Usage:   "Redis address used to cache token metadata",
			EnvVars: []string{"REDIS_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    "indexer-key",
			Usage:   "Api key of the nft indexer, enables the indexer when set",
			EnvVars: []string{"INDEXER_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "indexer-secret",
			Usage:   "Api secret of the nft indexer",
			EnvVars: []string{"INDEXER_API_SECRET"},
		},
	}

	accountFlag := &cli.StringFlag{
		Name:  "account",
		Usage: "Show the state of this account instead of the wallet",
	}
	contractFlag := &cli.StringFlag{
		Name:  "contract",
		Usage: "Address of the nft contract, defaults to the rentable nft contract",
	}
	tokenFlag := &cli.StringFlag{
		Name:     "token",
		Usage:    "Token id",
		Required: true,
	}
	durationFlag := &cli.DurationFlag{
		Name:     "duration",
		Usage:    "Duration such as 72h",
		Required: true,
	}

	s.app.Commands = []*cli.Command{
		{
			Action:   s.showListings,
			Name:     "listings",
			Usage:    "Show all listings of the marketplace",
			Flags:    []cli.Flag{accountFlag},
			Category: "Query",
		},
		{
			Action:   s.showOwnedTokens,
			Name:     "owned",
			Usage:    "Show the tokens minted to the account",
			Flags:    []cli.Flag{accountFlag},
			Category: "Query",
		},
		{
			Action: s.mint,
			Name:   "mint",
			Usage:  "Mint a new rentable nft",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "uri", Usage: "Token uri of an existing metadata document"},
				&cli.PathFlag{Name: "file", Usage: "Metadata json to pin on ipfs before minting"},
				&cli.StringFlag{Name: "pinata-token", Usage: "Pinata jwt", EnvVars: []string{"PINATA_TOKEN"}},
			},
			Category:    "Action",
			Description: `Exactly one of --uri or --file must be set.`,
		},
		{
			Action: s.list,
			Name:   "list",
			Usage:  "List a token for rent",
			Flags: []cli.Flag{
				contractFlag,
				tokenFlag,
				&cli.StringFlag{Name: "price", Usage: "Price per day in wei", Required: true},
				durationFlag,
			},
			Category:    "Action",
			Description: `The listing starts shortly after the transaction is sent and lasts for --duration.`,
		},
		{
			Action:      s.unlist,
			Name:        "unlist",
			Usage:       "Remove a listing, refunding the current renter",
			Flags:       []cli.Flag{contractFlag, tokenFlag},
			Category:    "Action",
			Description: `The refund is paid by the wallet when the token is still rented.`,
		},
		{
			Action:   s.rent,
			Name:     "rent",
			Usage:    "Rent a listed token",
			Flags:    []cli.Flag{contractFlag, tokenFlag, durationFlag},
			Category: "Action",
		},
		{
			Action: s.watch,
			Name:   "watch",
			Usage:  "Keep the marketplace state up to date",
			Flags: []cli.Flag{
				&cli.DurationFlag{Name: "interval", Usage: "Refresh interval"},
				&cli.BoolFlag{Name: "follow-blocks", Usage: "Also refresh on every new block"},
			},
			Category:    "Worker",
			Description: `Serves prometheus metrics when prometheus_server.port is configured.`,
		},
	}
}
