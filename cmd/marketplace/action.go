package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/internal/domain/marketplace"
	"github.com/rentable-lab/marketplace/internal/model"
	"github.com/rentable-lab/marketplace/pkg/api/pinata"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/ethutil"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) mint(c *cli.Context) error {
	uri, file := c.String("uri"), c.Path("file")
	if (uri == "") == (file == "") {
		return errorx.New(errorx.BadRequest, "Exactly one of --uri or --file is required")
	}

	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	if file != "" {
		uri, err = s.pinMetadata(file)
		if err != nil {
			return err
		}
	}

	result, err := s.provider.Mint(s.ctx, uri)
	if err != nil {
		return err
	}

	return printAction("mint", result)
}

func (s *srv) pinMetadata(path string) (string, error) {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Pinata.Token == "" {
		return "", errorx.New(errorx.BadRequest, "A pinata token is required to mint from a file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	// Pins of the same content share a name.
	contentID, err := ethutil.GetIpfsHash(data)
	if err != nil {
		return "", err
	}

	name := contentID.String() + filepath.Ext(path)
	hash, err := pinata.New(cfg.Pinata).PinFile(s.ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	xcontext.Logger(s.ctx).Infof("Pinned %s as %s", path, hash)
	return "ipfs://" + hash, nil
}

func (s *srv) list(c *cli.Context) error {
	price, ok := new(big.Int).SetString(c.String("price"), 10)
	if !ok {
		return errorx.New(errorx.BadRequest, "Invalid price %s", c.String("price"))
	}

	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	nftContract, tokenID, err := s.parseToken(c)
	if err != nil {
		return err
	}

	if err := s.provider.RefreshListings(s.ctx); err != nil {
		return err
	}

	result, err := s.provider.List(s.ctx, nftContract, tokenID, price, int64(c.Duration("duration").Seconds()))
	if err != nil {
		return err
	}

	return printAction("list", result)
}

func (s *srv) unlist(c *cli.Context) error {
	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	nftContract, tokenID, err := s.parseToken(c)
	if err != nil {
		return err
	}

	// The refund is derived from the listing index.
	if err := s.provider.RefreshListings(s.ctx); err != nil {
		return err
	}

	result, err := s.provider.Unlist(s.ctx, nftContract, tokenID)
	if err != nil {
		return err
	}

	return printAction("unlist", result)
}

func (s *srv) rent(c *cli.Context) error {
	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	nftContract, tokenID, err := s.parseToken(c)
	if err != nil {
		return err
	}

	if err := s.provider.RefreshListings(s.ctx); err != nil {
		return err
	}

	result, err := s.provider.Rent(s.ctx, nftContract, tokenID, int64(c.Duration("duration").Seconds()))
	if err != nil {
		return err
	}

	return printAction("rent", result)
}

func (s *srv) parseToken(c *cli.Context) (common.Address, *big.Int, error) {
	nftContract := common.HexToAddress(xcontext.Configs(s.ctx).Contracts.RentableNft)
	if c.IsSet("contract") {
		hex := c.String("contract")
		if !common.IsHexAddress(hex) {
			return common.Address{}, nil, errorx.New(errorx.BadRequest, "Invalid contract %s", hex)
		}

		nftContract = common.HexToAddress(hex)
	}

	tokenID, ok := new(big.Int).SetString(c.String("token"), 10)
	if !ok {
		return common.Address{}, nil, errorx.New(errorx.BadRequest, "Invalid token id %s", c.String("token"))
	}

	return nftContract, tokenID, nil
}

func printAction(action string, result *marketplace.ActionResult) error {
	return printJSON(model.ActionResponse{
		ID:     result.ID,
		Action: action,
		TxHash: result.TxHash.Hex(),
		Value:  model.ConvertBigInt(result.Value),
	})
}
