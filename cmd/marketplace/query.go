package main

import (
	"encoding/json"
	"os"

	"github.com/rentable-lab/marketplace/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) showListings(c *cli.Context) error {
	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	if err := s.provider.RefreshListings(s.ctx); err != nil {
		return err
	}

	return printJSON(model.GetListingsResponse{
		Account:  s.provider.Account().Hex(),
		Listings: model.ConvertListings(s.provider.Listings()),
	})
}

func (s *srv) showOwnedTokens(c *cli.Context) error {
	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	// The listing refresh is followed by the owned token refresh.
	if err := s.provider.Refresh(s.ctx); err != nil {
		return err
	}

	return printJSON(model.GetOwnedTokensResponse{
		Account: s.provider.Account().Hex(),
		Source:  s.ownership.Source().String(),
		Tokens:  model.ConvertOwnedTokens(s.provider.OwnedTokens()),
	})
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
