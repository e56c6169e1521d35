package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/internal/domain/metadata"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/api"
	"github.com/rentable-lab/marketplace/pkg/errorx"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

const maxPages = 100

// Service answers ownership queries without scanning the chain.
type Service interface {
	// Active reports the result of the latest availability check.
	Active() bool
	CheckAvailability(ctx context.Context) bool
	GetOwnedTokens(ctx context.Context, account common.Address) ([]entity.OwnedToken, error)
}

type infuraService struct {
	enabled   bool
	chainID   int64
	apiKey    string
	apiSecret string
	contract  common.Address

	apiGenerator api.Generator
	active       atomic.Bool
}

func NewInfuraService(
	cfg config.IndexerConfigs,
	chainID int64,
	rentableNft common.Address,
	apiGenerator api.Generator,
) *infuraService {
	return &infuraService{
		enabled:      cfg.Enabled,
		chainID:      chainID,
		apiKey:       cfg.APIKey,
		apiSecret:    cfg.APISecret,
		contract:     rentableNft,
		apiGenerator: apiGenerator,
	}
}

func (s *infuraService) Active() bool {
	return s.enabled && s.active.Load()
}

// CheckAvailability checks that the service is configured and supports the current chain.
func (s *infuraService) CheckAvailability(ctx context.Context) bool {
	if !s.enabled || s.apiKey == "" {
		s.active.Store(false)
		return false
	}

	_, err := s.getPage(ctx, common.Address{}, "")
	if err != nil {
		xcontext.Logger(ctx).Warnf("Indexer is not available for chain %d: %v", s.chainID, err)
	}

	s.active.Store(err == nil)
	return err == nil
}

type assetsResponse struct {
	Cursor string  `json:"cursor"`
	Assets []asset `json:"assets"`
}

type asset struct {
	Contract string         `json:"contract"`
	TokenID  string         `json:"tokenId"`
	Metadata map[string]any `json:"metadata"`
}

func (s *infuraService) getPage(ctx context.Context, account common.Address, cursor string) (*assetsResponse, error) {
	client := s.apiGenerator.New("/networks/%d/accounts/%s/assets/nfts", s.chainID, account.Hex())
	if cursor != "" {
		client = client.Query(api.Parameter{"cursor": cursor})
	}

	resp, err := client.GET(ctx, api.BasicAuth(s.apiKey, s.apiSecret))
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "cannot reach indexer: %v", err)
	}

	if !resp.OK() {
		return nil, errorx.New(errorx.BadResponse, "indexer returned status %d", resp.Code)
	}

	page := &assetsResponse{}
	if err := json.Unmarshal(resp.RawBody, page); err != nil {
		return nil, errorx.New(errorx.BadResponse, "cannot decode indexer response: %v", err)
	}

	return page, nil
}

// GetOwnedTokens returns tokens of the rentable nft contract owned by account, following the
// cursor until the last page.
func (s *infuraService) GetOwnedTokens(ctx context.Context, account common.Address) ([]entity.OwnedToken, error) {
	tokens := []entity.OwnedToken{}
	seen := map[string]struct{}{}

	cursor := ""
	for page := 0; page < maxPages; page++ {
		resp, err := s.getPage(ctx, account, cursor)
		if err != nil {
			return nil, err
		}

		for _, a := range resp.Assets {
			if !common.IsHexAddress(a.Contract) || common.HexToAddress(a.Contract) != s.contract {
				continue
			}

			tokenID, ok := new(big.Int).SetString(a.TokenID, 10)
			if !ok {
				xcontext.Logger(ctx).Warnf("Indexer returned an invalid token id %q", a.TokenID)
				continue
			}

			if _, ok := seen[tokenID.String()]; ok {
				continue
			}
			seen[tokenID.String()] = struct{}{}

			token := entity.OwnedToken{
				NFTContract: s.contract,
				TokenID:     tokenID,
			}

			if a.Metadata != nil {
				token.Metadata, err = metadata.Decode(a.Metadata)
				if err != nil {
					xcontext.Logger(ctx).Warnf("Cannot decode metadata of token %s: %v", tokenID, err)
				}
			}

			tokens = append(tokens, token)
		}

		if resp.Cursor == "" {
			return tokens, nil
		}
		cursor = resp.Cursor
	}

	return nil, fmt.Errorf("indexer returned more than %d pages for %s", maxPages, account.Hex())
}
