package metadata

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/rentable-lab/marketplace/internal/entity"
	"github.com/rentable-lab/marketplace/pkg/api"
	"github.com/rentable-lab/marketplace/pkg/ethutil"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
)

type Fetcher interface {
	Fetch(ctx context.Context, tokenURI string) (*entity.Metadata, error)
}

type fetcher struct {
	gateway      string
	apiGenerator api.Generator
	cache        Cache
}

// NewFetcher returns a fetcher resolving token uris through gateway. The cache may be nil.
func NewFetcher(gateway string, apiGenerator api.Generator, cache Cache) *fetcher {
	return &fetcher{
		gateway:      gateway,
		apiGenerator: apiGenerator,
		cache:        cache,
	}
}

func (f *fetcher) Fetch(ctx context.Context, tokenURI string) (*entity.Metadata, error) {
	cacheable := f.cache != nil && ethutil.IsContentAddressed(tokenURI)
	if cacheable {
		if doc, ok := f.cache.Get(ctx, tokenURI); ok {
			return Decode(doc)
		}
	}

	url, err := ethutil.GatewayURL(f.gateway, tokenURI)
	if err != nil {
		return nil, err
	}

	resp, err := f.apiGenerator.New("%s", url).GET(ctx)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("gateway returned status %d for %s", resp.Code, url)
	}

	doc, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, fmt.Errorf("metadata of %s is not a json object", tokenURI)
	}

	metadata, err := Decode(doc)
	if err != nil {
		return nil, err
	}

	if cacheable {
		f.cache.Set(ctx, tokenURI, doc)
	}

	xcontext.Logger(ctx).Debugf("Fetched metadata of %s from %s", tokenURI, url)
	return metadata, nil
}

// Decode converts a raw ERC-721 metadata document. Unknown keys are kept in Extra.
func Decode(doc api.JSON) (*entity.Metadata, error) {
	metadata := &entity.Metadata{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return nil, err
	}

	return metadata, nil
}
