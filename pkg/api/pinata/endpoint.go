package pinata

import (
	"context"
	"fmt"
	"io"

	"github.com/rentable-lab/marketplace/config"
	"github.com/rentable-lab/marketplace/pkg/api"
)

type Endpoint struct {
	Token string

	apiGenerator api.Generator
}

func New(cfg config.PinataConfigs) *Endpoint {
	return &Endpoint{
		Token:        cfg.Token,
		apiGenerator: api.NewGenerator("https://api.pinata.cloud"),
	}
}

// PinFile uploads f and returns its IPFS hash.
func (e *Endpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	resp, err := e.apiGenerator.New("/pinning/pinFileToIPFS").
		Body(api.FormData{
			Files: map[string]api.FormDataFile{
				"file": {
					Name:    name,
					Content: f,
				},
			},
		}).
		POST(ctx, api.OAuth2("Bearer", e.Token))
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		return "", fmt.Errorf("fail to pin %s to ipfs, status code = %d", name, resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", fmt.Errorf("fail to pin %s to ipfs, unexpected body", name)
	}

	return body.GetString("IpfsHash")
}
