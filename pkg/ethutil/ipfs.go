package ethutil

import (
	"fmt"
	"net/url"
	"strings"

	cid "github.com/ipfs/go-cid"
	mc "github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"
)

const ipfsScheme = "ipfs://"

// Create a cid manually by specifying the 'prefix' parameters
var pref = cid.Prefix{
	Version:  1,
	Codec:    uint64(mc.Raw),
	MhType:   mh.SHA2_256,
	MhLength: -1, // default length
}

func GetIpfsHash(data []byte) (cid.Cid, error) {
	return pref.Sum(data)
}

// GatewayURL resolves a token URI to an URL on the given gateway. Supported
// forms are ipfs://<cid>[/path], ipfs://ipfs/<cid>[/path], /ipfs/<cid>[/path]
// and a bare cid. http(s) URIs are returned unchanged.
func GatewayURL(gateway, tokenURI string) (string, error) {
	tokenURI = strings.TrimSpace(tokenURI)
	if tokenURI == "" {
		return "", fmt.Errorf("empty token uri")
	}

	if strings.HasPrefix(tokenURI, "http://") || strings.HasPrefix(tokenURI, "https://") {
		if _, err := url.Parse(tokenURI); err != nil {
			return "", err
		}
		return tokenURI, nil
	}

	path := tokenURI
	switch {
	case strings.HasPrefix(path, ipfsScheme):
		path = strings.TrimPrefix(path, ipfsScheme)
	case strings.HasPrefix(path, "/ipfs/"):
		path = strings.TrimPrefix(path, "/")
	}
	path = strings.TrimPrefix(path, "ipfs/")

	root, rest, _ := strings.Cut(path, "/")
	c, err := cid.Decode(root)
	if err != nil {
		return "", fmt.Errorf("invalid cid in token uri %s: %w", tokenURI, err)
	}

	if _, err := mh.Decode(c.Hash()); err != nil {
		return "", fmt.Errorf("invalid multihash in token uri %s: %w", tokenURI, err)
	}

	u := strings.TrimSuffix(gateway, "/") + "/ipfs/" + c.String()
	if rest != "" {
		u += "/" + rest
	}

	return u, nil
}

// IsContentAddressed reports whether tokenURI names immutable IPFS content.
func IsContentAddressed(tokenURI string) bool {
	tokenURI = strings.TrimSpace(tokenURI)
	if strings.HasPrefix(tokenURI, "http://") || strings.HasPrefix(tokenURI, "https://") {
		return strings.Contains(tokenURI, "/ipfs/")
	}

	return tokenURI != ""
}
