package ethutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func Test_GatewayURL(t *testing.T) {
	tests := []struct {
		name     string
		tokenURI string
		want     string
		wantErr  bool
	}{
		{
			name:     "ipfs scheme",
			tokenURI: "ipfs://" + testCID,
			want:     "https://ipfs.io/ipfs/" + testCID,
		},
		{
			name:     "ipfs scheme with path",
			tokenURI: "ipfs://" + testCID + "/1.json",
			want:     "https://ipfs.io/ipfs/" + testCID + "/1.json",
		},
		{
			name:     "ipfs scheme with ipfs prefix",
			tokenURI: "ipfs://ipfs/" + testCID,
			want:     "https://ipfs.io/ipfs/" + testCID,
		},
		{
			name:     "gateway path",
			tokenURI: "/ipfs/" + testCID,
			want:     "https://ipfs.io/ipfs/" + testCID,
		},
		{
			name:     "bare cid",
			tokenURI: testCID,
			want:     "https://ipfs.io/ipfs/" + testCID,
		},
		{
			name:     "http uri",
			tokenURI: "https://example.com/meta/1.json",
			want:     "https://example.com/meta/1.json",
		},
		{
			name:     "invalid cid",
			tokenURI: "fakeURI",
			wantErr:  true,
		},
		{
			name:     "empty",
			tokenURI: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GatewayURL("https://ipfs.io/", tt.tokenURI)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_GetIpfsHash(t *testing.T) {
	c1, err := GetIpfsHash([]byte(`{"name":"rentable"}`))
	require.NoError(t, err)

	c2, err := GetIpfsHash([]byte(`{"name":"rentable"}`))
	require.NoError(t, err)
	require.Equal(t, c1.String(), c2.String())

	_, err = GatewayURL("https://ipfs.io", "ipfs://"+c1.String())
	require.NoError(t, err)
}

func Test_LoadPrivateKey(t *testing.T) {
	key, err := LoadPrivateKey("0x7886876e514713dcdc516d1d5a4bde14db8027ae67707303a14d09ba7c409ad4", "", "")
	require.NoError(t, err)
	require.NotNil(t, key)

	derived1, err := LoadPrivateKey("", "secret", "nonce")
	require.NoError(t, err)
	derived2, err := LoadPrivateKey("", "secret", "nonce")
	require.NoError(t, err)
	require.Equal(t, derived1.D, derived2.D)
}

func Test_IsContentAddressed(t *testing.T) {
	require.True(t, IsContentAddressed("ipfs://"+testCID))
	require.True(t, IsContentAddressed("https://ipfs.io/ipfs/"+testCID))
	require.False(t, IsContentAddressed("https://example.com/token/1.json"))
	require.False(t, IsContentAddressed(""))
}
