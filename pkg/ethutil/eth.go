package ethutil

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// GeneratePrivateKey derives a deterministic key from secret and nonce.
func GeneratePrivateKey(secret, nonce []byte) (*ecdsa.PrivateKey, error) {
	seed := sha256.Sum256(append(append([]byte{}, secret...), nonce...))
	return ethcrypto.ToECDSA(seed[:])
}

// LoadPrivateKey prefers an explicit hex key and falls back to deriving one
// from secret and nonce.
func LoadPrivateKey(hexKey, secret, nonce string) (*ecdsa.PrivateKey, error) {
	if hexKey != "" {
		return ethcrypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	}

	return GeneratePrivateKey([]byte(secret), []byte(nonce))
}

func LoadAddress(hexKey, secret, nonce string) (common.Address, error) {
	privateKey, err := LoadPrivateKey(hexKey, secret, nonce)
	if err != nil {
		return common.Address{}, err
	}

	return ethcrypto.PubkeyToAddress(privateKey.PublicKey), nil
}
