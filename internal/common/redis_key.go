package common

import (
	"fmt"
)

func RedisKeyTokenMetadata(tokenURI string) string {
	return fmt.Sprintf("tokenmetadata:%s", tokenURI)
}
