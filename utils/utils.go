package utils

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// EncodeBase58 公钥/哈希的展示格式
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase58 解码并校验长度，size<=0 不校验
func DecodeBase58(s string, size int) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 %q: %w", s, err)
	}
	if size > 0 && len(b) != size {
		return nil, fmt.Errorf("base58 %q decodes to %d bytes, want %d", s, len(b), size)
	}
	return b, nil
}

// ShortB58 日志里用的短格式
func ShortB58(b []byte) string {
	s := base58.Encode(b)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
