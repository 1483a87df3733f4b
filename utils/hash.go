package utils

import (
	"lukechampine.com/blake3"
)

// Blake3 对多段数据顺序拼接后求 32 字节摘要
func Blake3(parts ...[]byte) [32]byte {
	h := blake3.New(32, nil)
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
