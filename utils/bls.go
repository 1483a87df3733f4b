package utils

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	lru "github.com/hashicorp/golang-lru"
)

// PublicKeySize BLS12-381 G1 压缩点长度
const PublicKeySize = bls12381.SizeOfG1AffineCompressed

// ValidatePublicKey 校验 48 字节压缩公钥：能解码、在曲线上、在子群内、不是无穷远点
func ValidatePublicKey(pk []byte) bool {
	if len(pk) != PublicKeySize {
		return false
	}
	var p bls12381.G1Affine
	if _, err := p.SetBytes(pk); err != nil {
		return false
	}
	return !p.IsInfinity()
}

// KeyValidator 带 LRU 缓存的公钥校验。
// 子群检查较贵，同一个合约地址在区块里会反复出现。
type KeyValidator struct {
	cache *lru.Cache
}

// NewKeyValidator size<=0 时使用默认容量
func NewKeyValidator(size int) *KeyValidator {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New(size) // 只有 size<=0 会报错
	return &KeyValidator{cache: c}
}

// Valid 与 ValidatePublicKey 结果一致
func (v *KeyValidator) Valid(pk []byte) bool {
	if len(pk) != PublicKeySize {
		return false
	}
	k := string(pk)
	if ok, hit := v.cache.Get(k); hit {
		return ok.(bool)
	}
	ok := ValidatePublicKey(pk)
	v.cache.Add(k, ok)
	return ok
}

// Len 当前缓存条目数
func (v *KeyValidator) Len() int {
	return v.cache.Len()
}

// PublicKeyFromScalar sk*G1，用于测试与工具生成合法公钥
func PublicKeyFromScalar(sk *big.Int) []byte {
	_, _, g1, _ := bls12381.Generators()
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1, sk)
	b := p.Bytes()
	return b[:]
}
