package utils

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePublicKey(t *testing.T) {
	pk := PublicKeyFromScalar(big.NewInt(42))
	require.Len(t, pk, 48)
	assert.True(t, ValidatePublicKey(pk))

	// 长度不对
	assert.False(t, ValidatePublicKey(pk[:47]))
	assert.False(t, ValidatePublicKey([]byte("Coin")))
	// 48 个 0 没有压缩标志位
	assert.False(t, ValidatePublicKey(make([]byte, 48)))
	// 压缩形式的无穷远点
	inf := make([]byte, 48)
	inf[0] = 0xc0
	assert.False(t, ValidatePublicKey(inf))
	// 随机字节几乎不可能落在曲线上
	assert.False(t, ValidatePublicKey(bytes.Repeat([]byte{0x9f}, 48)))
}

func TestKeyValidatorCaches(t *testing.T) {
	v := NewKeyValidator(2)
	a := PublicKeyFromScalar(big.NewInt(1))
	b := PublicKeyFromScalar(big.NewInt(2))
	c := PublicKeyFromScalar(big.NewInt(3))

	assert.True(t, v.Valid(a))
	assert.True(t, v.Valid(a))
	assert.Equal(t, 1, v.Len())

	// 长度不对的不进缓存
	assert.False(t, v.Valid([]byte("Epoch")))
	assert.Equal(t, 1, v.Len())

	assert.True(t, v.Valid(b))
	assert.True(t, v.Valid(c))
	assert.Equal(t, 2, v.Len())

	assert.False(t, v.Valid(bytes.Repeat([]byte{0x9f}, 48)))
}

func TestBlake3Concat(t *testing.T) {
	assert.Equal(t, Blake3([]byte("ab"), []byte("c")), Blake3([]byte("abc")))
	assert.NotEqual(t, Blake3([]byte("abc")), Blake3([]byte("abd")))
}

func TestDecodeBase58(t *testing.T) {
	pk := PublicKeyFromScalar(big.NewInt(7))
	s := EncodeBase58(pk)
	got, err := DecodeBase58(s, 48)
	require.NoError(t, err)
	assert.Equal(t, pk, got)

	_, err = DecodeBase58(s, 32)
	assert.Error(t, err)
	_, err = DecodeBase58("0OIl", 0)
	assert.Error(t, err)
}
