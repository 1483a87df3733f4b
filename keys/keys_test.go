// keys/keys_test.go
package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountKeys(t *testing.T) {
	pk := bytes.Repeat([]byte{0xab}, 48)

	t.Run("KeyNonce", func(t *testing.T) {
		key := KeyNonce(pk)
		assert.Equal(t, append([]byte("bic:base:nonce:"), pk...), key)
	})

	t.Run("KeyBalance", func(t *testing.T) {
		key := KeyBalance(pk, []byte("AMA"))
		want := append(append([]byte("bic:coin:balance:"), pk...), "AMA"...)
		assert.Equal(t, want, key)
	})

	t.Run("KeyBytecode", func(t *testing.T) {
		key := KeyBytecode(pk)
		assert.True(t, bytes.HasPrefix(key, []byte(PrefixContractAccount)))
		assert.True(t, bytes.HasSuffix(key, []byte(":bytecode")))
	})
}

func TestEpochKeys(t *testing.T) {
	pk := bytes.Repeat([]byte{1}, 48)

	assert.Equal(t, append([]byte("bic:epoch:solutions_count:12:"), pk...), KeySolutionCount(12, pk))
	assert.Equal(t, append([]byte("bic:epoch:slashed:0:"), pk...), KeyTrainerSlashed(0, pk))
	// 不同 epoch 不能撞 key
	assert.NotEqual(t, KeySolutionCount(1, pk), KeySolutionCount(11, pk))
}

func TestKeysDoNotAlias(t *testing.T) {
	pk := bytes.Repeat([]byte{2}, 48)
	k := KeyBalance(pk, []byte("AMA"))
	k[0] = 'X'
	assert.Equal(t, byte('b'), KeyBalance(pk, []byte("AMA"))[0])
}
