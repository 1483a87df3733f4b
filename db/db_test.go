package db

import (
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/config"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := make(map[string]Store)
	for _, backend := range []string{"badger", "leveldb"} {
		s, err := Open(config.DatabaseConfig{Backend: backend, InMemory: true})
		require.NoError(t, err, backend)
		t.Cleanup(func() { _ = s.Close() })
		stores[backend] = s
	}
	return stores
}

func TestTxnReadYourWrites(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txn, err := s.NewTxn()
			require.NoError(t, err)
			defer txn.Discard()

			v, err := txn.Get([]byte("missing"))
			require.NoError(t, err)
			assert.Nil(t, v)

			require.NoError(t, txn.Set([]byte("a"), []byte("1")))
			v, err = txn.Get([]byte("a"))
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)

			require.NoError(t, txn.Delete([]byte("a")))
			v, err = txn.Get([]byte("a"))
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestTxnCommitAndDiscard(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txn, err := s.NewTxn()
			require.NoError(t, err)
			require.NoError(t, txn.Set([]byte("kept"), []byte("yes")))
			require.NoError(t, txn.Commit())
			assert.ErrorIs(t, txn.Commit(), ErrTxnClosed)

			txn, err = s.NewTxn()
			require.NoError(t, err)
			require.NoError(t, txn.Set([]byte("dropped"), []byte("yes")))
			txn.Discard()

			txn, err = s.NewTxn()
			require.NoError(t, err)
			defer txn.Discard()
			v, err := txn.Get([]byte("kept"))
			require.NoError(t, err)
			assert.Equal(t, []byte("yes"), v)
			v, err = txn.Get([]byte("dropped"))
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestTxnIteratePrefix(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txn, err := s.NewTxn()
			require.NoError(t, err)
			defer txn.Discard()

			for _, k := range []string{"p:b", "p:a", "q:a", "p:c"} {
				require.NoError(t, txn.Set([]byte(k), []byte(k)))
			}
			var got []string
			err = txn.Iterate([]byte("p:"), func(k, v []byte) error {
				assert.Equal(t, k, v)
				got = append(got, string(k))
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"p:a", "p:b", "p:c"}, got)
		})
	}
}

func TestBadgerSetCopiesInput(t *testing.T) {
	s, err := NewBadgerStore(config.DatabaseConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	txn, err := s.NewTxn()
	require.NoError(t, err)
	defer txn.Discard()

	val := []byte("abc")
	require.NoError(t, txn.Set([]byte("k"), val))
	val[0] = 'z'
	got, err := txn.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestNamespace(t *testing.T) {
	ns, err := LookupNamespace(ContractState)
	require.NoError(t, err)
	assert.Equal(t, ContractState, ns.Name())

	full := ns.Key([]byte("bic:base:nonce:x"))
	assert.Equal(t, []byte("contractstate:bic:base:nonce:x"), full)
	// 空 key 即分区前缀，用于整区遍历
	assert.Equal(t, []byte("contractstate:"), ns.Key(nil))

	k, ok := ns.Strip(full)
	require.True(t, ok)
	assert.Equal(t, []byte("bic:base:nonce:x"), k)

	_, ok = ns.Strip([]byte("entry:abc"))
	assert.False(t, ok)

	_, err = LookupNamespace("contract_state")
	assert.ErrorIs(t, err, ErrUnknownNamespace)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Backend: "rocksdb", InMemory: true})
	assert.Error(t, err)
}

func TestReadOnly(t *testing.T) {
	s, err := NewLevelStore(config.DatabaseConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	txn, err := s.NewTxn()
	require.NoError(t, err)
	ns, _ := s.Namespace(ContractState)
	require.NoError(t, txn.Set(ns.Key([]byte("a")), []byte("1")))
	require.NoError(t, txn.Commit())

	err = View(s, func(ro Txn, ns Namespace) error {
		v, err := ro.Get(ns.Key([]byte("a")))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
		assert.ErrorIs(t, ro.Set(ns.Key([]byte("b")), []byte("2")), ErrReadOnly)
		assert.ErrorIs(t, ro.Delete(ns.Key([]byte("a"))), ErrReadOnly)
		assert.ErrorIs(t, ro.Commit(), ErrReadOnly)
		return nil
	})
	require.NoError(t, err)

	// View 结束后事务已释放，可以再开新的
	txn, err = s.NewTxn()
	require.NoError(t, err)
	defer txn.Discard()
	v, err := txn.Get(ns.Key([]byte("b")))
	require.NoError(t, err)
	assert.Nil(t, v)
}

// badger 单事务写入量受 MaxTableSize 约束，entry 很大时需要调大
func TestBadgerTxnSizeFollowsMaxTableSize(t *testing.T) {
	write := func(cfg config.DatabaseConfig, n int) error {
		s, err := NewBadgerStore(cfg)
		require.NoError(t, err)
		defer s.Close()
		txn, err := s.NewTxn()
		require.NoError(t, err)
		defer txn.Discard()
		for i := 0; i < n; i++ {
			if err := txn.Set([]byte(fmt.Sprintf("key-%06d", i)), []byte("1")); err != nil {
				return err
			}
		}
		return nil
	}

	small := config.DatabaseConfig{InMemory: true, MaxTableSize: 1 << 20}
	assert.ErrorIs(t, write(small, 20_000), badger.ErrTxnTooBig)

	large := config.DatabaseConfig{InMemory: true, MaxTableSize: 64 << 20}
	assert.NoError(t, write(large, 20_000))
}
