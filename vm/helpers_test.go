package vm

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/config"
	"ledger/db"
	"ledger/keys"
	"ledger/types"
	"ledger/utils"
)

const ama = "AMA"

var burnPK [48]byte

func newStore(t *testing.T) db.Store {
	t.Helper()
	cfg := config.DefaultConfig().Database
	cfg.Backend = "leveldb"
	cfg.InMemory = true
	s, err := db.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testNS(t *testing.T) db.Namespace {
	t.Helper()
	ns, err := db.LookupNamespace(db.ContractState)
	require.NoError(t, err)
	return ns
}

func testPK(n int64) [48]byte {
	var pk [48]byte
	copy(pk[:], utils.PublicKeyFromScalar(big.NewInt(n)))
	return pk
}

// seed 直接写入并提交，leveldb 的事务是独占的，测试里同时只开一个
func seed(t *testing.T, s db.Store, kv map[string]string) {
	t.Helper()
	ns := testNS(t)
	txn, err := s.NewTxn()
	require.NoError(t, err)
	for k, v := range kv {
		require.NoError(t, txn.Set(ns.Key([]byte(k)), []byte(v)))
	}
	require.NoError(t, txn.Commit())
}

func balKey(pk [48]byte, symbol string) string {
	return string(keys.KeyBalance(pk[:], []byte(symbol)))
}

// get 读 key，不存在返回 "<nil>"
func get(t *testing.T, txn db.Txn, key string) string {
	t.Helper()
	v, err := txn.Get(testNS(t).Key([]byte(key)))
	require.NoError(t, err)
	if v == nil {
		return "<nil>"
	}
	return string(v)
}

func newEnvOn(t *testing.T, s db.Store, e *types.Entry) *ApplyEnv {
	t.Helper()
	txn, err := s.NewTxn()
	require.NoError(t, err)
	t.Cleanup(txn.Discard)
	if e == nil {
		e = &types.Entry{Height: 1}
	}
	return NewApplyEnv(e, txn, testNS(t), 0)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Database.Backend = "leveldb"
	cfg.Database.InMemory = true
	return cfg
}

func newExecutor(t *testing.T, cfg *config.Config, opts ...Option) *Executor {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	x, err := NewExecutor(cfg, opts...)
	require.NoError(t, err)
	return x
}

// mkTx 编码固定 10 字节，默认费率下字节费为 10
func mkTx(signer [48]byte, nonce uint64, acts ...types.Action) types.TxU {
	enc := make([]byte, 10)
	binary.BigEndian.PutUint64(enc, nonce)
	enc[8], enc[9] = signer[0], signer[47]
	return types.TxU{
		Encoded: enc,
		Hash:    utils.Blake3(enc),
		Tx:      types.Tx{Signer: signer, Nonce: nonce, Actions: acts},
	}
}

func bic(contract, function string, args ...string) types.Action {
	a := types.Action{Contract: []byte(contract), Function: []byte(function)}
	for _, arg := range args {
		a.Args = append(a.Args, []byte(arg))
	}
	return a
}

func transfer(to [48]byte, amount, symbol string) types.Action {
	return bic(ContractCoin, "transfer", string(to[:]), amount, symbol)
}

func runEntry(t *testing.T, x *Executor, s db.Store, e *types.Entry, txus ...types.TxU) (*EntryOutcome, db.Txn) {
	t.Helper()
	txn, err := s.NewTxn()
	require.NoError(t, err)
	t.Cleanup(txn.Discard)
	if e == nil {
		e = &types.Entry{Height: 1}
	}
	out, err := x.ApplyEntry(s, txn, e, txus)
	require.NoError(t, err)
	return out, txn
}

// fakeMachine 记录调用，按配置扣点数、写状态、失败或 panic
type fakeMachine struct {
	calls          int
	points         uint64
	write          bool
	fail           error
	panicWith      interface{}
	attachedSymbol []byte
	attachedAmount []byte
	bytecode       []byte
}

func (m *fakeMachine) Call(env *ApplyEnv, code, function []byte, args [][]byte) error {
	m.calls++
	m.bytecode = code
	m.attachedSymbol = env.Caller.AttachedSymbol
	m.attachedAmount = env.Caller.AttachedAmount
	if m.write {
		if err := env.KvPut([]byte("vm:touched"), []byte("1")); err != nil {
			return err
		}
	}
	if m.points > 0 {
		if err := env.ChargeExecPoints(m.points); err != nil {
			return err
		}
	}
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return m.fail
}
