package vm

import (
	"math/big"

	"ledger/db"
)

// kv.go 合约状态的读写桥。写入立即落到 txn（同一 entry 内后续读可见），
// 同时在日志里记下正向变更与撤销它所需的反向变更。

// KvGet 未命中返回 nil
func (e *ApplyEnv) KvGet(key []byte) ([]byte, error) {
	return kvGet(e.Txn, e.NS, key)
}

// KvExists 判断 key 是否存在
func (e *ApplyEnv) KvExists(key []byte) (bool, error) {
	v, err := e.KvGet(key)
	return v != nil, err
}

// KvGetInt 不存在视为 0
func (e *ApplyEnv) KvGetInt(key []byte) (*big.Int, error) {
	return kvGetInt(e.Txn, e.NS, key)
}

// KvPut 业务写入
func (e *ApplyEnv) KvPut(key, value []byte) error {
	return e.put(&e.Muts, key, value)
}

// KvIncrement 业务增量，返回新值
func (e *ApplyEnv) KvIncrement(key []byte, delta *big.Int) (*big.Int, error) {
	return e.increment(&e.Muts, key, delta)
}

// KvDelete 业务删除
func (e *ApplyEnv) KvDelete(key []byte) error {
	return e.del(&e.Muts, key)
}

// Revert 按逆序重放当前 action 的反向日志，并清空业务日志。
// 日志为空时什么都不做。
func (e *ApplyEnv) Revert() error {
	rev := e.Muts.Reverse
	for i := len(rev) - 1; i >= 0; i-- {
		if err := applyMutation(e.Txn, e.NS, rev[i]); err != nil {
			return err
		}
	}
	e.Muts.Reset()
	return nil
}

func (e *ApplyEnv) put(j *Journal, key, value []byte) error {
	old, err := e.KvGet(key)
	if err != nil {
		return err
	}
	fwd := Mutation{Op: OpPut, Key: clone(key), Value: append([]byte{}, value...)}
	if err := applyMutation(e.Txn, e.NS, fwd); err != nil {
		return err
	}
	j.record(fwd, restoreOf(fwd.Key, old))
	return nil
}

func (e *ApplyEnv) del(j *Journal, key []byte) error {
	old, err := e.KvGet(key)
	if err != nil {
		return err
	}
	fwd := Mutation{Op: OpDelete, Key: clone(key)}
	if err := applyMutation(e.Txn, e.NS, fwd); err != nil {
		return err
	}
	j.record(fwd, restoreOf(fwd.Key, old))
	return nil
}

func (e *ApplyEnv) increment(j *Journal, key []byte, delta *big.Int) (*big.Int, error) {
	old, err := e.KvGet(key)
	if err != nil {
		return nil, err
	}
	cur := new(big.Int)
	if old != nil {
		if cur, err = decodeInt(old); err != nil {
			return nil, fatal("decode", key, err)
		}
	}
	next := new(big.Int).Add(cur, delta)
	k := clone(key)
	if err := kvSet(e.Txn, e.NS, k, encodeInt(next)); err != nil {
		return nil, err
	}
	fwd := Mutation{Op: OpIncrement, Key: k, Value: encodeInt(delta)}
	// 原来不存在的 key 撤销时直接删掉，保证撤销后状态与之前完全一致
	rev := Mutation{Op: OpDelete, Key: k}
	if old != nil {
		rev = Mutation{Op: OpIncrement, Key: k, Value: encodeInt(new(big.Int).Neg(delta))}
	}
	j.record(fwd, rev)
	return next, nil
}

// restoreOf 恢复 key 原来的样子
func restoreOf(key, old []byte) Mutation {
	if old == nil {
		return Mutation{Op: OpDelete, Key: key}
	}
	return Mutation{Op: OpPut, Key: key, Value: old}
}

// applyMutation 把一条变更直接作用在 txn 上，不记日志
func applyMutation(txn db.Txn, ns db.Namespace, m Mutation) error {
	switch m.Op {
	case OpPut:
		return kvSet(txn, ns, m.Key, m.Value)
	case OpDelete:
		if err := txn.Delete(ns.Key(m.Key)); err != nil {
			return fatal("delete", m.Key, err)
		}
		return nil
	case OpIncrement:
		delta, err := decodeInt(m.Value)
		if err != nil {
			return fatal("decode", m.Key, err)
		}
		cur, err := kvGetInt(txn, ns, m.Key)
		if err != nil {
			return err
		}
		return kvSet(txn, ns, m.Key, encodeInt(cur.Add(cur, delta)))
	}
	return fatal("apply", m.Key, ErrInvalidMutation)
}

func kvGet(txn db.Txn, ns db.Namespace, key []byte) ([]byte, error) {
	v, err := txn.Get(ns.Key(key))
	if err != nil {
		return nil, fatal("get", key, err)
	}
	return v, nil
}

func kvGetInt(txn db.Txn, ns db.Namespace, key []byte) (*big.Int, error) {
	raw, err := kvGet(txn, ns, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return new(big.Int), nil
	}
	v, err := decodeInt(raw)
	if err != nil {
		return nil, fatal("decode", key, err)
	}
	return v, nil
}

func kvSet(txn db.Txn, ns db.Namespace, key, value []byte) error {
	if err := txn.Set(ns.Key(key), value); err != nil {
		return fatal("set", key, err)
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
