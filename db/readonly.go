package db

import "errors"

// ErrReadOnly 只读事务上的写操作
var ErrReadOnly = errors.New("read-only transaction")

// ReadOnly 包装一个事务，只允许读；Commit 也会被拒绝。
// 用于查询工具直接读取节点数据库，保证不会写入任何数据。
func ReadOnly(t Txn) Txn {
	return readOnlyTxn{t}
}

type readOnlyTxn struct {
	inner Txn
}

func (r readOnlyTxn) Get(key []byte) ([]byte, error) { return r.inner.Get(key) }

func (r readOnlyTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return r.inner.Iterate(prefix, fn)
}

func (r readOnlyTxn) Set(key, value []byte) error { return ErrReadOnly }
func (r readOnlyTxn) Delete(key []byte) error     { return ErrReadOnly }
func (r readOnlyTxn) Commit() error               { return ErrReadOnly }
func (r readOnlyTxn) Discard()                    { r.inner.Discard() }

// View 在只读事务里执行 fn，结束后丢弃
func View(s Store, fn func(txn Txn, ns Namespace) error) error {
	ns, err := s.Namespace(ContractState)
	if err != nil {
		return err
	}
	txn, err := s.NewTxn()
	if err != nil {
		return err
	}
	defer txn.Discard()
	return fn(ReadOnly(txn), ns)
}
