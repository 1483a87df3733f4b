package db

import (
	"errors"
	"fmt"

	"ledger/config"
)

var (
	ErrUnknownNamespace = errors.New("unknown namespace")
	ErrTxnClosed        = errors.New("transaction already committed or discarded")
)

// Txn 一个读写事务。写入在 Commit 之前对其它事务不可见。
// Get 未命中返回 (nil, nil)。
type Txn interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// 按 key 升序遍历前缀下的所有键值对，包括本事务未提交的写入
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	Commit() error
	Discard()
}

// Store 存储引擎
type Store interface {
	NewTxn() (Txn, error)
	Namespace(name string) (Namespace, error)
	Close() error
}

// Open 按配置打开存储
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Backend {
	case "badger", "":
		return NewBadgerStore(cfg)
	case "leveldb":
		return NewLevelStore(cfg)
	}
	return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
}
