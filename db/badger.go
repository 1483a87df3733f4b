package db

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/badger/v2/options"
	"github.com/pkg/errors"

	"ledger/config"
	"ledger/logs"
)

// BadgerStore 封装 BadgerDB
type BadgerStore struct {
	Db *badger.DB
}

// NewBadgerStore 打开 BadgerDB；InMemory 时不落盘
func NewBadgerStore(cfg config.DatabaseConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// badger v2 不自动创建父目录，需要手动创建
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
		// 使用 FileIO 模式减少 mmap 内存占用
		opts.TableLoadingMode = options.FileIO
		opts.ValueLogLoadingMode = options.FileIO
	}
	opts = opts.WithLogger(nil)
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}
	if cfg.NumCompactors > 0 {
		opts.NumCompactors = cfg.NumCompactors
	}
	if cfg.MaxTableSize > 0 {
		opts.MaxTableSize = cfg.MaxTableSize
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger db")
	}
	logs.Debug("[DB] badger opened path=%q inMemory=%v", cfg.Path, cfg.InMemory)
	return &BadgerStore{Db: bdb}, nil
}

func (s *BadgerStore) NewTxn() (Txn, error) {
	return &badgerTxn{txn: s.Db.NewTransaction(true)}, nil
}

func (s *BadgerStore) Namespace(name string) (Namespace, error) {
	return LookupNamespace(name)
}

func (s *BadgerStore) Close() error {
	return errors.Wrap(s.Db.Close(), "close badger db")
}

type badgerTxn struct {
	txn    *badger.Txn
	closed bool
}

func (t *badgerTxn) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, ErrTxnClosed
	}
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "badger get %x", key)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrapf(err, "badger read value %x", key)
	}
	if val == nil {
		// 空值与未命中区分开
		val = []byte{}
	}
	return val, nil
}

// Set badger 在提交前持有 key/value 的引用，这里复制一份
func (t *badgerTxn) Set(key, value []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	return errors.Wrapf(t.txn.Set(k, v), "badger set %x", key)
}

func (t *badgerTxn) Delete(key []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	k := append([]byte(nil), key...)
	return errors.Wrapf(t.txn.Delete(k), "badger delete %x", key)
}

func (t *badgerTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	if t.closed {
		return ErrTxnClosed
	}
	it := t.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		k := item.KeyCopy(nil)
		v, err := item.ValueCopy(nil)
		if err != nil {
			return errors.Wrapf(err, "badger iterate %x", k)
		}
		if !bytes.HasPrefix(k, prefix) {
			break
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *badgerTxn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}
	t.closed = true
	return errors.Wrap(t.txn.Commit(), "badger commit")
}

func (t *badgerTxn) Discard() {
	if t.closed {
		return
	}
	t.closed = true
	t.txn.Discard()
}
