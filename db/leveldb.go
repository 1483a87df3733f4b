package db

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"ledger/config"
	"ledger/logs"
)

// LevelStore 封装 goleveldb。
// goleveldb 的事务是独占的：打开期间其它写入会阻塞，直到 Commit/Discard。
type LevelStore struct {
	db *leveldb.DB
}

// NewLevelStore 打开 LevelDB；InMemory 时使用内存 storage
func NewLevelStore(cfg config.DatabaseConfig) (*LevelStore, error) {
	o := &opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	if cfg.BlockCacheSize > 0 {
		o.BlockCacheCapacity = cfg.BlockCacheSize
	}

	var (
		ldb *leveldb.DB
		err error
	)
	if cfg.InMemory {
		ldb, err = leveldb.Open(storage.NewMemStorage(), o)
	} else {
		ldb, err = leveldb.OpenFile(cfg.Path, o)
		if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
			logs.Warn("[DB] leveldb corrupted at %s, recovering", cfg.Path)
			ldb, err = leveldb.RecoverFile(cfg.Path, nil)
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open leveldb")
	}
	return &LevelStore{db: ldb}, nil
}

func (s *LevelStore) NewTxn() (Txn, error) {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "leveldb open transaction")
	}
	return &levelTxn{tr: tr}, nil
}

func (s *LevelStore) Namespace(name string) (Namespace, error) {
	return LookupNamespace(name)
}

func (s *LevelStore) Close() error {
	return errors.Wrap(s.db.Close(), "close leveldb")
}

type levelTxn struct {
	tr     *leveldb.Transaction
	closed bool
}

func (t *levelTxn) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, ErrTxnClosed
	}
	val, err := t.tr.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb get %x", key)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

func (t *levelTxn) Set(key, value []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	return errors.Wrapf(t.tr.Put(key, value, nil), "leveldb put %x", key)
}

func (t *levelTxn) Delete(key []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	return errors.Wrapf(t.tr.Delete(key, nil), "leveldb delete %x", key)
}

func (t *levelTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	if t.closed {
		return ErrTxnClosed
	}
	it := t.tr.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		k := append([]byte(nil), it.Key()...)
		v := append([]byte(nil), it.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return errors.Wrap(it.Error(), "leveldb iterate")
}

func (t *levelTxn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}
	t.closed = true
	return errors.Wrap(t.tr.Commit(), "leveldb commit")
}

func (t *levelTxn) Discard() {
	if t.closed {
		return
	}
	t.closed = true
	t.tr.Discard()
}
