package db

import (
	"bytes"
	"fmt"
)

// 已知分区
const (
	ContractState = "contractstate"
	EntryStore    = "entry"
	SysConf       = "sysconf"
)

var knownNamespaces = map[string]struct{}{
	ContractState: {},
	EntryStore:    {},
	SysConf:       {},
}

// Namespace 分区句柄，所有 key 带上 "<name>:" 前缀
type Namespace struct {
	name   string
	prefix []byte
}

// LookupNamespace 只认已知分区，拼错名字直接报错
func LookupNamespace(name string) (Namespace, error) {
	if _, ok := knownNamespaces[name]; !ok {
		return Namespace{}, fmt.Errorf("%w: %s", ErrUnknownNamespace, name)
	}
	return Namespace{name: name, prefix: []byte(name + ":")}, nil
}

func (n Namespace) Name() string { return n.name }

// Key 拼出底层存储里的完整 key，返回新切片
func (n Namespace) Key(k []byte) []byte {
	out := make([]byte, 0, len(n.prefix)+len(k))
	out = append(out, n.prefix...)
	return append(out, k...)
}

// Strip 去掉分区前缀；不属于本分区时 ok=false
func (n Namespace) Strip(full []byte) ([]byte, bool) {
	if !bytes.HasPrefix(full, n.prefix) {
		return nil, false
	}
	return full[len(n.prefix):], true
}
