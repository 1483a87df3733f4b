package vm

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"ledger/db"
)

// 变更日志的线格式，与下面的 proto 定义兼容：
//
//	message Mutation { uint32 op = 1; bytes key = 2; bytes value = 3; }
//	message MutationLog { repeated Mutation muts = 1; }

var ErrInvalidMutation = errors.New("invalid mutation")

const (
	fieldLogMuts  protowire.Number = 1
	fieldMutOp    protowire.Number = 1
	fieldMutKey   protowire.Number = 2
	fieldMutValue protowire.Number = 3
)

// EncodeMutations 编码一份日志，顺序保持不变
func EncodeMutations(ms []Mutation) []byte {
	var b []byte
	for _, m := range ms {
		b = protowire.AppendTag(b, fieldLogMuts, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeMutation(m))
	}
	return b
}

func encodeMutation(m Mutation) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMutOp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Op))
	b = protowire.AppendTag(b, fieldMutKey, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Key)
	if m.Op != OpDelete {
		b = protowire.AppendTag(b, fieldMutValue, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Value)
	}
	return b
}

// DecodeMutations 未知字段跳过
func DecodeMutations(b []byte) ([]Mutation, error) {
	var out []Mutation
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if num != fieldLogMuts || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		raw, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		m, err := decodeMutation(raw)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", len(out), err)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeMutation(b []byte) (Mutation, error) {
	var m Mutation
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return m, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == fieldMutOp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return m, protowire.ParseError(n)
			}
			m.Op = MutationOp(v)
			b = b[n:]
		case (num == fieldMutKey || num == fieldMutValue) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return m, protowire.ParseError(n)
			}
			if num == fieldMutKey {
				m.Key = clone(v)
			} else {
				m.Value = append([]byte{}, v...)
			}
			b = b[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return m, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	switch m.Op {
	case OpPut, OpIncrement:
		if m.Value == nil {
			m.Value = []byte{}
		}
	case OpDelete:
	default:
		return m, fmt.Errorf("%w: op %d", ErrInvalidMutation, m.Op)
	}
	if len(m.Key) == 0 {
		return m, fmt.Errorf("%w: empty key", ErrInvalidMutation)
	}
	return m, nil
}

// ApplyMutations 把一份日志重放到 txn 上。
// reverse=true 时逆序重放，用于拿 entry 的反向日志回滚整个区块。
func ApplyMutations(txn db.Txn, ns db.Namespace, ms []Mutation, reverse bool) error {
	if txn == nil {
		return ErrNilTxn
	}
	for i := range ms {
		m := ms[i]
		if reverse {
			m = ms[len(ms)-1-i]
		}
		if err := applyMutation(txn, ns, m); err != nil {
			return err
		}
	}
	return nil
}
