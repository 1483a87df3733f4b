package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ledger/types"
	"ledger/utils"
)

// 入参文件格式。字节串字段以 "b58:" 开头时按 base58 解码，否则取原始字符串。
//
//	{
//	  "entry": {"signer": "b58:...", "height": 1000, "epoch": 0, "vr": "b58:..."},
//	  "txs": [{"signer": "b58:...", "nonce": 1,
//	           "actions": [{"contract": "Coin", "function": "transfer",
//	                        "args": ["b58:...", "100", "AMA"]}]}]
//	}
type entryFile struct {
	Entry entryJSON `json:"entry"`
	Txs   []txJSON  `json:"txs"`
}

type entryJSON struct {
	Signer   string `json:"signer"`
	PrevHash string `json:"prev_hash"`
	Slot     uint64 `json:"slot"`
	PrevSlot uint64 `json:"prev_slot"`
	Height   uint64 `json:"height"`
	Epoch    uint64 `json:"epoch"`
	VR       string `json:"vr"`
	VRB3     string `json:"vr_b3"`
	DR       string `json:"dr"`
}

type txJSON struct {
	// 编码后的交易，缺省时用本条记录的 JSON 编码代替，字节费按它的长度算
	Encoded string       `json:"encoded,omitempty"`
	Hash    string       `json:"hash,omitempty"`
	Signer  string       `json:"signer"`
	Nonce   uint64       `json:"nonce"`
	Actions []actionJSON `json:"actions"`
}

type actionJSON struct {
	Contract       string   `json:"contract"`
	Function       string   `json:"function"`
	Args           []string `json:"args,omitempty"`
	AttachedSymbol *string  `json:"attached_symbol,omitempty"`
	AttachedAmount *string  `json:"attached_amount,omitempty"`
}

const b58Prefix = "b58:"

func decodeField(s string) ([]byte, error) {
	if strings.HasPrefix(s, b58Prefix) {
		return utils.DecodeBase58(strings.TrimPrefix(s, b58Prefix), 0)
	}
	return []byte(s), nil
}

// decodeFixed 定长字段，空串得到全零
func decodeFixed(name, s string, dst []byte) error {
	if s == "" {
		return nil
	}
	b, err := decodeField(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%s: want %d bytes, got %d", name, len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

func loadEntryFile(path string) (*types.Entry, []types.TxU, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var f entryFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.decode()
}

func (f *entryFile) decode() (*types.Entry, []types.TxU, error) {
	e := &types.Entry{
		Slot:     f.Entry.Slot,
		PrevSlot: f.Entry.PrevSlot,
		Height:   f.Entry.Height,
		Epoch:    f.Entry.Epoch,
	}
	for _, fld := range []struct {
		name string
		src  string
		dst  []byte
	}{
		{"entry.signer", f.Entry.Signer, e.Signer[:]},
		{"entry.prev_hash", f.Entry.PrevHash, e.PrevHash[:]},
		{"entry.vr", f.Entry.VR, e.VR[:]},
		{"entry.vr_b3", f.Entry.VRB3, e.VRB3[:]},
		{"entry.dr", f.Entry.DR, e.DR[:]},
	} {
		if err := decodeFixed(fld.name, fld.src, fld.dst); err != nil {
			return nil, nil, err
		}
	}
	if f.Entry.VRB3 == "" {
		e.VRB3 = utils.Blake3(e.VR[:])
	}

	txus := make([]types.TxU, 0, len(f.Txs))
	for i := range f.Txs {
		txu, err := f.Txs[i].decode()
		if err != nil {
			return nil, nil, fmt.Errorf("tx %d: %w", i, err)
		}
		txus = append(txus, txu)
	}
	return e, txus, nil
}

func (t *txJSON) decode() (types.TxU, error) {
	var txu types.TxU
	if err := decodeFixed("signer", t.Signer, txu.Tx.Signer[:]); err != nil {
		return txu, err
	}
	txu.Tx.Nonce = t.Nonce
	for j := range t.Actions {
		act, err := t.Actions[j].decode()
		if err != nil {
			return txu, fmt.Errorf("action %d: %w", j, err)
		}
		txu.Tx.Actions = append(txu.Tx.Actions, act)
	}

	if t.Encoded != "" {
		enc, err := decodeField(t.Encoded)
		if err != nil {
			return txu, fmt.Errorf("encoded: %w", err)
		}
		txu.Encoded = enc
	} else {
		enc, err := json.Marshal(t)
		if err != nil {
			return txu, err
		}
		txu.Encoded = enc
	}
	if t.Hash != "" {
		if err := decodeFixed("hash", t.Hash, txu.Hash[:]); err != nil {
			return txu, err
		}
	} else {
		txu.Hash = utils.Blake3(txu.Encoded)
	}
	return txu, nil
}

func (a *actionJSON) decode() (types.Action, error) {
	var act types.Action
	contract, err := decodeField(a.Contract)
	if err != nil {
		return act, fmt.Errorf("contract: %w", err)
	}
	act.Contract = contract
	act.Function = []byte(a.Function)
	for k, s := range a.Args {
		b, err := decodeField(s)
		if err != nil {
			return act, fmt.Errorf("arg %d: %w", k, err)
		}
		act.Args = append(act.Args, b)
	}
	if a.AttachedSymbol != nil {
		act.AttachedSymbol = []byte(*a.AttachedSymbol)
	}
	if a.AttachedAmount != nil {
		act.AttachedAmount = []byte(*a.AttachedAmount)
	}
	return act, nil
}
