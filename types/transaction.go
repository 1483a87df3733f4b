package types

// Action 一次合约调用
// AttachedSymbol / AttachedAmount 为 nil 表示未携带资产。
type Action struct {
	Contract       []byte
	Function       []byte
	Args           [][]byte
	AttachedSymbol []byte
	AttachedAmount []byte
}

// HasAttachment 两个字段都存在时才会发生托管转账
func (a *Action) HasAttachment() bool {
	return a.AttachedSymbol != nil && a.AttachedAmount != nil
}

// Tx 已解码的交易
type Tx struct {
	Signer  [PublicKeySize]byte
	Nonce   uint64
	Actions []Action
}

// TxU 交易的编码字节与解码结果，费用按 Encoded 的长度计算
type TxU struct {
	Encoded []byte
	Hash    [HashSize]byte
	Tx      Tx
}

// FirstAction 只有第一个 action 会被执行
func (t *TxU) FirstAction() (*Action, bool) {
	if len(t.Tx.Actions) == 0 {
		return nil, false
	}
	return &t.Tx.Actions[0], true
}
