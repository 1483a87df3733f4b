package vm

import (
	"ledger/db"
	"ledger/types"
)

// DefaultCallExecPoints 每个 action 的执行点数预算
const DefaultCallExecPoints uint64 = 10_000_000

// CallerEnv 合约代码可见的调用上下文，随交易/action 推进原地修改，不落盘
type CallerEnv struct {
	Readonly bool
	Seed     []byte
	SeedF64  float64

	EntrySigner   [types.PublicKeySize]byte
	EntryPrevHash [types.HashSize]byte
	EntrySlot     uint64
	EntryPrevSlot uint64
	EntryHeight   uint64
	EntryEpoch    uint64
	EntryVR       [types.VRSize]byte
	EntryVRB3     [types.HashSize]byte
	EntryDR       [types.HashSize]byte

	TxIndex  int
	TxSigner [types.PublicKeySize]byte
	TxNonce  uint64
	TxHash   [types.HashSize]byte

	AccountOrigin  []byte
	AccountCaller  []byte
	AccountCurrent []byte

	AttachedSymbol []byte
	AttachedAmount []byte

	CallCounter             uint64
	CallExecPoints          uint64
	CallExecPointsRemaining uint64
}

// NewCallerEnv 由 entry 元数据构造，交易字段全部为零值
func NewCallerEnv(e *types.Entry, execPoints uint64) CallerEnv {
	if execPoints == 0 {
		execPoints = DefaultCallExecPoints
	}
	return CallerEnv{
		Seed:                    []byte{},
		SeedF64:                 1.0,
		EntrySigner:             e.Signer,
		EntryPrevHash:           e.PrevHash,
		EntrySlot:               e.Slot,
		EntryPrevSlot:           e.PrevSlot,
		EntryHeight:             e.Height,
		EntryEpoch:              e.Epoch,
		EntryVR:                 e.VR,
		EntryVRB3:               e.VRB3,
		EntryDR:                 e.DR,
		CallExecPoints:          execPoints,
		CallExecPointsRemaining: execPoints,
	}
}

// SetTx 切换到第 i 笔交易，只改上下文，不碰存储
func (c *CallerEnv) SetTx(i int, txu *types.TxU) {
	c.TxIndex = i
	c.TxHash = txu.Hash
	c.TxSigner = txu.Tx.Signer
	c.TxNonce = txu.Tx.Nonce
	signer := txu.Tx.Signer
	c.AccountOrigin = signer[:]
	c.AccountCaller = clone(signer[:])
}

// ExecUsed 当前 action 已消耗的点数
func (c *CallerEnv) ExecUsed() uint64 {
	return c.CallExecPoints - c.CallExecPointsRemaining
}

// ApplyEnv 一个 entry 的执行状态。
// Muts 是当前 action 的业务变更，Gas 是当前 action 的费用变更，Final 只追加。
type ApplyEnv struct {
	Caller CallerEnv
	NS     db.Namespace
	Txn    db.Txn

	Muts  Journal
	Gas   Journal
	Final Journal

	Results []TxResult
}

// NewApplyEnv txn 由调用方打开，执行期间归 ApplyEnv 独占
func NewApplyEnv(e *types.Entry, txn db.Txn, ns db.Namespace, execPoints uint64) *ApplyEnv {
	return &ApplyEnv{
		Caller: NewCallerEnv(e, execPoints),
		NS:     ns,
		Txn:    txn,
	}
}

// beginAction 每个 action 开始前调用
func (e *ApplyEnv) beginAction(contract []byte) {
	e.Muts.Reset()
	e.Gas.Reset()
	e.Caller.AccountCurrent = contract
	e.Caller.AttachedSymbol = nil
	e.Caller.AttachedAmount = nil
	e.Caller.CallCounter = 0
	e.Caller.CallExecPointsRemaining = e.Caller.CallExecPoints
}

// ChargeExecPoints 扣执行点数，不够时该 action 失败
func (e *ApplyEnv) ChargeExecPoints(n uint64) error {
	if n > e.Caller.CallExecPointsRemaining {
		e.Caller.CallExecPointsRemaining = 0
		return FaultNoExecPoints
	}
	e.Caller.CallExecPointsRemaining -= n
	return nil
}
