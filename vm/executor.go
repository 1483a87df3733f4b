package vm

import (
	"fmt"

	"ledger/config"
	"ledger/db"
	"ledger/keys"
	"ledger/logs"
	"ledger/types"
	"ledger/utils"
)

// Executor 把一个 entry 的交易顺序作用到合约状态上。
// 本身无状态，可以被多个 entry 复用，但每个 entry 必须有独立的 txn。
type Executor struct {
	reg       *HandlerRegistry
	cost      *CostSchedule
	keys      *utils.KeyValidator
	machine   Machine
	epochHook EpochHook
	slash     SlashVerifier
	symbol    []byte
	burn      []byte
	exec      config.ExecConfig
}

// Option 构造选项
type Option func(*Executor)

// WithMachine 设置字节码解释器
func WithMachine(m Machine) Option {
	return func(x *Executor) { x.machine = m }
}

// WithEpochHook 设置 epoch 切换逻辑
func WithEpochHook(h EpochHook) Option {
	return func(x *Executor) { x.epochHook = h }
}

// WithSlashVerifier 设置 slash_trainer 的签名校验
func WithSlashVerifier(v SlashVerifier) Option {
	return func(x *Executor) { x.slash = v }
}

// WithRegistry 使用外部注册表，不再注册默认内置合约
func WithRegistry(reg *HandlerRegistry) Option {
	return func(x *Executor) { x.reg = reg }
}

// NewExecutor cfg 为 nil 时使用默认配置
func NewExecutor(cfg *config.Config, opts ...Option) (*Executor, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cost, err := NewCostSchedule(cfg.Fee, cfg.Exec)
	if err != nil {
		return nil, err
	}
	burn, err := cfg.Fee.Burn()
	if err != nil {
		return nil, err
	}
	x := &Executor{
		cost:      cost,
		keys:      utils.NewKeyValidator(cfg.Exec.KeyCacheSize),
		machine:   noMachine{},
		epochHook: AdvanceEpoch,
		symbol:    []byte(cfg.Fee.Symbol),
		burn:      burn,
		exec:      cfg.Exec,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.reg == nil {
		x.reg = NewHandlerRegistry()
		b := &Builtins{Keys: x.keys, Slash: x.slash, Native: x.symbol}
		if err := RegisterDefaultHandlers(x.reg, b); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Registry 当前使用的注册表
func (x *Executor) Registry() *HandlerRegistry { return x.reg }

// Costs 费用表
func (x *Executor) Costs() *CostSchedule { return x.cost }

// EntryOutcome ApplyEntry 的输出。Txn 未提交，由调用方决定提交或丢弃。
type EntryOutcome struct {
	Txn     db.Txn
	Muts    []Mutation
	MutsRev []Mutation
	Results []TxResult
}

// ApplyEntry 在 txn 上顺序执行 txus。
// 返回错误时状态已不可信，调用方应丢弃 txn。
func (x *Executor) ApplyEntry(store db.Store, txn db.Txn, entry *types.Entry, txus []types.TxU) (*EntryOutcome, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	if txn == nil {
		return nil, ErrNilTxn
	}
	ns, err := store.Namespace(db.ContractState)
	if err != nil {
		return nil, err
	}
	env := NewApplyEnv(entry, txn, ns, x.exec.CallExecPoints)

	if err := x.precharge(env, txus); err != nil {
		return nil, err
	}

	env.Results = make([]TxResult, 0, len(txus))
	for i := range txus {
		res, err := x.applyTx(env, i, &txus[i])
		if err != nil {
			logs.Error("[VM] entry %d tx %d: %v", entry.Height, i, err)
			return nil, fmt.Errorf("apply tx %d: %w", i, err)
		}
		env.Results = append(env.Results, res)
	}

	if x.exec.EntryExit {
		if err := x.callExit(env); err != nil {
			return nil, fmt.Errorf("entry exit: %w", err)
		}
	}

	return &EntryOutcome{
		Txn:     env.Txn,
		Muts:    env.Final.Forward,
		MutsRev: env.Final.Reverse,
		Results: env.Results,
	}, nil
}

// precharge 扣所有交易的 nonce 与字节费，直接进 Final，之后不会被回滚
func (x *Executor) precharge(env *ApplyEnv, txus []types.TxU) error {
	for i := range txus {
		txu := &txus[i]
		env.Caller.SetTx(i, txu)
		env.Muts.Reset()
		if err := env.KvPut(keys.KeyNonce(txu.Tx.Signer[:]), encodeUint(txu.Tx.Nonce)); err != nil {
			return fmt.Errorf("precharge tx %d: %w", i, err)
		}
		cost := x.cost.TxCost(env.Caller.EntryEpoch, len(txu.Encoded))
		if err := x.pay(env, cost); err != nil {
			return fmt.Errorf("precharge tx %d: %w", i, err)
		}
		env.Final.Append(env.Muts)
		env.Muts.Reset()
	}
	logs.Debug("[VM] entry %d precharged %d txs, %d mutations",
		env.Caller.EntryHeight, len(txus), env.Final.Len())
	return nil
}
