package vm

import (
	"math/big"

	"ledger/keys"
)

// Machine 字节码解释器。Call 在 env 上执行合约函数，
// 通过 env.Kv* 改状态，通过 env.ChargeExecPoints 计费，失败时返回 Fault。
type Machine interface {
	Call(env *ApplyEnv, bytecode, function []byte, args [][]byte) error
}

type noMachine struct{}

func (noMachine) Call(*ApplyEnv, []byte, []byte, [][]byte) error {
	return FaultNoMachine
}

// callVM 托管附带资产后调用字节码
func (x *Executor) callVM(env *ApplyEnv, act actionView) error {
	code, err := env.KvGet(keys.KeyBytecode(act.contract))
	if err != nil {
		return err
	}
	if code == nil {
		return FaultNoBytecode
	}
	if err := escrow(env, act); err != nil {
		return err
	}
	return x.machine.Call(env, code, act.function, act.args)
}

// escrow 两个附带字段都存在时把资产从调用者转给合约；
// 缺任何一个就跳过，不做零额转账
func escrow(env *ApplyEnv, act actionView) error {
	env.Caller.AttachedSymbol = nil
	env.Caller.AttachedAmount = nil
	if !act.attached {
		return nil
	}
	amount, err := ParseAttachedAmount(act.attachedAmount)
	if err != nil || amount.Sign() <= 0 {
		return FaultInvalidAttachedAmount
	}
	from := keys.KeyBalance(env.Caller.AccountCaller, act.attachedSymbol)
	bal, err := env.KvGetInt(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return FaultAttachedInsufficient
	}
	if _, err := env.KvIncrement(keys.KeyBalance(act.contract, act.attachedSymbol), amount); err != nil {
		return err
	}
	if _, err := env.KvIncrement(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	env.Caller.AttachedSymbol = act.attachedSymbol
	env.Caller.AttachedAmount = act.attachedAmount
	return nil
}
