package vm

import (
	"ledger/logs"
	"ledger/types"
	"ledger/utils"
)

// actionView 解码后的 action，字段都是副本
type actionView struct {
	contract       []byte
	function       []byte
	args           [][]byte
	attachedSymbol []byte
	attachedAmount []byte
	attached       bool
}

func viewOf(a *types.Action) actionView {
	args := make([][]byte, len(a.Args))
	for i := range a.Args {
		args[i] = clone(a.Args[i])
	}
	return actionView{
		contract:       clone(a.Contract),
		function:       clone(a.Function),
		args:           args,
		attachedSymbol: clone(a.AttachedSymbol),
		attachedAmount: clone(a.AttachedAmount),
		attached:       a.HasAttachment(),
	}
}

// IsVMTarget 合约 id 是合法公钥则走字节码，否则走内置合约
func (x *Executor) IsVMTarget(contract []byte) bool {
	return x.keys.Valid(contract)
}

// applyTx 执行一笔交易的第一个 action。
// 返回的 error 只可能是 FatalError，业务失败体现在 TxResult 里。
func (x *Executor) applyTx(env *ApplyEnv, i int, txu *types.TxU) (TxResult, error) {
	env.Caller.SetTx(i, txu)
	a, ok := txu.FirstAction()
	if !ok {
		return TxResult{Error: string(FaultNoActions)}, nil
	}
	act := viewOf(a)
	env.beginAction(act.contract)

	vmPath := x.IsVMTarget(act.contract)
	err := isolate(func() error {
		if vmPath {
			return x.callVM(env, act)
		}
		return x.callBic(env, act)
	})
	if err != nil && IsFatal(err) {
		return TxResult{}, err
	}

	if err != nil {
		if rerr := env.Revert(); rerr != nil {
			return TxResult{}, rerr
		}
	}
	if vmPath {
		if cerr := x.chargeExec(env); cerr != nil {
			return TxResult{}, cerr
		}
	}

	res := TxResult{ExecUsed: env.Caller.ExecUsed()}
	if err == nil {
		env.Final.Append(env.Muts)
		env.Final.Append(env.Gas)
		res.Error = TagOK
	} else {
		env.Final.Append(env.Gas)
		res.Error = faultTag(err)
		logs.Info("[VM] tx %s failed in entry %d: %s",
			utils.ShortB58(txu.Hash[:]), env.Caller.EntryHeight, res.Error)
	}
	env.Muts.Reset()
	env.Gas.Reset()
	return res, nil
}

func (x *Executor) callBic(env *ApplyEnv, act actionView) error {
	fn, ok := x.reg.Get(act.contract, act.function)
	if !ok {
		return FaultInvalidBicAction
	}
	return fn(env, act.args)
}

// isolate 执行 fn，把 panic 转成错误返回。
// Fault 或字符串 payload 保留标签，其余记为 unknown；FatalError 原样上抛。
func isolate(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case *FatalError:
			err = v
			return
		case Fault:
			err = v
		case string:
			err = Fault(v)
		case error:
			if IsFatal(v) {
				err = v
				return
			}
			err = Fault(faultTag(v))
		default:
			err = FaultUnknown
		}
		if err == Fault("") {
			err = FaultUnknown
		}
		logs.Warn("[VM] recovered panic: %v", r)
	}()
	return fn()
}
