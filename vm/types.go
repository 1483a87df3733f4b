package vm

import (
	"errors"
	"fmt"
)

// ========== 错误定义 ==========

var (
	ErrNilEntry = errors.New("nil entry")
	ErrNilTxn   = errors.New("nil transaction handle")
	// ErrUpfrontCost 签名者付不起字节费，整个 entry 作废
	ErrUpfrontCost = errors.New("upfront cost not payable")
)

// Fault 业务失败的错误标签，会原样写进交易结果
type Fault string

func (f Fault) Error() string { return string(f) }

const (
	TagOK = "ok"

	FaultNoActions             Fault = "no_actions"
	FaultUnknown               Fault = "unknown"
	FaultInvalidBicAction      Fault = "invalid_bic_action"
	FaultNoBytecode            Fault = "account_has_no_bytecode"
	FaultInvalidAttachedAmount Fault = "invalid_attached_amount"
	FaultAttachedInsufficient  Fault = "attached_amount_insufficient_funds"
	FaultNoExecPoints          Fault = "no_exec_points_remaining"
	FaultInvalidArgs           Fault = "invalid_args"
	FaultNoMachine             Fault = "vm_unavailable"

	// Coin
	FaultInvalidReceiver  Fault = "invalid_receiver_pk"
	FaultInvalidAmount    Fault = "invalid_amount"
	FaultInsufficientFund Fault = "insufficient_funds"
	FaultPaused           Fault = "paused"
	FaultInvalidSymbol    Fault = "invalid_symbol"
	FaultSymbolExists     Fault = "symbol_exists"
	FaultSymbolNotFound   Fault = "symbol_not_found"
	FaultNoPermissions    Fault = "no_permissions"
	FaultInvalidDirection Fault = "invalid_direction"

	// Epoch
	FaultInvalidAddressPK Fault = "invalid_address_pk"
	FaultInvalidSolFormat Fault = "invalid_sol_format"
	FaultInvalidEpoch     Fault = "invalid_epoch"
	FaultSolExists        Fault = "sol_exists"
	FaultInvalidTrainerPK Fault = "invalid_trainer_pk"
	FaultInvalidSignature Fault = "invalid_signature"
	FaultTrainerSlashed   Fault = "trainer_already_slashed"

	// Contract
	FaultInvalidBytecode Fault = "invalid_bytecode"
)

// FatalError 存储层错误或状态损坏，不能被单笔交易吸收
type FatalError struct {
	Op  string
	Key []byte
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func fatal(op string, key []byte, err error) error {
	return &FatalError{Op: op, Key: key, Err: err}
}

// IsFatal 判断 err 链上是否有 FatalError
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// faultTag 把业务错误转成结果标签，不认识的统一记为 unknown
func faultTag(err error) string {
	var f Fault
	if errors.As(err, &f) && f != "" {
		return string(f)
	}
	return string(FaultUnknown)
}

// ========== 结果 ==========

// TxResult 每笔交易一条，Error 为 "ok" 或错误标签
type TxResult struct {
	Error    string `json:"error"`
	ExecUsed uint64 `json:"exec_used,omitempty"`
}

// OK 是否执行成功
func (r TxResult) OK() bool { return r.Error == TagOK }
