package vm

import (
	"bytes"
	"math/big"

	"ledger/keys"
)

// MaxSymbolLen 代币符号最长 32 字节
const MaxSymbolLen = 32

func validSymbol(s []byte) bool {
	if len(s) == 0 || len(s) > MaxSymbolLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

func coinPaused(env *ApplyEnv, symbol []byte) (bool, error) {
	v, err := env.KvGet(keys.KeyCoinPaused(symbol))
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

// coinOwnerCheck 币必须存在且调用者是 owner
func coinOwnerCheck(env *ApplyEnv, symbol []byte) error {
	owner, err := env.KvGet(keys.KeyCoinOwner(symbol))
	if err != nil {
		return err
	}
	if owner == nil {
		return FaultSymbolNotFound
	}
	if !bytes.Equal(owner, env.Caller.AccountCaller) {
		return FaultNoPermissions
	}
	return nil
}

// Coin.transfer(receiver, amount, symbol)
func (b *Builtins) coinTransfer(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 3); err != nil {
		return err
	}
	receiver, rawAmount, symbol := args[0], args[1], args[2]
	if !b.Keys.Valid(receiver) {
		return FaultInvalidReceiver
	}
	amount, ok := parsePositive(rawAmount, MaxUint256)
	if !ok {
		return FaultInvalidAmount
	}
	if !validSymbol(symbol) {
		return FaultInvalidSymbol
	}
	paused, err := coinPaused(env, symbol)
	if err != nil {
		return err
	}
	if paused {
		return FaultPaused
	}

	from := keys.KeyBalance(env.Caller.AccountCaller, symbol)
	bal, err := env.KvGetInt(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return FaultInsufficientFund
	}
	if _, err := env.KvIncrement(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	_, err = env.KvIncrement(keys.KeyBalance(receiver, symbol), amount)
	return err
}

// Coin.create_and_mint(symbol, amount)
func (b *Builtins) coinCreateAndMint(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	symbol := args[0]
	if !validSymbol(symbol) {
		return FaultInvalidSymbol
	}
	if bytes.Equal(symbol, b.Native) {
		return FaultSymbolExists
	}
	exists, err := env.KvExists(keys.KeyCoinOwner(symbol))
	if err != nil {
		return err
	}
	if exists {
		return FaultSymbolExists
	}
	amount, ok := parsePositive(args[1], MaxUint256)
	if !ok {
		return FaultInvalidAmount
	}

	if err := env.KvPut(keys.KeyCoinOwner(symbol), env.Caller.AccountCaller); err != nil {
		return err
	}
	if _, err := env.KvIncrement(keys.KeyTotalSupply(symbol), amount); err != nil {
		return err
	}
	_, err = env.KvIncrement(keys.KeyBalance(env.Caller.AccountCaller, symbol), amount)
	return err
}

// Coin.mint(symbol, amount) 仅 owner
func (b *Builtins) coinMint(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	symbol := args[0]
	if err := coinOwnerCheck(env, symbol); err != nil {
		return err
	}
	amount, ok := parsePositive(args[1], MaxUint256)
	if !ok {
		return FaultInvalidAmount
	}
	paused, err := coinPaused(env, symbol)
	if err != nil {
		return err
	}
	if paused {
		return FaultPaused
	}
	supply, err := env.KvGetInt(keys.KeyTotalSupply(symbol))
	if err != nil {
		return err
	}
	if _, err := SafeAdd(supply, amount); err != nil {
		return FaultInvalidAmount
	}
	if _, err := env.KvIncrement(keys.KeyTotalSupply(symbol), amount); err != nil {
		return err
	}
	_, err = env.KvIncrement(keys.KeyBalance(env.Caller.AccountCaller, symbol), amount)
	return err
}

// Coin.pause(symbol, "true"|"false") 仅 owner
func (b *Builtins) coinPause(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	symbol, direction := args[0], string(args[1])
	if err := coinOwnerCheck(env, symbol); err != nil {
		return err
	}
	if direction != "true" && direction != "false" {
		return FaultInvalidDirection
	}
	return env.KvPut(keys.KeyCoinPaused(symbol), []byte(direction))
}
