package vm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// BuiltinFunc 内置合约函数，只能通过 ApplyEnv 的 Kv* 方法改状态
type BuiltinFunc func(env *ApplyEnv, args [][]byte) error

// 内置合约名
const (
	ContractCoin     = "Coin"
	ContractEpoch    = "Epoch"
	ContractContract = "Contract"
)

// bicWhitelist 允许上链的 (合约, 函数) 组合
var bicWhitelist = map[string]struct{}{
	bicKey(ContractCoin, "transfer"):              {},
	bicKey(ContractCoin, "create_and_mint"):       {},
	bicKey(ContractCoin, "mint"):                  {},
	bicKey(ContractCoin, "pause"):                 {},
	bicKey(ContractEpoch, "submit_sol"):           {},
	bicKey(ContractEpoch, "set_emission_address"): {},
	bicKey(ContractEpoch, "slash_trainer"):        {},
	bicKey(ContractContract, "deploy"):            {},
}

func bicKey(contract, function string) string {
	return contract + "." + function
}

// ValidBicAction 交易准入时用，与是否注册了 handler 无关
func ValidBicAction(contract, function []byte) bool {
	_, ok := bicWhitelist[bicKey(string(contract), string(function))]
	return ok
}

// HandlerRegistry 内置合约注册表
type HandlerRegistry struct {
	mu sync.RWMutex
	m  map[string]BuiltinFunc
}

// NewHandlerRegistry 创建新的注册表
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{m: make(map[string]BuiltinFunc)}
}

// Register 只接受白名单内的组合，重复注册报错
func (r *HandlerRegistry) Register(contract, function string, fn BuiltinFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fn == nil {
		return errors.New("nil handler")
	}
	k := bicKey(contract, function)
	if _, ok := bicWhitelist[k]; !ok {
		return fmt.Errorf("not a built-in action: %s", k)
	}
	if _, ok := r.m[k]; ok {
		return fmt.Errorf("duplicate handler: %s", k)
	}
	r.m[k] = fn
	return nil
}

// Get 获取 handler
func (r *HandlerRegistry) Get(contract, function []byte) (BuiltinFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.m[bicKey(string(contract), string(function))]
	return fn, ok
}

// List 已注册的组合，按字典序
func (r *HandlerRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
