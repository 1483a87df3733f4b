package vm

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"ledger/config"
	"ledger/keys"
)

type epochRate struct {
	from uint64
	rate decimal.Decimal
}

// CostSchedule 字节费与执行点价格
type CostSchedule struct {
	overhead  int64
	base      decimal.Decimal
	schedule  []epochRate // 按 from 升序
	execPrice decimal.Decimal
}

// NewCostSchedule 从配置构造，费率必须是非负十进制
func NewCostSchedule(fee config.FeeConfig, exec config.ExecConfig) (*CostSchedule, error) {
	base, err := parseRate("CostPerByte", fee.CostPerByte)
	if err != nil {
		return nil, err
	}
	price, err := parseRate("ExecCostPerPoint", exec.ExecCostPerPoint)
	if err != nil {
		return nil, err
	}
	cs := &CostSchedule{
		overhead:  int64(fee.TxOverheadBytes),
		base:      base,
		execPrice: price,
	}
	for _, r := range fee.Schedule {
		rate, err := parseRate(fmt.Sprintf("Schedule[%d]", r.FromEpoch), r.CostPerByte)
		if err != nil {
			return nil, err
		}
		cs.schedule = append(cs.schedule, epochRate{from: r.FromEpoch, rate: rate})
	}
	sort.SliceStable(cs.schedule, func(i, j int) bool { return cs.schedule[i].from < cs.schedule[j].from })
	return cs, nil
}

func parseRate(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", name, err)
	}
	if v.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%s must be non-negative", name)
	}
	return v, nil
}

// RateAt 取 from <= epoch 的最后一档，没有则用基础费率
func (c *CostSchedule) RateAt(epoch uint64) decimal.Decimal {
	rate := c.base
	for _, r := range c.schedule {
		if r.from > epoch {
			break
		}
		rate = r.rate
	}
	return rate
}

// TxCost ceil((size + overhead) * rate)
func (c *CostSchedule) TxCost(epoch uint64, size int) *big.Int {
	n := decimal.NewFromInt(int64(size) + c.overhead)
	return n.Mul(c.RateAt(epoch)).Ceil().BigInt()
}

// ExecCost ceil(points * price)
func (c *CostSchedule) ExecCost(points uint64) *big.Int {
	n := decimal.NewFromBigInt(new(big.Int).SetUint64(points), 0)
	return n.Mul(c.execPrice).Ceil().BigInt()
}

// pay 从当前交易签名者扣 amount 到燃烧地址，记在业务日志里
func (x *Executor) pay(env *ApplyEnv, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	from := keys.KeyBalance(env.Caller.TxSigner[:], x.symbol)
	bal, err := env.KvGetInt(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: balance %s, cost %s", ErrUpfrontCost, bal, amount)
	}
	if _, err := env.KvIncrement(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	_, err = env.KvIncrement(keys.KeyBalance(x.burn, x.symbol), amount)
	return err
}

// chargeExec 按本 action 用掉的点数收费，写进 Gas 日志。
// 余额不足时有多少扣多少。
func (x *Executor) chargeExec(env *ApplyEnv) error {
	used := env.Caller.ExecUsed()
	if used == 0 {
		return nil
	}
	cost := x.cost.ExecCost(used)
	if cost.Sign() == 0 {
		return nil
	}
	from := keys.KeyBalance(env.Caller.AccountOrigin, x.symbol)
	bal, err := env.KvGetInt(from)
	if err != nil {
		return err
	}
	if bal.Cmp(cost) < 0 {
		cost = bal
	}
	if cost.Sign() <= 0 {
		return nil
	}
	if _, err := env.increment(&env.Gas, from, new(big.Int).Neg(cost)); err != nil {
		return err
	}
	_, err = env.increment(&env.Gas, keys.KeyBalance(x.burn, x.symbol), cost)
	return err
}
