package vm

import (
	"bytes"
	"errors"
	"math/big"
)

// safe_math.go 余额与金额的安全运算，余额上限 2^256-1

var (
	ErrOverflow      = errors.New("arithmetic overflow")
	ErrUnderflow     = errors.New("arithmetic underflow")
	ErrInvalidAmount = errors.New("invalid amount format")
	ErrAmountTooLong = errors.New("amount string too long")
)

// MaxAmountStringLen 78 位十进制足够表示 2^256-1
const MaxAmountStringLen = 78

// MaxUint256 余额上限
var MaxUint256 = func() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}()

// MaxInt128 附带资产金额的上限
var MaxInt128 = func() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 127)
	return max.Sub(max, big.NewInt(1))
}()

// SafeAdd a + b，结果超过 MaxUint256 返回 ErrOverflow
func SafeAdd(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Add(a, b)
	if r.Cmp(MaxUint256) > 0 {
		return nil, ErrOverflow
	}
	return r, nil
}

// SafeSub a - b，a < b 返回 ErrUnderflow
func SafeSub(a, b *big.Int) (*big.Int, error) {
	if a.Cmp(b) < 0 {
		return nil, ErrUnderflow
	}
	return new(big.Int).Sub(a, b), nil
}

// ParseAmount 严格解析十进制非负整数：只允许数字，不允许空串、符号、空格
func ParseAmount(raw []byte) (*big.Int, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidAmount
	}
	if len(raw) > MaxAmountStringLen {
		return nil, ErrAmountTooLong
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil, ErrInvalidAmount
		}
	}
	v, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if v.Cmp(MaxUint256) > 0 {
		return nil, ErrOverflow
	}
	return v, nil
}

// ParseAttachedAmount 附带资产金额：可带一个前导 '+'，前导零不计长度，
// 不允许 '-'、空串、空格，结果不超过 MaxInt128
func ParseAttachedAmount(raw []byte) (*big.Int, error) {
	if len(raw) > 0 && raw[0] == '+' {
		raw = raw[1:]
	}
	if len(raw) == 0 {
		return nil, ErrInvalidAmount
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil, ErrInvalidAmount
		}
	}
	digits := bytes.TrimLeft(raw, "0")
	if len(digits) == 0 {
		return new(big.Int), nil
	}
	v, err := ParseAmount(digits)
	if err != nil {
		return nil, err
	}
	if v.Cmp(MaxInt128) > 0 {
		return nil, ErrOverflow
	}
	return v, nil
}

// parsePositive 参数里的金额，必须 > 0
func parsePositive(raw []byte, max *big.Int) (*big.Int, bool) {
	v, err := ParseAmount(raw)
	if err != nil || v.Sign() <= 0 || v.Cmp(max) > 0 {
		return nil, false
	}
	return v, true
}
