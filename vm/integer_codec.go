package vm

import (
	"fmt"
	"math/big"
	"strconv"
)

// 状态里的整数统一存十进制 ASCII，增量可以为负

func encodeInt(v *big.Int) []byte {
	return []byte(v.String())
}

func encodeUint(v uint64) []byte {
	return strconv.AppendUint(nil, v, 10)
}

// decodeInt 读存储里的整数，格式不对说明状态已损坏
func decodeInt(raw []byte) (*big.Int, error) {
	digits := raw
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 || len(digits) > MaxAmountStringLen {
		return nil, fmt.Errorf("malformed integer %q", raw)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("malformed integer %q", raw)
		}
	}
	v, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer %q", raw)
	}
	return v, nil
}

// decodeUint 参数里的 epoch 之类的小整数
func decodeUint(raw []byte) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	return v, err == nil
}
