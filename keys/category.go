// keys/category.go
// Key 分类模块：按前缀判断一个合约状态 key 属于哪类数据
package keys

import "bytes"

// KeyCategory 数据分类，用于 dump 与日志
type KeyCategory int

const (
	CategoryUnknown KeyCategory = iota
	CategoryNonce
	CategoryBalance
	CategoryCoinMeta
	CategoryContract
	CategoryEpoch
)

var categoryNames = map[KeyCategory]string{
	CategoryUnknown:  "unknown",
	CategoryNonce:    "nonce",
	CategoryBalance:  "balance",
	CategoryCoinMeta: "coin",
	CategoryContract: "contract",
	CategoryEpoch:    "epoch",
}

func (c KeyCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return categoryNames[CategoryUnknown]
}

// 顺序敏感：更长的前缀放前面
var categoryPrefixes = []struct {
	prefix   []byte
	category KeyCategory
}{
	{[]byte(PrefixNonce), CategoryNonce},
	{[]byte(PrefixBalance), CategoryBalance},
	{[]byte(PrefixTotalSupply), CategoryCoinMeta},
	{[]byte(PrefixCoinOwner), CategoryCoinMeta},
	{[]byte(PrefixCoinPaused), CategoryCoinMeta},
	{[]byte(PrefixContractAccount), CategoryContract},
	{[]byte("bic:epoch:"), CategoryEpoch},
}

// CategorizeKey 判断 key 的数据分类
func CategorizeKey(key []byte) KeyCategory {
	for _, p := range categoryPrefixes {
		if bytes.HasPrefix(key, p.prefix) {
			return p.category
		}
	}
	return CategoryUnknown
}

// IsBalanceKey 判断是否为余额数据
func IsBalanceKey(key []byte) bool {
	return CategorizeKey(key) == CategoryBalance
}

// SplitBalanceKey 拆出余额 key 里的账户与币种。
// 账户固定 48 字节，剩余部分是 symbol。
func SplitBalanceKey(key []byte, accountSize int) (account, symbol []byte, ok bool) {
	if !IsBalanceKey(key) {
		return nil, nil, false
	}
	rest := key[len(PrefixBalance):]
	if len(rest) <= accountSize {
		return nil, nil, false
	}
	return rest[:accountSize], rest[accountSize:], true
}
