// keys/keys.go
// 统一的 Key 定义包，供 VM 和 DB 模块共同使用
// 所有 key 都是二进制拼接，账户部分是 48 字节公钥，不加分隔符。
package keys

import (
	"strconv"
)

// ===================== 前缀 =====================

const (
	PrefixNonce           = "bic:base:nonce:"
	PrefixBalance         = "bic:coin:balance:"
	PrefixTotalSupply     = "bic:coin:totalSupply:"
	PrefixCoinOwner       = "bic:coin:permission:"
	PrefixCoinPaused      = "bic:coin:pausable:"
	PrefixContractAccount = "bic:contract:account:"
	PrefixEmissionAddress = "bic:epoch:emission_address:"
	PrefixSolution        = "bic:epoch:solutions:"
	PrefixSolutionCount   = "bic:epoch:solutions_count:"
	PrefixTrainerSlashed  = "bic:epoch:slashed:"

	KeySegmentVRHash = "bic:epoch:segment_vr_hash"
	KeyEpochIndex    = "bic:epoch:index"
)

func cat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ===================== 账户相关 =====================

// KeyNonce 签名者当前 nonce
// 例：bic:base:nonce:<pk>
func KeyNonce(signer []byte) []byte {
	return cat([]byte(PrefixNonce), signer)
}

// KeyBalance 单币种余额
// 例：bic:coin:balance:<account><symbol>
func KeyBalance(account, symbol []byte) []byte {
	return cat([]byte(PrefixBalance), account, symbol)
}

// KeyBytecode 合约账户的字节码
// 例：bic:contract:account:<pk>:bytecode
func KeyBytecode(account []byte) []byte {
	return cat([]byte(PrefixContractAccount), account, []byte(":bytecode"))
}

// ===================== 代币元数据 =====================

func KeyTotalSupply(symbol []byte) []byte {
	return cat([]byte(PrefixTotalSupply), symbol)
}

// KeyCoinOwner 有 mint/pause 权限的账户
func KeyCoinOwner(symbol []byte) []byte {
	return cat([]byte(PrefixCoinOwner), symbol)
}

func KeyCoinPaused(symbol []byte) []byte {
	return cat([]byte(PrefixCoinPaused), symbol)
}

// ===================== Epoch =====================

func KeyEmissionAddress(signer []byte) []byte {
	return cat([]byte(PrefixEmissionAddress), signer)
}

// KeySolution 以解的摘要去重
func KeySolution(digest []byte) []byte {
	return cat([]byte(PrefixSolution), digest)
}

// KeySolutionCount 某 epoch 内某个 trainer 提交的解数量
// 例：bic:epoch:solutions_count:<epoch>:<pk>
func KeySolutionCount(epoch uint64, trainer []byte) []byte {
	return cat([]byte(PrefixSolutionCount), []byte(strconv.FormatUint(epoch, 10)), []byte(":"), trainer)
}

// KeyTrainerSlashed 例：bic:epoch:slashed:<epoch>:<pk>
func KeyTrainerSlashed(epoch uint64, trainer []byte) []byte {
	return cat([]byte(PrefixTrainerSlashed), []byte(strconv.FormatUint(epoch, 10)), []byte(":"), trainer)
}
