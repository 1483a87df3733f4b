package vm

import (
	"math/big"

	"ledger/keys"
	"ledger/utils"
)

// EpochHook epoch 切换，变更写进业务日志
type EpochHook func(env *ApplyEnv) error

// AdvanceEpoch 默认实现：epoch 计数加一
func AdvanceEpoch(env *ApplyEnv) error {
	_, err := env.KvIncrement([]byte(keys.KeyEpochIndex), big.NewInt(1))
	return err
}

// callExit 块末记账：
// height % SegmentInterval == 0 记录 blake3(vr)；
// height % EpochInterval == EpochInterval-1 触发 epoch 切换
func (x *Executor) callExit(env *ApplyEnv) error {
	env.Muts.Reset()
	env.Gas.Reset()
	h := env.Caller.EntryHeight
	if SegmentBoundary(h, x.exec.SegmentInterval) {
		digest := utils.Blake3(env.Caller.EntryVR[:])
		if err := env.KvPut([]byte(keys.KeySegmentVRHash), digest[:]); err != nil {
			return err
		}
	}
	if EpochBoundary(h, x.exec.EpochInterval) && x.epochHook != nil {
		if err := x.epochHook(env); err != nil {
			return err
		}
	}
	env.Final.Append(env.Muts)
	env.Muts.Reset()
	return nil
}

// SegmentBoundary interval 为 0 时从不触发
func SegmentBoundary(height, interval uint64) bool {
	return interval > 0 && height%interval == 0
}

// EpochBoundary 每个 epoch 的最后一个高度
func EpochBoundary(height, interval uint64) bool {
	return interval > 0 && height%interval == interval-1
}
