package vm

import (
	"encoding/binary"
	"math/big"

	"ledger/keys"
	"ledger/types"
	"ledger/utils"
)

// 解的布局：epoch(u32 小端) | trainer 公钥(48) | 其余字节
const (
	solEpochSize = 4
	solMinSize   = solEpochSize + types.PublicKeySize
)

// Epoch.set_emission_address(pk)
func (b *Builtins) epochSetEmissionAddress(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	if !b.Keys.Valid(args[0]) {
		return FaultInvalidAddressPK
	}
	return env.KvPut(keys.KeyEmissionAddress(env.Caller.AccountCaller), args[0])
}

// Epoch.submit_sol(sol)
func (b *Builtins) epochSubmitSol(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	sol := args[0]
	if len(sol) < solMinSize {
		return FaultInvalidSolFormat
	}
	epoch := binary.LittleEndian.Uint32(sol[:solEpochSize])
	if uint64(epoch) != env.Caller.EntryEpoch {
		return FaultInvalidEpoch
	}
	trainer := sol[solEpochSize:solMinSize]
	if !b.Keys.Valid(trainer) {
		return FaultInvalidSolFormat
	}
	digest := utils.Blake3(sol)
	exists, err := env.KvExists(keys.KeySolution(digest[:]))
	if err != nil {
		return err
	}
	if exists {
		return FaultSolExists
	}
	if err := env.KvPut(keys.KeySolution(digest[:]), trainer); err != nil {
		return err
	}
	_, err = env.KvIncrement(keys.KeySolutionCount(uint64(epoch), trainer), big.NewInt(1))
	return err
}

// Epoch.slash_trainer(epoch, trainer, signature, mask)
func (b *Builtins) epochSlashTrainer(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 4); err != nil {
		return err
	}
	epoch, ok := decodeUint(args[0])
	if !ok || epoch != env.Caller.EntryEpoch {
		return FaultInvalidEpoch
	}
	trainer, sig, mask := args[1], args[2], args[3]
	if !b.Keys.Valid(trainer) {
		return FaultInvalidTrainerPK
	}
	slashed, err := env.KvExists(keys.KeyTrainerSlashed(epoch, trainer))
	if err != nil {
		return err
	}
	if slashed {
		return FaultTrainerSlashed
	}
	if b.Slash == nil || !b.Slash.VerifySlash(epoch, trainer, sig, mask) {
		return FaultInvalidSignature
	}
	return env.KvPut(keys.KeyTrainerSlashed(epoch, trainer), encodeUint(env.Caller.EntryHeight))
}
