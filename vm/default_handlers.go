package vm

import (
	"ledger/utils"
)

// SlashVerifier 校验惩罚 trainer 的聚合签名
type SlashVerifier interface {
	VerifySlash(epoch uint64, trainer, signature, mask []byte) bool
}

// Builtins 内置合约的依赖
type Builtins struct {
	Keys   *utils.KeyValidator
	Slash  SlashVerifier // 为 nil 时所有 slash_trainer 都失败
	Native []byte        // 原生币符号，不能被 create_and_mint
}

// RegisterDefaultHandlers 注册全部内置合约
func RegisterDefaultHandlers(reg *HandlerRegistry, b *Builtins) error {
	if b.Keys == nil {
		b.Keys = utils.NewKeyValidator(0)
	}
	handlers := []struct {
		contract, function string
		fn                 BuiltinFunc
	}{
		{ContractCoin, "transfer", b.coinTransfer},
		{ContractCoin, "create_and_mint", b.coinCreateAndMint},
		{ContractCoin, "mint", b.coinMint},
		{ContractCoin, "pause", b.coinPause},
		{ContractEpoch, "set_emission_address", b.epochSetEmissionAddress},
		{ContractEpoch, "submit_sol", b.epochSubmitSol},
		{ContractEpoch, "slash_trainer", b.epochSlashTrainer},
		{ContractContract, "deploy", b.contractDeploy},
	}
	for _, h := range handlers {
		if err := reg.Register(h.contract, h.function, h.fn); err != nil {
			return err
		}
	}
	return nil
}

func wantArgs(args [][]byte, n int) error {
	if len(args) != n {
		return FaultInvalidArgs
	}
	return nil
}
