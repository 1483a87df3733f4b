package vm

import (
	"bytes"

	"ledger/keys"
)

// MaxBytecodeSize 单个合约字节码上限
const MaxBytecodeSize = 1 << 20

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// Contract.deploy(bytecode) 部署到交易签名者名下
func (b *Builtins) contractDeploy(env *ApplyEnv, args [][]byte) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	code := args[0]
	if len(code) <= len(wasmMagic) || len(code) > MaxBytecodeSize || !bytes.HasPrefix(code, wasmMagic) {
		return FaultInvalidBytecode
	}
	return env.KvPut(keys.KeyBytecode(env.Caller.AccountOrigin), code)
}
