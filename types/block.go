package types

// 定长字段尺寸
const (
	PublicKeySize = 48 // BLS12-381 G1 压缩公钥
	HashSize      = 32
	VRSize        = 96 // BLS12-381 G2 压缩签名
)

// Entry 区块头元数据，一次 ApplyEntry 内只读
type Entry struct {
	Signer   [PublicKeySize]byte
	PrevHash [HashSize]byte
	Slot     uint64
	PrevSlot uint64
	Height   uint64
	Epoch    uint64
	VR       [VRSize]byte   // verifiable random
	VRB3     [HashSize]byte // blake3(VR)
	DR       [HashSize]byte // derived randomness
}
