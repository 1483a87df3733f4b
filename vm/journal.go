package vm

// MutationOp 变更类型
type MutationOp uint8

const (
	OpPut MutationOp = iota + 1
	OpDelete
	OpIncrement
)

func (op MutationOp) String() string {
	switch op {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	case OpIncrement:
		return "increment"
	}
	return "invalid"
}

// Mutation 一条缓冲的状态变更。
// key 不含分区前缀；OpIncrement 的 Value 是十进制增量。
type Mutation struct {
	Op    MutationOp
	Key   []byte
	Value []byte
}

// Journal 成对的正向/反向日志，Reverse[i] 撤销 Forward[i]
type Journal struct {
	Forward []Mutation
	Reverse []Mutation
}

// Reset 清空，不复用底层数组，已合并出去的条目不受影响
func (j *Journal) Reset() {
	j.Forward = nil
	j.Reverse = nil
}

// Append 按顺序并入另一份日志
func (j *Journal) Append(o Journal) {
	j.Forward = append(j.Forward, o.Forward...)
	j.Reverse = append(j.Reverse, o.Reverse...)
}

func (j *Journal) Len() int { return len(j.Forward) }

func (j *Journal) record(fwd, rev Mutation) {
	j.Forward = append(j.Forward, fwd)
	j.Reverse = append(j.Reverse, rev)
}
