package Ledger

import (
	"errors"
)

const GenesisData = "Genesis Block"
const GenesisPrevHash = "0"

// GenesisTimeStamp 固定创世时间戳，保证所有节点的创世区块哈希一致
const GenesisTimeStamp = 0

// Ledger 内存中维护的哈希链账本，只允许尾部追加
type Ledger struct {
	Blocks []Block
}

// NewLedger 创建只含创世区块的账本
func NewLedger() Ledger {
	return Ledger{
		Blocks: []Block{NewBlockAt([]byte(GenesisData), GenesisPrevHash, GenesisTimeStamp)},
	}
}

// Append 在账本尾部追加新数据区块，返回追加后的新账本
func (lg Ledger) Append(data []byte) (Ledger, error) {

	last, ok := lg.Last()
	if !ok {
		return lg, errors.New("cannot append to an empty ledger")
	}

	return lg.AppendBlock(NewBlock(data, last.Hash)), nil
}

// AppendBlock 追加已构造区块，区块哈希已存在时不做处理
func (lg Ledger) AppendBlock(bk Block) Ledger {

	if lg.Contains(bk.Hash) {
		return lg
	}

	blocks := make([]Block, len(lg.Blocks), len(lg.Blocks)+1)
	copy(blocks, lg.Blocks)

	return Ledger{Blocks: append(blocks, bk)}
}

func (lg Ledger) Contains(hash string) bool {

	for _, bk := range lg.Blocks {
		if bk.Hash == hash {
			return true
		}
	}

	return false
}

func (lg Ledger) Height() int {
	return len(lg.Blocks)
}

func (lg Ledger) Last() (Block, bool) {

	if len(lg.Blocks) == 0 {
		return Block{}, false
	}

	return lg.Blocks[len(lg.Blocks)-1], true
}

// IsChainValid 递归校验账本，空账本视为无效，单区块账本视为有效，
// 其余情况要求链头区块哈希自洽且与后继区块正确链接
func (lg Ledger) IsChainValid() bool {
	return chainValid(lg.Blocks)
}

func chainValid(blocks []Block) bool {

	switch len(blocks) {
	case 0:
		return false
	case 1:
		return true
	default:
		if !blocks[0].IsValid() {
			return false
		}
		if !IsLinked(blocks[0], blocks[1]) {
			return false
		}
		return chainValid(blocks[1:])
	}

}
