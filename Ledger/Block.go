package Ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Block 区块结构体，构造后不可变，Hash恒为其余三个字段的函数
type Block struct {
	Data      []byte
	TimeStamp int64
	PrevHash  string
	Hash      string
}

// NewBlock 生成新区块并计算区块哈希
func NewBlock(data []byte, prevHash string) Block {
	return NewBlockAt(data, prevHash, time.Now().UnixNano())
}

// NewBlockAt 指定时间戳生成区块，恶意节点伪造区块时需要错开时间戳
func NewBlockAt(data []byte, prevHash string, timeStamp int64) Block {

	block := Block{
		Data:      data,
		TimeStamp: timeStamp,
		PrevHash:  prevHash,
	}
	block.Hash = block.computeHash()

	return block
}

func (bk Block) computeHash() string {

	sum := sha256.Sum256(bytes.Join([][]byte{
		bk.Data,
		[]byte(strconv.FormatInt(bk.TimeStamp, 10)),
		[]byte(bk.PrevHash),
	}, []byte{}))

	return hex.EncodeToString(sum[:])
}

// IsValid 重新计算哈希并与区块自带哈希比对
func (bk Block) IsValid() bool {
	return bk.Hash == bk.computeHash()
}

// IsLinked next区块是否正确链接到prev区块之后
func IsLinked(prev, next Block) bool {
	return next.PrevHash == prev.Hash
}
