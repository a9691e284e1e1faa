package Message

import (
	"encoding/json"
	"log"
	"time"

	"PBFTSim/ID"
	"PBFTSim/Ledger"
)

const (
	PrePrepare = "PrePrepare"
	Prepare    = "Prepare"
	Commit     = "Commit"
)

type NodeMsg struct {
	TimeStamp int64

	From    ID.NodeID
	To      ID.NodeID
	MsgType string
	MsgBody []byte
}

func check(err error) {

	if err != nil {
		log.Panic(err)
	}

}

// NewNodeMsg 传入的参数中，block会被序列化后填入MsgBody
func NewNodeMsg(from, to ID.NodeID, msgType string, block Ledger.Block) *NodeMsg {

	marshalData, err := json.Marshal(block)
	check(err)

	returnValue := NodeMsg{
		TimeStamp: time.Now().UnixNano(),
		From:      from,
		To:        to,
		MsgType:   msgType,
		MsgBody:   marshalData,
	}

	return &returnValue
}

// Marshal 消息序列化为数据流
func (nm *NodeMsg) Marshal() []byte {

	marshalData, err := json.Marshal(nm)
	check(err)

	return marshalData
}

// UnmarshalBlock 解析为区块数据
func (nm *NodeMsg) UnmarshalBlock() *Ledger.Block {

	data := new(Ledger.Block)
	err := json.Unmarshal(nm.MsgBody, data)
	check(err)

	return data
}
