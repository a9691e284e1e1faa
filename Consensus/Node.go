package Consensus

import (
	"fmt"

	"PBFTSim/ID"
	"PBFTSim/Ledger"
	"PBFTSim/Message"
	"PBFTSim/NetWork"

	"go.uber.org/zap"
)

// Node 共识节点，组合单轮状态机、账本、路由表和行为策略。
// 节点状态只通过Deliver转移，更新操作返回新副本
type Node struct {
	NodeID ID.NodeID
	Logger *zap.SugaredLogger

	Chain Ledger.Ledger
	State State
	Peers *NetWork.NodeTable
	Mode  Strategy
}

// NewNode 创建共识节点，totalNodes <= 3f 时直接拒绝构造
func NewNode(id ID.NodeID, totalNodes, f int, byzantine bool, logger *zap.SugaredLogger) (Node, error) {

	if totalNodes <= 3*f {
		return Node{}, fmt.Errorf("invalid configuration: totalNodes %d must be greater than 3f, f: %d", totalNodes, f)
	}

	var mode Strategy = HonestStrategy{}
	if byzantine {
		mode = ByzantineStrategy{}
	}

	return Node{
		NodeID: id,
		Logger: logger,
		Chain:  Ledger.NewLedger(),
		State:  NewState(id, totalNodes, f),
		Peers:  NetWork.NewNodeTable(id),
		Mode:   mode,
	}, nil

}

// Connect 登记一个对端投递句柄，幂等操作
func (n Node) Connect(peerId ID.NodeID, handle NetWork.Handle) Node {
	n.Peers.AddNode(peerId, handle)
	return n
}

// Deliver 节点唯一的消息处理入口，返回更新后的节点和待发出的消息
func (n Node) Deliver(msg *Message.NodeMsg) (Node, []*Message.NodeMsg) {
	return n.Mode.Handle(n, msg)
}

// FanOut 面向路由表中所有对端（不含自己）生成同类型广播消息
func (n Node) FanOut(msgType string, bk Ledger.Block) []*Message.NodeMsg {

	out := make([]*Message.NodeMsg, 0, n.Peers.Length())

	for _, peer := range n.Peers.Members() {

		if peer == n.NodeID {
			//自己就不发送
			continue
		}
		out = append(out, Message.NewNodeMsg(n.NodeID, peer, msgType, bk))

	}

	return out
}

// Route 将待发出消息经句柄投递，找不到对端或投递失败只记录不重试
func (n Node) Route(msgs []*Message.NodeMsg) {

	for _, msg := range msgs {

		if ok, handle := n.Peers.FindNode(msg.To); ok {
			if err := handle.Send(msg); err != nil {
				n.Logger.Debugf("Deliver to Node %s failed, err: %v", msg.To, err)
			}
		} else {
			n.Logger.Debugf("Could't Find Node %s", msg.To)
		}

	}

}

func (n Node) Ledger() Ledger.Ledger {
	return n.Chain
}

func (n Node) Phase() Phase {
	return n.State.Phase
}

func (n Node) IsByzantine() bool {
	return n.Mode.Byzantine()
}
