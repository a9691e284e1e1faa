package Consensus

import (
	"fmt"
	"time"

	"PBFTSim/Ledger"
	"PBFTSim/Log"
	"PBFTSim/Message"
)

// MaliciousForkNum 恶意节点收到一条提案后伪造的分叉区块数量
const MaliciousForkNum = 3

// Strategy 节点行为策略，统一的消息处理契约：
// 输入当前节点和一条消息，输出更新后的节点和待发出消息
type Strategy interface {
	Handle(n Node, msg *Message.NodeMsg) (Node, []*Message.NodeMsg)
	Byzantine() bool
}

/*****************************************************************************************/

// HonestStrategy 诚实节点：严格按照PrePrepare -> Prepare -> Commit三阶段参与共识
type HonestStrategy struct{}

func (HonestStrategy) Byzantine() bool {
	return false
}

func (hs HonestStrategy) Handle(n Node, msg *Message.NodeMsg) (Node, []*Message.NodeMsg) {

	switch msg.MsgType {

	case Message.PrePrepare:
		block := msg.UnmarshalBlock()
		n.Logger.Debugf("NodeID: %s, MsgType: %s, BlockHash: %s",
			n.NodeID, msg.MsgType, block.Hash)

		n.State = n.State.Start(*block)
		return n, n.FanOut(Message.Prepare, *block)

	case Message.Prepare:
		block := msg.UnmarshalBlock()
		prevPhase := n.State.Phase
		n.State = n.State.RecordPrepareVote(*block, msg.From)

		//只在首次达成Prepare法定票数时广播一轮Commit
		if prevPhase != PhasePrepared && n.State.Phase == PhasePrepared {
			n.Logger.Debugf("NodeID: %s, get enough Prepare votes, BlockHash: %s",
				n.NodeID, block.Hash)
			return n, n.FanOut(Message.Commit, *block)
		}
		return n, nil

	case Message.Commit:
		block := msg.UnmarshalBlock()
		n.State = n.State.RecordCommitVote(*block, msg.From)

		if n.State.Phase == PhaseCommitted && !n.Chain.Contains(block.Hash) {
			n.Chain = n.Chain.AppendBlock(*block)
			n.Logger.Debugf("NodeID: %s, block committed, BlockHash: %s, Height: %d",
				n.NodeID, block.Hash, n.Chain.Height())
		}
		return n, nil

	default:
		n.Logger.Debugf("NodeID: %s, unknown MsgType: %s", n.NodeID, msg.MsgType)
		return n, nil
	}

}

/*****************************************************************************************/

// ByzantineStrategy 恶意节点：收到提案后无视提案内容，
// 伪造多个分叉区块各自静默开轮且不广播任何Prepare，
// 对其他节点的Prepare/Commit一律不参与计票
type ByzantineStrategy struct{}

func (ByzantineStrategy) Byzantine() bool {
	return true
}

func (bs ByzantineStrategy) Handle(n Node, msg *Message.NodeMsg) (Node, []*Message.NodeMsg) {

	if msg.MsgType != Message.PrePrepare {
		return n, nil
	}

	block := msg.UnmarshalBlock()

	for i := 0; i < MaliciousForkNum; i++ {

		payload := fmt.Sprintf("malicious fork %s-%d", n.NodeID, i)
		//伪造区块与提案共用PrevHash，时间戳错开保证哈希互不相同
		skew := int64(Log.Random(1, 1<<16)) + int64(i) + 1
		evil := Ledger.NewBlockAt([]byte(payload), block.PrevHash, time.Now().UnixNano()+skew)

		n.State = n.State.Start(evil)
		n.Logger.Debugf("NodeID: %s, forged malicious block, BlockHash: %s",
			n.NodeID, evil.Hash)

	}

	return n, nil

}

/*****************************************************************************************/

// RandomStrategy 随机故障注入：对每条消息随机选择遵守协议、投冲突票或保持静默
type RandomStrategy struct{}

func (RandomStrategy) Byzantine() bool {
	return true
}

func (rs RandomStrategy) Handle(n Node, msg *Message.NodeMsg) (Node, []*Message.NodeMsg) {

	switch Log.Random(0, 3) {

	case 0:
		//遵守协议
		return HonestStrategy{}.Handle(n, msg)

	case 1:
		//对当前消息携带的区块投冲突票
		block := msg.UnmarshalBlock()
		payload := fmt.Sprintf("conflicting vote %s", n.NodeID)
		conflict := Ledger.NewBlockAt([]byte(payload), block.PrevHash, time.Now().UnixNano())

		n.State = n.State.Start(conflict)
		n.Logger.Debugf("NodeID: %s, submit conflicting vote, BlockHash: %s",
			n.NodeID, conflict.Hash)
		return n, n.FanOut(Message.Prepare, conflict)

	default:
		//保持静默
		return n, nil
	}

}
