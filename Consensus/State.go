package Consensus

import (
	"PBFTSim/ID"
	"PBFTSim/Ledger"
)

type Phase string

const (
	PhaseInitial     Phase = "initial"
	PhasePrePrepared Phase = "preprepared"
	PhasePrepared    Phase = "prepared"
	PhaseCommitted   Phase = "committed"
)

// VoteSet 计票器，区块哈希 -> 投票节点集合。
// 按哈希分开计票，恶意哈希无法和其他区块合并票数
type VoteSet map[string]map[ID.NodeID]bool

func (vs VoteSet) clone() VoteSet {

	newSet := make(VoteSet, len(vs))
	for hash, voters := range vs {
		newVoters := make(map[ID.NodeID]bool, len(voters))
		for id := range voters {
			newVoters[id] = true
		}
		newSet[hash] = newVoters
	}

	return newSet
}

func (vs VoteSet) add(hash string, voter ID.NodeID) {

	if _, ok := vs[hash]; !ok {
		vs[hash] = make(map[ID.NodeID]bool)
	}
	vs[hash][voter] = true

}

// State 单轮共识状态机，所有更新操作均返回新副本，不做原地修改
type State struct {
	NodeID ID.NodeID
	View   int

	CurrentBlock *Ledger.Block
	Phase        Phase

	PrepareVotes VoteSet
	CommitVotes  VoteSet

	F          int
	TotalNodes int
}

func NewState(nodeId ID.NodeID, totalNodes, f int) State {

	return State{
		NodeID:       nodeId,
		View:         0,
		CurrentBlock: nil,
		Phase:        PhaseInitial,
		PrepareVotes: make(VoteSet),
		CommitVotes:  make(VoteSet),
		F:            f,
		TotalNodes:   totalNodes,
	}

}

func (st State) clone() State {

	next := st
	next.PrepareVotes = st.PrepareVotes.clone()
	next.CommitVotes = st.CommitVotes.clone()

	return next
}

// Start 开启一轮共识：进入preprepared阶段，登记当前区块并给自己计一张Prepare票。
// Prepare计票器不整体清空，同一节点连续对多个区块开轮时各哈希分别累计
func (st State) Start(bk Ledger.Block) State {

	next := st.clone()

	block := bk
	next.CurrentBlock = &block
	next.Phase = PhasePrePrepared
	next.PrepareVotes.add(bk.Hash, st.NodeID)
	next.CommitVotes = make(VoteSet)

	return next
}

// RecordPrepareVote 登记一张Prepare票，重复投票不改变计票结果；
// 达到法定票数时进入prepared阶段，committed为终态不再回退
func (st State) RecordPrepareVote(bk Ledger.Block, voter ID.NodeID) State {

	next := st.clone()
	next.PrepareVotes.add(bk.Hash, voter)

	if next.Phase != PhaseCommitted &&
		QuorumReached(next.PrepareVotes, next.TotalNodes, next.F) {
		next.Phase = PhasePrepared
	}

	return next
}

// RecordCommitVote 登记一张Commit票，达到法定票数时进入committed终态
func (st State) RecordCommitVote(bk Ledger.Block, voter ID.NodeID) State {

	next := st.clone()
	next.CommitVotes.add(bk.Hash, voter)

	if QuorumReached(next.CommitVotes, next.TotalNodes, next.F) {
		next.Phase = PhaseCommitted
	}

	return next
}

// QuorumReached 任意一个区块哈希的独立投票数达到 totalNodes-f-1 即为达成法定票数
func QuorumReached(votes VoteSet, totalNodes, f int) bool {

	quorum := totalNodes - f - 1

	for _, voters := range votes {
		if len(voters) >= quorum {
			return true
		}
	}

	return false
}

// RotateLeader 视图轮换选主，返回值恒在[1, totalNodes]区间内
func RotateLeader(view, totalNodes int) ID.NodeID {
	return ID.NodeID(view%totalNodes + 1)
}
