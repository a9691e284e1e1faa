package Simulation

import (
	"sort"

	"PBFTSim/Consensus"
	"PBFTSim/ID"
	"PBFTSim/Ledger"

	"go.uber.org/zap"
)

// Result 单轮仿真结束后各节点的终态快照
type Result struct {
	Proposal Ledger.Block

	Phases    map[ID.NodeID]Consensus.Phase
	Ledgers   map[ID.NodeID]Ledger.Ledger
	Byzantine map[ID.NodeID]bool

	Stats *Stats
}

func (res *Result) HonestNodes() []ID.NodeID {

	honest := make([]ID.NodeID, 0, len(res.Byzantine))
	for id, byz := range res.Byzantine {
		if !byz {
			honest = append(honest, id)
		}
	}
	sort.Slice(honest, func(i, j int) bool { return honest[i] < honest[j] })

	return honest
}

// HonestAgreement 所有诚实节点账本均包含提案区块、高度一致且逐块哈希一致
func (res *Result) HonestAgreement() bool {

	var reference Ledger.Ledger
	first := true

	for _, id := range res.HonestNodes() {

		lg := res.Ledgers[id]
		if !lg.Contains(res.Proposal.Hash) || !lg.IsChainValid() {
			return false
		}

		if first {
			reference = lg
			first = false
			continue
		}

		if lg.Height() != reference.Height() {
			return false
		}
		for i, bk := range lg.Blocks {
			if bk.Hash != reference.Blocks[i].Hash {
				return false
			}
		}

	}

	return !first
}

// Narrate 输出每个节点的终态，着色由zap console encoder负责，核心不参与任何格式化
func (res *Result) Narrate(logger *zap.SugaredLogger) {

	ids := make([]ID.NodeID, 0, len(res.Phases))
	for id := range res.Phases {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {

		phase := res.Phases[id]
		role := "honest"
		if res.Byzantine[id] {
			role = "byzantine"
		}
		lg := res.Ledgers[id]

		logger.Infof("Node %s [%s], Phase: %s, Height: %d, ChainValid: %v",
			id, role, phase, lg.Height(), lg.IsChainValid())

	}

	if res.HonestAgreement() {
		logger.Infof("consensus reached: all honest ledgers identical, BlockHash: %s", res.Proposal.Hash)
	} else {
		logger.Warnf("consensus NOT reached for BlockHash: %s", res.Proposal.Hash)
	}

}
