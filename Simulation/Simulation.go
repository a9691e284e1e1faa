package Simulation

import (
	"PBFTSim/Config"
	"PBFTSim/Consensus"
	"PBFTSim/ID"
	"PBFTSim/Ledger"
	"PBFTSim/Message"
	"PBFTSim/NetWork"

	"go.uber.org/zap"
)

// Runner 仿真驱动器：构造全部节点、两两互联、注入提案并泵送消息直至静默。
// 驱动器单协程轮询各节点收件管道，消息到达顺序对法定票数判定无影响
type Runner struct {
	Logger *zap.SugaredLogger
	Cfg    *Config.Config

	nodes   map[ID.NodeID]Consensus.Node
	inboxes map[ID.NodeID]*NetWork.ChanHandle
	order   []ID.NodeID
	stats   *Stats
}

// NewRunner 校验配置后构造并互联全部节点，配置不合法时不会创建任何节点
func NewRunner(cfg *Config.Config, logger *zap.SugaredLogger) (*Runner, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := &Runner{
		Logger:  logger,
		Cfg:     cfg,
		nodes:   make(map[ID.NodeID]Consensus.Node),
		inboxes: make(map[ID.NodeID]*NetWork.ChanHandle),
		order:   make([]ID.NodeID, 0, cfg.TotalNodes),
		stats:   NewStats(),
	}

	for i := 1; i <= cfg.TotalNodes; i++ {

		id := ID.NodeID(i)
		node, err := Consensus.NewNode(id, cfg.TotalNodes, cfg.Faulty, cfg.IsByzantine(i), logger)
		if err != nil {
			return nil, err
		}
		if cfg.IsRandom(i) {
			node.Mode = Consensus.RandomStrategy{}
		}

		runner.nodes[id] = node
		runner.inboxes[id] = NetWork.NewChanHandle()
		runner.order = append(runner.order, id)

	}

	//两两互联，句柄指向对端收件管道
	for _, id := range runner.order {
		for _, peer := range runner.order {
			if id == peer {
				continue
			}
			runner.nodes[id] = runner.nodes[id].Connect(peer, runner.inboxes[peer])
		}
	}

	return runner, nil
}

// Run 执行一轮共识：轮换选主、对每个节点注入一条PrePrepare、泵送至静默
func (r *Runner) Run() *Result {

	leaderId := Consensus.RotateLeader(r.Cfg.View, r.Cfg.TotalNodes)
	leader := r.nodes[leaderId]

	last, _ := leader.Chain.Last()
	proposal := Ledger.NewBlock([]byte(r.Cfg.BlockData), last.Hash)

	r.Logger.Infof("Leader %s proposes block, BlockHash: %s", leaderId, proposal.Hash)

	for _, id := range r.order {

		msg := Message.NewNodeMsg(leaderId, id, Message.PrePrepare, proposal)
		if err := r.inboxes[id].Send(msg); err != nil {
			r.Logger.Debugf("Deliver to Node %s failed, err: %v", id, err)
		}

	}

	r.pump()

	return r.collect(proposal)
}

// pump 轮询所有收件管道处理消息，整轮无消息可取即为静默
func (r *Runner) pump() {

	for {

		idle := true

		for _, id := range r.order {

			inbox := r.inboxes[id]

		drain:
			for {
				select {

				case msg := <-inbox.C:
					idle = false
					r.stats.Observe(msg)

					updated, out := r.nodes[id].Deliver(msg)
					r.nodes[id] = updated
					updated.Route(out)

				default:
					break drain
				}
			}

		}

		if idle {
			return
		}

	}

}

func (r *Runner) collect(proposal Ledger.Block) *Result {

	result := &Result{
		Proposal:  proposal,
		Phases:    make(map[ID.NodeID]Consensus.Phase),
		Ledgers:   make(map[ID.NodeID]Ledger.Ledger),
		Byzantine: make(map[ID.NodeID]bool),
		Stats:     r.stats,
	}

	for _, id := range r.order {
		node := r.nodes[id]
		result.Phases[id] = node.Phase()
		result.Ledgers[id] = node.Ledger()
		result.Byzantine[id] = node.IsByzantine()
	}

	return result
}
