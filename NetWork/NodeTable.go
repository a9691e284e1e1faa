package NetWork

import (
	"sort"

	"PBFTSim/ID"
	"PBFTSim/Message"
)

// Handle 不透明投递句柄，节点只通过句柄向对端投递消息，
// 实际传输方式（内存管道、HTTP回环）由句柄实现决定
type Handle interface {
	Send(msg *Message.NodeMsg) error
}

// NodeTable 节点路由表，缺少表项或句柄为nil均视为未连接
type NodeTable struct {
	SelfNodeID ID.NodeID
	Member     map[ID.NodeID]Handle
}

func NewNodeTable(id ID.NodeID) *NodeTable {

	table := new(NodeTable)
	table.SelfNodeID = id
	table.Member = make(map[ID.NodeID]Handle)

	return table

}

// AddNode 登记或覆盖一个对端表项，重复登记为幂等操作
func (nt *NodeTable) AddNode(id ID.NodeID, handle Handle) (bool, Handle) {

	if old, ok := nt.Member[id]; ok {
		nt.Member[id] = handle
		return false, old
	}

	nt.Member[id] = handle
	return true, handle

}

func (nt *NodeTable) FindNode(id ID.NodeID) (bool, Handle) {

	if handle, ok := nt.Member[id]; ok && handle != nil {
		return true, handle
	}

	return false, nil

}

// Members 返回已登记的对端编号，升序排列保证遍历顺序稳定
func (nt *NodeTable) Members() []ID.NodeID {

	members := make([]ID.NodeID, 0, len(nt.Member))
	for k := range nt.Member {
		members = append(members, k)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	return members

}

func (nt *NodeTable) Length() int {
	return len(nt.Member)
}
