package ID

import (
	"strconv"
)

// NodeID 共识节点编号，取值范围[1, TotalNodes]
type NodeID int

func (ni NodeID) String() string {
	return strconv.Itoa(int(ni))
}

func Parse(str string) NodeID {

	id, _ := strconv.Atoi(str)
	return NodeID(id)
}
