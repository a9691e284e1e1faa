package NetWork

import (
	"errors"

	"PBFTSim/Message"
)

const ChanHandleBuffer = 1024

// ChanHandle 内存管道句柄，仿真驱动器默认使用的投递方式
type ChanHandle struct {
	C chan *Message.NodeMsg
}

func NewChanHandle() *ChanHandle {
	return &ChanHandle{
		C: make(chan *Message.NodeMsg, ChanHandleBuffer),
	}
}

func (ch *ChanHandle) Send(msg *Message.NodeMsg) error {

	select {
	case ch.C <- msg:
		return nil
	default:
		return errors.New("receive channel is full")
	}

}
