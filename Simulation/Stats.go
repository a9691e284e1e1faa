package Simulation

import (
	"time"

	"PBFTSim/Message"

	maths "github.com/ematvey/go-fn/fn"
	"go.uber.org/zap"
)

// Stats 单轮消息统计：按类型计数与平均投递延迟
type Stats struct {
	MsgCount map[string]int

	latencies []float64
}

func NewStats() *Stats {
	return &Stats{
		MsgCount:  make(map[string]int),
		latencies: make([]float64, 0),
	}
}

// Observe 在消息被处理时采样，延迟为消息构造到被处理的毫秒差
func (st *Stats) Observe(msg *Message.NodeMsg) {

	st.MsgCount[msg.MsgType]++
	latency := float64(time.Now().UnixNano()-msg.TimeStamp) / 1e6
	st.latencies = append(st.latencies, latency)

}

func (st *Stats) TotalMsgs() int {

	total := 0
	for _, v := range st.MsgCount {
		total = total + v
	}

	return total
}

func (st *Stats) AverageLatency() float64 {

	if len(st.latencies) == 0 {
		return 0
	}

	return maths.ArithMean(&maths.Vector{
		A: st.latencies,
		L: len(st.latencies),
	})
}

func (st *Stats) Report(logger *zap.SugaredLogger) {

	logger.Infof("Round Messages: %d, PrePrepare: %d, Prepare: %d, Commit: %d",
		st.TotalMsgs(),
		st.MsgCount[Message.PrePrepare],
		st.MsgCount[Message.Prepare],
		st.MsgCount[Message.Commit],
	)
	logger.Infof("Average Delivery Latency: %f ms", st.AverageLatency())

}
