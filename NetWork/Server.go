package NetWork

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"PBFTSim/ID"
	"PBFTSim/Message"

	"go.uber.org/zap"
	"golang.org/x/net/context"
)

// Server HTTP回环传输服务，接收到的NodeMsg写入接收管道，
// 共识核心不感知传输方式，只通过NodeTable中的句柄投递
type Server struct {
	Logger   *zap.SugaredLogger
	ServerID ID.NodeID

	HttpServer *http.Server
	RecMsgCh   chan *Message.NodeMsg
}

func NewServer(logger *zap.SugaredLogger,
	id ID.NodeID,
	addr string,
	rc chan *Message.NodeMsg) *Server {

	mux := http.NewServeMux()

	server := Server{
		Logger:   logger,
		ServerID: id,
		HttpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		RecMsgCh: rc,
	}

	mux.HandleFunc("/NodeMsg", server.GetNodeMsg)

	return &server
}

func (s *Server) Start() {

	s.Logger.Infof("Server Start Listening AT %s", s.HttpServer.Addr)

	if err := s.HttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.Logger.Errorf("server stopped, err: %v", err)
		return
	}

}

func (s *Server) ShutDown() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.HttpServer.Shutdown(ctx); err != nil {
		s.Logger.Errorf("server shutdown failed, err: %v", err)
		return
	}

	s.Logger.Infof("server gracefully shutdown")

}

func (s *Server) GetNodeMsg(writer http.ResponseWriter, request *http.Request) {

	msg := new(Message.NodeMsg)
	err := json.NewDecoder(request.Body).Decode(msg)
	if err != nil {
		s.Logger.Errorf("decode NodeMsg failed, err: %v", err)
		return
	}
	//读取完数据手动关闭可以提升效率节省资源，避免请求过多带来的问题
	defer request.Body.Close()

	select {
	case s.RecMsgCh <- msg:
		s.Logger.Debugf("%s -> %s %s",
			msg.From,
			msg.To,
			msg.MsgType,
		)
	default:
		s.Logger.Debugf("RecMsgCh is Full")
	}

}

// HTTPHandle 通过HTTP投递消息的句柄，URL为对端Server监听地址
type HTTPHandle struct {
	Logger *zap.SugaredLogger
	URL    string
}

func (h *HTTPHandle) Send(msg *Message.NodeMsg) error {

	data := msg.Marshal()
	buff := bytes.NewBuffer(data)

	res, err := http.Post(h.URL+"/NodeMsg",
		"application/json", buff)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	h.Logger.Debugf("%s -> %s %s",
		msg.From,
		msg.To,
		msg.MsgType,
	)
	return nil
}
