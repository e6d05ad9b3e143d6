package host

import (
	"encoding/json"
	"errors"
	"time"

	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/internal/protocol"
	gamepkg "github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// handleNewGame 处理开新局请求，未指定玩法时使用配置中的默认玩法
func (s *Server) handleNewGame(client *Client, data []byte) {
	var req protocol.NewGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		klog.Warningf("[新局] 解析失败 | 客户端=%s | 错误=%v", client.ID, err)
		s.sendError(client.ID, "Invalid new game request format", protocol.CodeInvalidFormat)
		return
	}

	variant := req.Variant
	if variant == "" {
		variant = s.config.Variant
	}
	s.startGame(client, variant)
}

func (s *Server) startGame(client *Client, variant string) {
	res := client.Session.Execute(models.Command{Action: models.ActionNewGame, Variant: variant})
	if !res.Accepted {
		klog.Warningf("[新局] 失败 | 客户端=%s | 玩法=%q | 错误=%v", client.ID, variant, res.Err)
		s.sendError(client.ID, res.Err.Error(), protocol.CodeFor(res.Err))
		return
	}

	klog.Infof("[新局] 成功 | 客户端=%s | 玩法=%s | 牌局=%s | 种子=%d",
		client.ID, res.State.Variant, res.State.GameID, client.Session.Seed())
}

// handleCommand 处理牌局指令，被接受的结果由观察者推送
func (s *Server) handleCommand(client *Client, data []byte) {
	var req protocol.CommandRequest
	if err := json.Unmarshal(data, &req); err != nil {
		klog.Warningf("[指令] 解析失败 | 客户端=%s | 错误=%v", client.ID, err)
		s.sendError(client.ID, "Invalid command format", protocol.CodeInvalidFormat)
		return
	}

	cmd := req.Command
	if cmd.Action == models.ActionNewGame {
		variant := cmd.Variant
		if variant == "" {
			variant = s.config.Variant
		}
		s.startGame(client, variant)
		return
	}

	start := time.Now()
	res := client.Session.Execute(cmd)
	if !res.Accepted {
		klog.V(2).Infof("[指令] 拒绝 | 客户端=%s | 指令=%s | 原因=%v", client.ID, cmd, res.Err)
		if errors.Is(res.Err, gamepkg.ErrNoGame) {
			s.sendError(client.ID, "No game in progress", protocol.CodeNoGame)
			return
		}
		s.sendToClient(client.ID, protocol.NewRejected(cmd, res.Err, res.State))
		return
	}

	klog.V(2).Infof("[指令] 接受 | 客户端=%s | 指令=%s | 步数=%d | 耗时=%s",
		client.ID, cmd, res.State.Moves, time.Since(start))
}

// handleHint 处理提示请求
func (s *Server) handleHint(client *Client) {
	msg := &protocol.Hint{
		BaseMessage: protocol.NewBaseMessage(protocol.MsgTypeHint),
	}
	if h, ok := client.Session.Hint(); ok {
		msg.Found = true
		msg.Hint = &h
	}
	klog.V(2).Infof("[提示] 客户端=%s | 找到=%v", client.ID, msg.Found)
	s.sendToClient(client.ID, msg)
}

// handlePing 处理心跳检测
func (s *Server) handlePing(client *Client) {
	pong := &protocol.Pong{
		BaseMessage: protocol.NewBaseMessage(protocol.MsgTypePong),
		ServerTime:  time.Now().UnixMilli(),
	}
	s.sendToClient(client.ID, pong)
}
