package client

import (
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// ==================== Bubble Tea 自定义消息类型 ====================

// StateMsg 牌局状态更新消息
type StateMsg struct {
	State *game.Snapshot
}

// RejectedMsg 指令被拒绝消息
type RejectedMsg struct {
	Command models.Command
	Reason  string
}

// WonMsg 获胜消息
type WonMsg struct {
	State *game.Snapshot
}

// HintMsg 提示结果消息
type HintMsg struct {
	Found bool
	Hint  *game.Hint
}

// ErrorMsg 错误消息
type ErrorMsg struct {
	Err error
}

// ConnectedMsg 连接成功消息
type ConnectedMsg struct {
	ClientID string
}

// DisconnectedMsg 断开连接消息
type DisconnectedMsg struct{}
