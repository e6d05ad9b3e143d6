package protocol

import (
	"errors"
	"time"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// MessageType 表示消息类型
type MessageType string

const (
	// 客户端 -> 服务器消息类型
	MsgTypeNewGame MessageType = "new_game" // 开新局
	MsgTypeCommand MessageType = "command"  // 执行指令
	MsgTypeHint    MessageType = "hint"     // 请求提示（服务器以同名消息响应）
	MsgTypePing    MessageType = "ping"     // 心跳检测

	// 服务器 -> 客户端消息类型
	MsgTypeWelcome   MessageType = "welcome"    // 连接确认
	MsgTypeGameState MessageType = "game_state" // 牌局状态更新
	MsgTypeRejected  MessageType = "rejected"   // 指令被拒绝
	MsgTypeGameWon   MessageType = "game_won"   // 牌局获胜
	MsgTypePong      MessageType = "pong"       // 心跳响应
	MsgTypeError     MessageType = "error"      // 错误消息
)

// 错误代码
const (
	CodeInvalidFormat  = 1001 // 消息格式错误
	CodeUnknownType    = 1002 // 未知消息类型
	CodeUnknownVariant = 1003 // 未知玩法
	CodeNoGame         = 1004 // 尚未开局
	CodeInvalidMove    = 2001 // 非法移动
	CodeEmptySelection = 2002 // 没有选中的牌
	CodeGameOver       = 2003 // 牌局已结束
	CodeInternal       = 5000 // 服务器内部错误
)

// BaseMessage 消息基类
type BaseMessage struct {
	Type      MessageType `json:"type"`      // 消息类型
	Timestamp int64       `json:"timestamp"` // 时间戳
}

// ==================== 客户端 -> 服务器消息 ====================

// NewGameRequest 开新局请求
type NewGameRequest struct {
	BaseMessage
	Variant string `json:"variant"` // 玩法名称
}

// CommandRequest 指令请求
type CommandRequest struct {
	BaseMessage
	Command models.Command `json:"command"` // 指令
}

// HintRequest 提示请求
type HintRequest struct {
	BaseMessage
}

// PingRequest 心跳检测请求
type PingRequest struct {
	BaseMessage
}

// ==================== 服务器 -> 客户端消息 ====================

// Welcome 连接确认，带上当前牌局（如果有）
type Welcome struct {
	BaseMessage
	ClientID string         `json:"client_id"`       // 分配的客户端ID
	Variants []string       `json:"variants"`        // 支持的玩法
	State    *game.Snapshot `json:"state,omitempty"` // 当前牌局
}

// GameState 牌局状态更新
type GameState struct {
	BaseMessage
	State *game.Snapshot `json:"state"` // 牌局快照
}

// Rejected 指令被拒绝，State 为未改变的牌局
type Rejected struct {
	BaseMessage
	Code    int            `json:"code"`            // 错误代码
	Reason  string         `json:"reason"`          // 拒绝原因
	Command models.Command `json:"command"`         // 被拒绝的指令
	State   *game.Snapshot `json:"state,omitempty"` // 当前牌局
}

// GameWon 牌局获胜通知
type GameWon struct {
	BaseMessage
	Moves int            `json:"moves"` // 用了多少步
	State *game.Snapshot `json:"state"` // 最终牌局
}

// Hint 提示响应
type Hint struct {
	BaseMessage
	Found bool       `json:"found"`          // 是否有可行指令
	Hint  *game.Hint `json:"hint,omitempty"` // 建议的指令
}

// Pong 心跳响应
type Pong struct {
	BaseMessage
	ServerTime int64 `json:"server_time"` // 服务器时间
}

// Error 错误消息
type Error struct {
	BaseMessage
	Code    int    `json:"code"`    // 错误代码
	Message string `json:"message"` // 错误描述
}

// ==================== 辅助函数 ====================

// NewBaseMessage 创建带时间戳的基本消息
func NewBaseMessage(msgType MessageType) BaseMessage {
	return BaseMessage{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewNewGameRequest 创建开新局请求
func NewNewGameRequest(variant string) *NewGameRequest {
	return &NewGameRequest{
		BaseMessage: NewBaseMessage(MsgTypeNewGame),
		Variant:     variant,
	}
}

// NewCommandRequest 创建指令请求
func NewCommandRequest(cmd models.Command) *CommandRequest {
	return &CommandRequest{
		BaseMessage: NewBaseMessage(MsgTypeCommand),
		Command:     cmd,
	}
}

// NewHintRequest 创建提示请求
func NewHintRequest() *HintRequest {
	return &HintRequest{
		BaseMessage: NewBaseMessage(MsgTypeHint),
	}
}

// NewPingRequest 创建心跳检测请求
func NewPingRequest() *PingRequest {
	return &PingRequest{
		BaseMessage: NewBaseMessage(MsgTypePing),
	}
}

// NewGameState 创建状态更新消息
func NewGameState(state *game.Snapshot) *GameState {
	return &GameState{
		BaseMessage: NewBaseMessage(MsgTypeGameState),
		State:       state,
	}
}

// NewRejected 根据引擎返回的错误创建拒绝消息
func NewRejected(cmd models.Command, err error, state *game.Snapshot) *Rejected {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return &Rejected{
		BaseMessage: NewBaseMessage(MsgTypeRejected),
		Code:        CodeFor(err),
		Reason:      reason,
		Command:     cmd,
		State:       state,
	}
}

// NewGameWon 创建获胜消息
func NewGameWon(state *game.Snapshot) *GameWon {
	return &GameWon{
		BaseMessage: NewBaseMessage(MsgTypeGameWon),
		Moves:       state.Moves,
		State:       state,
	}
}

// NewError 创建错误消息
func NewError(code int, message string) *Error {
	return &Error{
		BaseMessage: NewBaseMessage(MsgTypeError),
		Code:        code,
		Message:     message,
	}
}

// CodeFor 把引擎错误映射为错误代码
func CodeFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		return CodeInvalidMove
	case errors.Is(err, game.ErrEmptySelection):
		return CodeEmptySelection
	case errors.Is(err, game.ErrGameOver):
		return CodeGameOver
	case errors.Is(err, game.ErrNoGame):
		return CodeNoGame
	case errors.Is(err, game.ErrUnknownVariant):
		return CodeUnknownVariant
	}
	return CodeInternal
}
