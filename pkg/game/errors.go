package game

import "errors"

// ==================== 错误定义 ====================
var (
	ErrInvalidMove    = errors.New("非法移动")
	ErrEmptySelection = errors.New("没有选中的牌")
	ErrUnknownVariant = errors.New("未知玩法")
	ErrGameOver       = errors.New("牌局已结束")
	ErrNoGame         = errors.New("尚未开始牌局")
	ErrInvalidTable   = errors.New("牌桌与玩法布局不符")
)
