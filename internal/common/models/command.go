package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PileKind 表示牌堆类型
type PileKind int

const (
	PileNone       PileKind = iota // 未指定
	PileStock                      // 牌库
	PileWaste                      // 废牌堆
	PileFoundation                 // 基础堆
	PileTableau                    // 牌列
	PileFreeCell                   // 空当
)

var pileKindNames = []string{"none", "stock", "waste", "foundation", "tableau", "freecell"}
var pileKindShort = []string{"-", "s", "w", "f", "t", "c"}

func (k PileKind) String() string {
	if k >= 0 && int(k) < len(pileKindNames) {
		return pileKindNames[k]
	}
	return "unknown"
}

// ShortName 返回牌堆类型的单字母缩写
func (k PileKind) ShortName() string {
	if k >= 0 && int(k) < len(pileKindShort) {
		return pileKindShort[k]
	}
	return "?"
}

// MarshalText 以名称形式序列化
func (k PileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 从名称解析
func (k *PileKind) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range pileKindNames {
		if name == s || pileKindShort[i] == s {
			*k = PileKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pile kind %q", s)
}

// Locator 定位一个牌堆，以及牌列中被选中连续牌的起始下标
type Locator struct {
	Kind  PileKind `json:"kind"`           // 牌堆类型
	Index int      `json:"index"`          // 第几个牌堆/空当
	Card  int      `json:"card,omitempty"` // 牌列中连续牌的起始下标，其他牌堆忽略
}

// Stock 牌库定位
func Stock() Locator { return Locator{Kind: PileStock} }

// Waste 废牌堆定位
func Waste() Locator { return Locator{Kind: PileWaste} }

// Foundation 第 i 个基础堆
func Foundation(i int) Locator { return Locator{Kind: PileFoundation, Index: i} }

// Tableau 第 i 列，从第 card 张牌开始
func Tableau(i, card int) Locator { return Locator{Kind: PileTableau, Index: i, Card: card} }

// FreeCell 第 i 个空当
func FreeCell(i int) Locator { return Locator{Kind: PileFreeCell, Index: i} }

// String 返回 "t3:5"、"f0"、"w" 形式
func (l Locator) String() string {
	switch l.Kind {
	case PileStock, PileWaste:
		return l.Kind.ShortName()
	case PileTableau:
		return fmt.Sprintf("t%d:%d", l.Index, l.Card)
	case PileNone:
		return "-"
	default:
		return fmt.Sprintf("%s%d", l.Kind.ShortName(), l.Index)
	}
}

// ParseLocator 解析 "s"、"w"、"f2"、"c0"、"t4"、"t4:3" 形式的定位。
// 牌列未给出起始下标时 Card 为 -1，由调用方解释为顶牌。
func ParseLocator(s string) (Locator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	var kind PileKind
	if err := kind.UnmarshalText([]byte(s[:1])); err != nil || kind == PileNone {
		return Locator{}, fmt.Errorf("invalid locator %q", s)
	}
	loc := Locator{Kind: kind}
	rest := s[1:]

	if kind == PileStock || kind == PileWaste {
		if rest != "" {
			return Locator{}, fmt.Errorf("invalid locator %q", s)
		}
		return loc, nil
	}

	idxPart, cardPart, hasCard := strings.Cut(rest, ":")
	idx, err := strconv.Atoi(idxPart)
	if err != nil || idx < 0 {
		return Locator{}, fmt.Errorf("invalid index in locator %q", s)
	}
	loc.Index = idx

	if kind == PileTableau {
		loc.Card = -1
		if hasCard {
			c, err := strconv.Atoi(cardPart)
			if err != nil || c < 0 {
				return Locator{}, fmt.Errorf("invalid card index in locator %q", s)
			}
			loc.Card = c
		}
	} else if hasCard {
		return Locator{}, fmt.Errorf("invalid locator %q", s)
	}
	return loc, nil
}

// ActionType 表示一次操作的类型
type ActionType int

const (
	ActionPick    ActionType = iota // 选取
	ActionDrop                      // 放下
	ActionMove                      // 选取并放下
	ActionDraw                      // 从牌库翻牌（克朗代克）
	ActionDeal                      // 从牌库发一轮（蜘蛛）
	ActionCancel                    // 取消选择
	ActionNewGame                   // 开新局
)

var actionNames = []string{"pick", "drop", "move", "draw", "deal", "cancel", "new_game"}
var actionDisplay = []string{"选取", "放下", "移动", "翻牌", "发牌", "取消", "新局"}

func (a ActionType) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// DisplayName 返回动作的中文名称
func (a ActionType) DisplayName() string {
	if a >= 0 && int(a) < len(actionDisplay) {
		return actionDisplay[a]
	}
	return "未知"
}

// Mutating 判断动作是否会改变牌局
func (a ActionType) Mutating() bool {
	switch a {
	case ActionDrop, ActionMove, ActionDraw, ActionDeal:
		return true
	}
	return false
}

// MarshalText 以名称形式序列化
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 从名称解析
func (a *ActionType) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range actionNames {
		if name == s {
			*a = ActionType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", s)
}

// Command 表示调用方发给引擎的一条指令
type Command struct {
	Action  ActionType `json:"action"`            // 动作
	From    Locator    `json:"from"`              // 来源（pick/move）
	To      Locator    `json:"to"`                // 目标（drop/move）
	Variant string     `json:"variant,omitempty"` // 新局的玩法名称
}

// String 返回指令的简短描述
func (c Command) String() string {
	switch c.Action {
	case ActionPick:
		return fmt.Sprintf("pick %s", c.From)
	case ActionDrop:
		return fmt.Sprintf("drop %s", c.To)
	case ActionMove:
		return fmt.Sprintf("move %s %s", c.From, c.To)
	case ActionNewGame:
		return fmt.Sprintf("new_game %s", c.Variant)
	default:
		return c.Action.String()
	}
}

// ParseCommand 解析文本指令，例如 "move t3:4 f0"、"pick w"、"draw"、"new spider"
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	var cmd Command
	switch fields[0] {
	case "new", "new_game":
		cmd.Action = ActionNewGame
		if len(fields) > 1 {
			cmd.Variant = fields[1]
		}
		return cmd, nil
	}

	if err := cmd.Action.UnmarshalText([]byte(fields[0])); err != nil {
		return Command{}, err
	}

	want := 0
	switch cmd.Action {
	case ActionPick, ActionDrop:
		want = 1
	case ActionMove:
		want = 2
	}
	if len(fields)-1 != want {
		return Command{}, fmt.Errorf("%s expects %d locator(s), got %d", cmd.Action, want, len(fields)-1)
	}

	var err error
	switch cmd.Action {
	case ActionPick:
		cmd.From, err = ParseLocator(fields[1])
	case ActionDrop:
		cmd.To, err = ParseLocator(fields[1])
	case ActionMove:
		if cmd.From, err = ParseLocator(fields[1]); err == nil {
			cmd.To, err = ParseLocator(fields[2])
		}
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}
