package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// Rules 是每种玩法需要实现的规则接口。
// 所有判定函数都是纯函数，不修改牌桌；修改只发生在 Deal、Draw、Deal Stock 和 AfterMove 中。
type Rules interface {
	Variant() Variant
	// Copies 返回使用的牌副数
	Copies() int
	// NewDeck 创建本玩法使用的未洗牌组
	NewDeck() (*card.Deck, error)
	Layout() Layout
	// Deal 按发牌规则把整副牌发到牌桌上，牌组必须被取空
	Deal(t *Table, d *card.Deck) error
	// CanPick 判断能否从 from 选取，返回被选取的连续牌（不移除）
	CanPick(t *Table, from models.Locator) ([]*card.Card, bool)
	// CanFoundation 判断连续牌能否放到基础堆
	CanFoundation(run []*card.Card, f card.Pile) bool
	// CanTableau 判断连续牌能否放到牌列
	CanTableau(run []*card.Card, dst card.Pile) bool
	// CanFreeCell 判断连续牌能否放到空当
	CanFreeCell(run []*card.Card, slot *card.Card) bool
	// AfterMove 在每次成功移动后执行（蜘蛛纸牌收取整组）
	AfterMove(t *Table)
	// DrawStock 克朗代克从牌库翻一张，失败返回 false
	DrawStock(t *Table) bool
	// DealStock 蜘蛛纸牌从牌库向每列发一张，失败返回 false
	DealStock(t *Table) bool
	// Won 判断是否获胜
	Won(t *Table) bool
}

// baseRules 提供没有特殊动作的默认实现
type baseRules struct{}

func (baseRules) CanFreeCell([]*card.Card, *card.Card) bool { return false }
func (baseRules) AfterMove(*Table)                          {}
func (baseRules) DrawStock(*Table) bool                     { return false }
func (baseRules) DealStock(*Table) bool                     { return false }

// ascendingFoundation 基础堆规则：空堆只接受 A，否则同花色且点数大 1，一次只放一张
func ascendingFoundation(run []*card.Card, f card.Pile) bool {
	if len(run) != 1 {
		return false
	}
	c := run[0]
	top := f.Top()
	if top == nil {
		return c.Rank() == card.Ace
	}
	return c.Suit() == top.Suit() && c.Value() == top.Value()+1
}

// alternatingTableau 牌列规则：空列接受任意牌，否则颜色相反且点数小 1
func alternatingTableau(run []*card.Card, dst card.Pile) bool {
	if len(run) == 0 {
		return false
	}
	top := dst.Top()
	if top == nil {
		return true
	}
	head := run[0]
	return top.FaceUp && head.Color() != top.Color() && head.Value() == top.Value()-1
}

// pickOptions 控制通用选取规则
type pickOptions struct {
	foundation bool // 允许从基础堆取回顶牌
	topOnly    bool // 牌列只能选取顶牌
}

// pickCommon 通用选取：废牌堆顶、空当、基础堆顶和牌列中正面朝上的牌
func pickCommon(t *Table, from models.Locator, opts pickOptions) ([]*card.Card, bool) {
	if !t.validIndex(from) {
		return nil, false
	}
	switch from.Kind {
	case models.PileWaste:
		if top := t.Waste.Top(); top != nil {
			return []*card.Card{top}, true
		}
	case models.PileFoundation:
		if !opts.foundation {
			return nil, false
		}
		if top := t.Foundations[from.Index].Top(); top != nil {
			return []*card.Card{top}, true
		}
	case models.PileFreeCell:
		if c := t.FreeCells[from.Index]; c != nil {
			return []*card.Card{c}, true
		}
	case models.PileTableau:
		pile := t.Tableau[from.Index]
		if from.Card < 0 || from.Card >= pile.Len() {
			return nil, false
		}
		if opts.topOnly && from.Card != pile.Len()-1 {
			return nil, false
		}
		if !pile[from.Card].FaceUp {
			return nil, false
		}
		return pile[from.Card:], true
	}
	return nil, false
}

// dealTo 从牌组取一张牌放到牌堆，faceUp 决定朝向
func dealTo(d *card.Deck, p *card.Pile, faceUp bool) error {
	c, err := d.Draw()
	if err != nil {
		return err
	}
	c.FaceUp = faceUp
	p.Push(c)
	return nil
}

// checkConsumed 确认发牌后牌组已取空
func checkConsumed(v Variant, d *card.Deck) error {
	if d.Remaining() != 0 {
		return fmt.Errorf("deal %s: %d cards left in deck", v, d.Remaining())
	}
	return nil
}
