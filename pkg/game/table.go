package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// Layout 描述一种玩法的牌桌结构
type Layout struct {
	Foundations int // 基础堆数量
	Tableau     int // 牌列数量
	FreeCells   int // 空当数量
}

// Table 保存一局牌的全部牌堆，是引擎唯一的状态容器
type Table struct {
	Stock       card.Pile    // 牌库，末尾为顶
	Waste       card.Pile    // 废牌堆
	Foundations []card.Pile  // 基础堆
	Tableau     []card.Pile  // 牌列
	FreeCells   []*card.Card // 空当，nil 表示空
	Completed   []card.Pile  // 蜘蛛纸牌已完成的整组
}

// NewTable 按布局创建空牌桌
func NewTable(l Layout) *Table {
	return &Table{
		Foundations: make([]card.Pile, l.Foundations),
		Tableau:     make([]card.Pile, l.Tableau),
		FreeCells:   make([]*card.Card, l.FreeCells),
	}
}

// checkLayout 确认牌桌的牌堆数量与布局一致
func checkLayout(l Layout, t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	if len(t.Foundations) != l.Foundations || len(t.Tableau) != l.Tableau || len(t.FreeCells) != l.FreeCells {
		return fmt.Errorf("%w: got %d/%d/%d piles, want %d/%d/%d", ErrInvalidTable,
			len(t.Foundations), len(t.Tableau), len(t.FreeCells),
			l.Foundations, l.Tableau, l.FreeCells)
	}
	return nil
}

// CardCount 返回牌桌上所有牌的数量（包括已完成的整组）
func (t *Table) CardCount() int {
	n := t.Stock.Len() + t.Waste.Len()
	for _, p := range t.Foundations {
		n += p.Len()
	}
	for _, p := range t.Tableau {
		n += p.Len()
	}
	for _, p := range t.Completed {
		n += p.Len()
	}
	for _, c := range t.FreeCells {
		if c != nil {
			n++
		}
	}
	return n
}

// FoundationsComplete 判断所有基础堆是否都已收齐 A-K
func (t *Table) FoundationsComplete() bool {
	if len(t.Foundations) == 0 {
		return false
	}
	for _, f := range t.Foundations {
		if f.Len() != card.RanksPerSuit {
			return false
		}
	}
	return true
}

// resolve 把牌列定位中的 -1 解释为顶牌
func (t *Table) resolve(loc models.Locator) models.Locator {
	if loc.Kind == models.PileTableau && loc.Card < 0 && t.validIndex(loc) {
		loc.Card = t.Tableau[loc.Index].Len() - 1
	}
	return loc
}

// validIndex 判断定位下标是否在牌桌范围内
func (t *Table) validIndex(loc models.Locator) bool {
	switch loc.Kind {
	case models.PileStock, models.PileWaste:
		return true
	case models.PileFoundation:
		return loc.Index >= 0 && loc.Index < len(t.Foundations)
	case models.PileTableau:
		return loc.Index >= 0 && loc.Index < len(t.Tableau)
	case models.PileFreeCell:
		return loc.Index >= 0 && loc.Index < len(t.FreeCells)
	}
	return false
}
