package game

import (
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// Hint 是一条可行的指令建议
type Hint struct {
	Action models.ActionType `json:"action"`
	From   models.Locator    `json:"from"`
	To     models.Locator    `json:"to"`
}

// Command 把提示转换成可直接执行的指令
func (h Hint) Command() models.Command {
	return models.Command{Action: h.Action, From: h.From, To: h.To}
}

func (h Hint) String() string {
	return h.Command().String()
}

// Hints 列出当前牌桌上的可行指令，按优先级排序：
// 收到基础堆、牌列之间移动、废牌堆和空当落到牌列、最后是翻牌或发牌。
// 不会建议从基础堆取回，也不会建议来回挪动已经摆好的牌。
func Hints(t *Table, r Rules) []Hint {
	var hints []Hint
	sources := hintSources(t)

	// 收到基础堆
	for _, from := range sources {
		for i := range t.Foundations {
			to := models.Foundation(i)
			if legalMove(t, r, from, to) {
				hints = append(hints, Hint{Action: models.ActionMove, From: from, To: to})
				break
			}
		}
	}

	// 牌列之间
	for col, pile := range t.Tableau {
		for idx := 0; idx < pile.Len(); idx++ {
			if !pile[idx].FaceUp {
				continue
			}
			// 已经摆在合法位置上的牌不再挪动
			if idx > 0 && pile[idx-1].FaceUp && r.CanTableau(pile[idx:], pile[:idx]) {
				continue
			}
			from := models.Tableau(col, idx)
			for dst := range t.Tableau {
				// 整列移到空列没有意义
				if idx == 0 && t.Tableau[dst].Empty() {
					continue
				}
				to := models.Tableau(dst, -1)
				if legalMove(t, r, from, to) {
					hints = append(hints, Hint{Action: models.ActionMove, From: from, To: to})
				}
			}
		}
	}

	// 废牌堆和空当落到牌列
	for _, from := range sources {
		if from.Kind == models.PileTableau {
			continue
		}
		for dst := range t.Tableau {
			to := models.Tableau(dst, -1)
			if legalMove(t, r, from, to) {
				hints = append(hints, Hint{Action: models.ActionMove, From: from, To: to})
				break
			}
		}
	}

	switch r.Variant() {
	case Klondike:
		if !t.Stock.Empty() || !t.Waste.Empty() {
			hints = append(hints, Hint{Action: models.ActionDraw})
		}
	case Spider:
		if t.Stock.Len() >= spiderColumns {
			hints = append(hints, Hint{Action: models.ActionDeal})
		}
	}
	return hints
}

// hintSources 返回可作为单张来源的位置：废牌堆顶、空当和各列顶牌
func hintSources(t *Table) []models.Locator {
	var sources []models.Locator
	if !t.Waste.Empty() {
		sources = append(sources, models.Waste())
	}
	for i, c := range t.FreeCells {
		if c != nil {
			sources = append(sources, models.FreeCell(i))
		}
	}
	for i, p := range t.Tableau {
		if !p.Empty() {
			sources = append(sources, models.Tableau(i, p.Len()-1))
		}
	}
	return sources
}

// legalMove 判断一次移动是否合法，不修改牌桌
func legalMove(t *Table, r Rules, from, to models.Locator) bool {
	from, run, ok := pickRun(t, r, from)
	if !ok {
		return false
	}
	return canDrop(t, r, from, t.resolve(to), run)
}
