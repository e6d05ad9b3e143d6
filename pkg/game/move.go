package game

import (
	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// 通用移动流程：选取连续牌 -> 按目标类型调用玩法判定 -> 提交或放弃。
// 点击选择和拖放两种交互方式都走这里。

// pickRun 选取 from 处的连续牌，定位中的 -1 会被解释为顶牌
func pickRun(t *Table, r Rules, from models.Locator) (models.Locator, []*card.Card, bool) {
	from = t.resolve(from)
	run, ok := r.CanPick(t, from)
	if !ok || len(run) == 0 {
		return from, nil, false
	}
	return from, run, true
}

// canDrop 判断已选取的连续牌能否放到 to
func canDrop(t *Table, r Rules, from, to models.Locator, run []*card.Card) bool {
	if !t.validIndex(to) || sameSource(from, to) {
		return false
	}
	switch to.Kind {
	case models.PileFoundation:
		return r.CanFoundation(run, t.Foundations[to.Index])
	case models.PileTableau:
		return r.CanTableau(run, t.Tableau[to.Index])
	case models.PileFreeCell:
		return r.CanFreeCell(run, t.FreeCells[to.Index])
	}
	return false
}

// sameSource 目标与来源是同一个牌堆
func sameSource(from, to models.Locator) bool {
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case models.PileStock, models.PileWaste:
		return true
	}
	return from.Index == to.Index
}

// commit 从来源移除连续牌（必要时翻开新的顶牌）并放到目标
func commit(t *Table, r Rules, from, to models.Locator) {
	var run []*card.Card
	switch from.Kind {
	case models.PileWaste:
		run = t.Waste.PopN(1)
	case models.PileFoundation:
		run = t.Foundations[from.Index].PopN(1)
	case models.PileFreeCell:
		run = []*card.Card{t.FreeCells[from.Index]}
		t.FreeCells[from.Index] = nil
	case models.PileTableau:
		run = t.Tableau[from.Index].PopFrom(from.Card)
		t.Tableau[from.Index].RevealTop()
	}

	switch to.Kind {
	case models.PileFoundation:
		t.Foundations[to.Index].Push(run...)
	case models.PileTableau:
		t.Tableau[to.Index].Push(run...)
	case models.PileFreeCell:
		t.FreeCells[to.Index] = run[0]
	}

	r.AfterMove(t)
}

// applyMove 校验并执行一次移动，失败时牌桌不变
func applyMove(t *Table, r Rules, from, to models.Locator) bool {
	from, run, ok := pickRun(t, r, from)
	if !ok {
		return false
	}
	to = t.resolve(to)
	if !canDrop(t, r, from, to, run) {
		return false
	}
	commit(t, r, from, to)
	return true
}
