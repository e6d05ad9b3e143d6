package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// yukonRules 育空：没有牌库，任何正面朝上的牌连同其上方的牌都可以一起移动
type yukonRules struct {
	baseRules
}

func (yukonRules) Variant() Variant { return Yukon }
func (yukonRules) Copies() int      { return 1 }

func (yukonRules) NewDeck() (*card.Deck, error) { return card.NewDeck(1) }

func (yukonRules) Layout() Layout {
	return Layout{Foundations: 4, Tableau: 7}
}

// Deal 第 0 列一张正面；第 j 列按金字塔发 j 张只翻开最后一张；
// 剩余 30 张正面朝上轮流发到第 1-6 列
func (yukonRules) Deal(t *Table, d *card.Deck) error {
	if err := dealTo(d, &t.Tableau[0], true); err != nil {
		return fmt.Errorf("deal yukon: %w", err)
	}
	for i := 1; i < 7; i++ {
		for j := i; j < 7; j++ {
			if err := dealTo(d, &t.Tableau[j], i == j); err != nil {
				return fmt.Errorf("deal yukon: %w", err)
			}
		}
	}
	col := 1
	for d.Remaining() > 0 {
		if err := dealTo(d, &t.Tableau[col], true); err != nil {
			return fmt.Errorf("deal yukon: %w", err)
		}
		col++
		if col > 6 {
			col = 1
		}
	}
	return checkConsumed(Yukon, d)
}

func (yukonRules) CanPick(t *Table, from models.Locator) ([]*card.Card, bool) {
	return pickCommon(t, from, pickOptions{foundation: true})
}

func (yukonRules) CanFoundation(run []*card.Card, f card.Pile) bool {
	return ascendingFoundation(run, f)
}

// CanTableau 只检查被拖动的第一张牌，上方的牌不要求成序
func (yukonRules) CanTableau(run []*card.Card, dst card.Pile) bool {
	return alternatingTableau(run, dst)
}

func (yukonRules) Won(t *Table) bool {
	return t.FoundationsComplete()
}
