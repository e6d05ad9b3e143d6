package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// freeCellRules 空当接龙：全部正面朝上发到 8 列，4 个空当，每次只移动一张
type freeCellRules struct {
	baseRules
}

func (freeCellRules) Variant() Variant { return FreeCell }
func (freeCellRules) Copies() int      { return 1 }

func (freeCellRules) NewDeck() (*card.Deck, error) { return card.NewDeck(1) }

func (freeCellRules) Layout() Layout {
	return Layout{Foundations: 4, Tableau: 8, FreeCells: 4}
}

// Deal 轮流发到 8 列，前 4 列 7 张，后 4 列 6 张
func (freeCellRules) Deal(t *Table, d *card.Deck) error {
	col := 0
	for d.Remaining() > 0 {
		if err := dealTo(d, &t.Tableau[col], true); err != nil {
			return fmt.Errorf("deal freecell: %w", err)
		}
		col = (col + 1) % 8
	}
	return checkConsumed(FreeCell, d)
}

// CanPick 只能选取牌列顶牌或空当中的牌
func (freeCellRules) CanPick(t *Table, from models.Locator) ([]*card.Card, bool) {
	return pickCommon(t, from, pickOptions{topOnly: true})
}

func (freeCellRules) CanFoundation(run []*card.Card, f card.Pile) bool {
	return ascendingFoundation(run, f)
}

func (freeCellRules) CanTableau(run []*card.Card, dst card.Pile) bool {
	return len(run) == 1 && alternatingTableau(run, dst)
}

// CanFreeCell 空当为空时接受一张牌
func (freeCellRules) CanFreeCell(run []*card.Card, slot *card.Card) bool {
	return len(run) == 1 && slot == nil
}

func (freeCellRules) Won(t *Table) bool {
	return t.FoundationsComplete()
}
