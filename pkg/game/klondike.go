package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// klondikeRules 克朗代克：7 列，牌库一次翻一张，翻完可从废牌堆回收
type klondikeRules struct {
	baseRules
}

func (klondikeRules) Variant() Variant { return Klondike }
func (klondikeRules) Copies() int      { return 1 }

func (klondikeRules) NewDeck() (*card.Deck, error) { return card.NewDeck(1) }

func (klondikeRules) Layout() Layout {
	return Layout{Foundations: 4, Tableau: 7}
}

// Deal 第 i 列发 i+1 张，只有最后一张正面朝上，其余进入牌库
func (klondikeRules) Deal(t *Table, d *card.Deck) error {
	for i := 0; i < 7; i++ {
		for j := i; j < 7; j++ {
			if err := dealTo(d, &t.Tableau[j], i == j); err != nil {
				return fmt.Errorf("deal klondike: %w", err)
			}
		}
	}
	for d.Remaining() > 0 {
		if err := dealTo(d, &t.Stock, false); err != nil {
			return fmt.Errorf("deal klondike: %w", err)
		}
	}
	return checkConsumed(Klondike, d)
}

func (klondikeRules) CanPick(t *Table, from models.Locator) ([]*card.Card, bool) {
	return pickCommon(t, from, pickOptions{foundation: true})
}

func (klondikeRules) CanFoundation(run []*card.Card, f card.Pile) bool {
	return ascendingFoundation(run, f)
}

func (klondikeRules) CanTableau(run []*card.Card, dst card.Pile) bool {
	return alternatingTableau(run, dst)
}

// DrawStock 牌库有牌时翻一张到废牌堆；牌库空时把废牌堆整体翻回牌库
func (klondikeRules) DrawStock(t *Table) bool {
	if c := t.Stock.PopN(1); c != nil {
		c[0].FaceUp = true
		t.Waste.Push(c[0])
		return true
	}
	if t.Waste.Empty() {
		return false
	}
	for t.Waste.Len() > 0 {
		c := t.Waste.PopN(1)[0]
		c.FaceUp = false
		t.Stock.Push(c)
	}
	return true
}

func (klondikeRules) Won(t *Table) bool {
	return t.FoundationsComplete()
}
