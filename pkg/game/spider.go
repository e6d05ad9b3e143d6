package game

import (
	"fmt"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

const (
	spiderColumns    = 10
	spiderSuitsToWin = 8
)

// spiderRules 蜘蛛纸牌（单花色版）：两副全黑桃共 104 张，收齐 8 组 K-A 获胜
type spiderRules struct {
	baseRules
}

func (spiderRules) Variant() Variant { return Spider }
func (spiderRules) Copies() int      { return 2 }

func (spiderRules) NewDeck() (*card.Deck, error) { return card.NewSuitDeck(card.Spades, 2) }

func (spiderRules) Layout() Layout {
	return Layout{Tableau: spiderColumns}
}

// Deal 前 4 列各 6 张，后 6 列各 5 张，只翻开最后一张；其余 50 张进入牌库
func (spiderRules) Deal(t *Table, d *card.Deck) error {
	for col := 0; col < spiderColumns; col++ {
		n := 5
		if col < 4 {
			n = 6
		}
		for i := 0; i < n; i++ {
			if err := dealTo(d, &t.Tableau[col], i == n-1); err != nil {
				return fmt.Errorf("deal spider: %w", err)
			}
		}
	}
	for d.Remaining() > 0 {
		if err := dealTo(d, &t.Stock, false); err != nil {
			return fmt.Errorf("deal spider: %w", err)
		}
	}
	return checkConsumed(Spider, d)
}

// CanPick 只能选取同花色、点数连续递减的一串牌
func (spiderRules) CanPick(t *Table, from models.Locator) ([]*card.Card, bool) {
	if from.Kind != models.PileTableau {
		return nil, false
	}
	run, ok := pickCommon(t, from, pickOptions{})
	if !ok || !sameSuitDescending(run) {
		return nil, false
	}
	return run, true
}

func (spiderRules) CanFoundation([]*card.Card, card.Pile) bool { return false }

// CanTableau 目标为空列或顶牌点数正好大 1，不看花色
func (spiderRules) CanTableau(run []*card.Card, dst card.Pile) bool {
	if len(run) == 0 {
		return false
	}
	top := dst.Top()
	if top == nil {
		return true
	}
	return top.FaceUp && run[0].Value() == top.Value()-1
}

// DealStock 牌库至少 10 张时向每列发一张正面朝上的牌
func (r spiderRules) DealStock(t *Table) bool {
	if t.Stock.Len() < spiderColumns {
		return false
	}
	for i := range t.Tableau {
		c := t.Stock.PopN(1)[0]
		c.FaceUp = true
		t.Tableau[i].Push(c)
	}
	r.AfterMove(t)
	return true
}

// AfterMove 收走每列末尾完整的 K-A 同花色整组，并翻开新的顶牌
func (spiderRules) AfterMove(t *Table) {
	for i := range t.Tableau {
		pile := &t.Tableau[i]
		if !completeRun(*pile) {
			continue
		}
		t.Completed = append(t.Completed, card.Pile(pile.PopN(card.RanksPerSuit)))
		pile.RevealTop()
	}
}

func (spiderRules) Won(t *Table) bool {
	return len(t.Completed) == spiderSuitsToWin
}

// sameSuitDescending 判断一串牌是否同花色且点数逐张减 1
func sameSuitDescending(run []*card.Card) bool {
	for i := 0; i+1 < len(run); i++ {
		if run[i].Suit() != run[i+1].Suit() || run[i].Value() != run[i+1].Value()+1 {
			return false
		}
	}
	return true
}

// completeRun 判断牌堆末尾 13 张是否为正面朝上的同花色 K-A
func completeRun(p card.Pile) bool {
	if p.Len() < card.RanksPerSuit {
		return false
	}
	tail := p[p.Len()-card.RanksPerSuit:]
	if tail[0].Rank() != card.King || tail[len(tail)-1].Rank() != card.Ace {
		return false
	}
	// 整组必须全部翻开，含背面朝上的牌时不收取
	for _, c := range tail {
		if !c.FaceUp {
			return false
		}
	}
	return sameSuitDescending(tail)
}
