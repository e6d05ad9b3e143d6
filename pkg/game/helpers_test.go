package game

import (
	"github.com/Daniel-Thornton/Solitaire98/internal/card"
)

func up(s card.Suit, r card.Rank) *card.Card {
	c := card.NewCard(s, r)
	c.FaceUp = true
	return c
}

func down(s card.Suit, r card.Rank) *card.Card {
	return card.NewCard(s, r)
}

// descending 返回从 hi 到 lo 的同花色正面连续牌
func descending(s card.Suit, hi, lo card.Rank) []*card.Card {
	var cards []*card.Card
	for r := hi; r >= lo; r-- {
		cards = append(cards, up(s, r))
	}
	return cards
}

// ascending 返回从 A 到 hi 的同花色正面牌，用于构造基础堆
func ascending(s card.Suit, hi card.Rank) card.Pile {
	var p card.Pile
	for r := card.Ace; r <= hi; r++ {
		p.Push(up(s, r))
	}
	return p
}

func tableFor(v Variant) *Table {
	return NewTable(v.Rules().Layout())
}

func lengths(piles [][]CardView) []int {
	out := make([]int, len(piles))
	for i, p := range piles {
		out[i] = len(p)
	}
	return out
}

func faceDown(s *Snapshot) int {
	n := 0
	count := func(views []CardView) {
		for _, v := range views {
			if !v.FaceUp {
				n++
			}
		}
	}
	count(s.Stock)
	count(s.Waste)
	for _, p := range s.Tableau {
		count(p)
	}
	return n
}
