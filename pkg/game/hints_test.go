package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

func TestHints_FoundationFirst(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Waste.Push(up(card.Hearts, card.Ace))
	tbl.Stock.Push(down(card.Clubs, card.Nine))

	hints := Hints(tbl, Klondike.Rules())
	require.NotEmpty(t, hints)
	assert.Equal(t, Hint{Action: models.ActionMove, From: models.Waste(), To: models.Foundation(0)}, hints[0])
	assert.Equal(t, models.ActionDraw, hints[len(hints)-1].Action)
}

func TestHints_SkipsSettledCards(t *testing.T) {
	tbl := tableFor(Yukon)
	tbl.Tableau[0].Push(up(card.Spades, card.Eight), up(card.Hearts, card.Seven))
	tbl.Tableau[1].Push(up(card.Clubs, card.Eight))

	assert.Empty(t, Hints(tbl, Yukon.Rules()))
}

func TestHints_NoWholeColumnToEmpty(t *testing.T) {
	tbl := tableFor(FreeCell)
	tbl.Tableau[0].Push(up(card.Spades, card.Nine))
	for i := range tbl.FreeCells {
		tbl.FreeCells[i] = up(card.Hearts, card.Rank(i+2))
	}

	for _, h := range Hints(tbl, FreeCell.Rules()) {
		assert.NotEqual(t, models.PileTableau, h.From.Kind, "unexpected hint %s", h)
	}
}

func TestHints_Spider(t *testing.T) {
	tbl := tableFor(Spider)
	tbl.Tableau[0].Push(up(card.Spades, card.Five))
	tbl.Tableau[1].Push(down(card.Spades, card.King), up(card.Spades, card.Four))
	for i := 2; i < spiderColumns; i++ {
		tbl.Tableau[i].Push(up(card.Spades, card.King))
	}
	for i := 0; i < spiderColumns; i++ {
		tbl.Stock.Push(down(card.Spades, card.Queen))
	}

	hints := Hints(tbl, Spider.Rules())
	require.Len(t, hints, 2)
	assert.Equal(t, models.Tableau(1, 1), hints[0].From)
	assert.Equal(t, 0, hints[0].To.Index)
	assert.Equal(t, models.ActionDeal, hints[1].Action)
}

func TestSession_HintIsExecutable(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(up(card.Diamonds, card.Ace))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	h, ok := s.Hint()
	require.True(t, ok)
	assert.Equal(t, "move t0:0 f0", h.String())

	res := s.Execute(h.Command())
	require.True(t, res.Accepted)
	assert.Len(t, res.State.Foundations[0], 1)

	_, ok = s.Hint()
	assert.False(t, ok)
}
