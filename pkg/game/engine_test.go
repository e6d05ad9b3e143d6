package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// ==================== 开局测试 ====================

func TestSession_NoGame(t *testing.T) {
	s := NewSession()

	res := s.DrawFromStock()
	if res.Accepted {
		t.Fatal("expected command to be rejected before any game")
	}
	if !errors.Is(res.Err, ErrNoGame) {
		t.Errorf("expected ErrNoGame, got %v", res.Err)
	}
	if s.Snapshot() != nil {
		t.Error("expected nil snapshot before any game")
	}
	if _, ok := s.Hint(); ok {
		t.Error("expected no hint before any game")
	}
}

func TestSession_StartNamed_Unknown(t *testing.T) {
	s := NewSession()

	_, err := s.StartNamed("pyramid")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
	_, err = s.StartGame(Variant(99))
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestSession_StartNamed_CaseInsensitive(t *testing.T) {
	s := NewSession(WithSeed(1))

	state, err := s.StartNamed("FreeCell")
	require.NoError(t, err)
	assert.Equal(t, FreeCell, state.Variant)
	assert.NotEmpty(t, state.GameID)
}

func TestSession_NewGameCommand(t *testing.T) {
	s := NewSession(WithSeed(1))

	res := s.Execute(models.Command{Action: models.ActionNewGame, Variant: "spider"})
	require.True(t, res.Accepted)
	assert.Equal(t, Spider, res.State.Variant)

	res = s.Execute(models.Command{Action: models.ActionNewGame, Variant: "solitaire"})
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrUnknownVariant)

	// 失败的新局指令不影响当前牌局
	v, ok := s.Variant()
	assert.True(t, ok)
	assert.Equal(t, Spider, v)
}

func TestSession_StartGame_DiscardsPreviousGame(t *testing.T) {
	s := NewSession(WithSeed(3))

	first, err := s.StartGame(Klondike)
	require.NoError(t, err)
	second, err := s.StartGame(Yukon)
	require.NoError(t, err)

	assert.NotEqual(t, first.GameID, second.GameID)
	assert.Equal(t, Yukon, second.Variant)
	assert.Empty(t, second.Stock)
	assert.Zero(t, second.Moves)
}

func TestSession_SameSeedSameDeal(t *testing.T) {
	a := NewSession(WithSeed(42))
	b := NewSession(WithSeed(42))

	sa, err := a.StartGame(Klondike)
	require.NoError(t, err)
	sb, err := b.StartGame(Klondike)
	require.NoError(t, err)

	assert.Equal(t, sa.Tableau, sb.Tableau)
	assert.Equal(t, a.Seed(), b.Seed())
}

func TestSession_WithRandMatchesSeed(t *testing.T) {
	a := NewSession(WithRand(rand.NewSource(42)))
	b := NewSession(WithSeed(42))

	sa, err := a.StartGame(Spider)
	require.NoError(t, err)
	sb, err := b.StartGame(Spider)
	require.NoError(t, err)

	assert.Equal(t, sa.Tableau, sb.Tableau)
	assert.Equal(t, sa.Stock, sb.Stock)
}

// ==================== 发牌结构测试 ====================

func TestDeal_FreeCellRoundRobin(t *testing.T) {
	cards := make([]*card.Card, 0, 9)
	for r := card.Ace; r <= card.Nine; r++ {
		cards = append(cards, card.NewCard(card.Clubs, r))
	}
	tbl := tableFor(FreeCell)
	require.NoError(t, FreeCell.Rules().Deal(tbl, card.NewDeckFromCards(cards)))

	// 牌组末尾先发，第 9 张回到第 0 列
	require.Len(t, tbl.Tableau[0], 2)
	assert.Equal(t, card.Nine, tbl.Tableau[0][0].Rank())
	assert.Equal(t, card.Ace, tbl.Tableau[0][1].Rank())
	assert.Equal(t, card.Two, tbl.Tableau[7][0].Rank())
	assert.True(t, tbl.Tableau[7][0].FaceUp)
}

func TestDeal_ShortDeckFails(t *testing.T) {
	deck := card.NewDeckFromCards([]*card.Card{card.NewCard(card.Hearts, card.King)})
	err := Klondike.Rules().Deal(tableFor(Klondike), deck)
	assert.Error(t, err)
}

func TestDeal_Klondike(t *testing.T) {
	s := NewSession(WithSeed(10))
	state, err := s.StartGame(Klondike)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, lengths(state.Tableau))
	for col, pile := range state.Tableau {
		for i, v := range pile {
			if v.FaceUp != (i == len(pile)-1) {
				t.Errorf("column %d card %d: unexpected face up = %v", col, i, v.FaceUp)
			}
		}
	}
	assert.Len(t, state.Stock, 24)
	assert.Empty(t, state.Waste)
	assert.Len(t, state.Foundations, 4)
	assert.Equal(t, 52, state.CardCount())
}

func TestDeal_FreeCell(t *testing.T) {
	s := NewSession(WithSeed(10))
	state, err := s.StartGame(FreeCell)
	require.NoError(t, err)

	assert.Equal(t, []int{7, 7, 7, 7, 6, 6, 6, 6}, lengths(state.Tableau))
	for _, pile := range state.Tableau {
		for _, v := range pile {
			assert.True(t, v.FaceUp)
		}
	}
	assert.Len(t, state.FreeCells, 4)
	for _, c := range state.FreeCells {
		assert.Nil(t, c)
	}
	assert.Empty(t, state.Stock)
	assert.Equal(t, 52, state.CardCount())
}

func TestDeal_Spider(t *testing.T) {
	s := NewSession(WithSeed(10))
	state, err := s.StartGame(Spider)
	require.NoError(t, err)

	assert.Equal(t, []int{6, 6, 6, 6, 5, 5, 5, 5, 5, 5}, lengths(state.Tableau))
	for col, pile := range state.Tableau {
		for i, v := range pile {
			if v.FaceUp != (i == len(pile)-1) {
				t.Errorf("column %d card %d: unexpected face up = %v", col, i, v.FaceUp)
			}
			if v.FaceUp && v.Suit != card.Spades {
				t.Errorf("column %d: expected spades only, got %s", col, v)
			}
		}
	}
	assert.Len(t, state.Stock, 50)
	assert.Empty(t, state.Foundations)
	assert.Equal(t, 104, state.CardCount())
}

func TestDeal_Yukon(t *testing.T) {
	s := NewSession(WithSeed(10))
	state, err := s.StartGame(Yukon)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 6, 7, 8, 9, 10, 11}, lengths(state.Tableau))
	for col, pile := range state.Tableau {
		hidden := 0
		for _, v := range pile {
			if !v.FaceUp {
				hidden++
			}
		}
		want := col - 1
		if col == 0 {
			want = 0
		}
		if hidden != want {
			t.Errorf("column %d: expected %d face-down cards, got %d", col, want, hidden)
		}
		// 背面朝上的牌都在底部
		for i := 0; i < hidden; i++ {
			assert.False(t, pile[i].FaceUp)
		}
	}
	assert.Empty(t, state.Stock)
	assert.Equal(t, 52, state.CardCount())
}

func TestSnapshot_HidesFaceDownCards(t *testing.T) {
	s := NewSession(WithSeed(5))
	state, err := s.StartGame(Klondike)
	require.NoError(t, err)

	assert.Equal(t, CardView{}, state.Tableau[6][0])
	assert.Equal(t, "??", state.Tableau[6][0].String())
	assert.NotEqual(t, CardView{}, state.Tableau[6][6])
}

func TestSnapshot_IsCopy(t *testing.T) {
	s := NewSession(WithSeed(5))
	state, err := s.StartGame(FreeCell)
	require.NoError(t, err)

	state.Tableau[0] = nil
	state.Foundations = nil

	again := s.Snapshot()
	assert.Len(t, again.Tableau[0], 7)
	assert.Len(t, again.Foundations, 4)
}

// ==================== 指令测试 ====================

// 场景 A：空基础堆拒绝 2，接受 A，随后接受同花色的 2
func TestScenario_KlondikeFoundation(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Waste.Push(up(card.Hearts, card.Ace))
	tbl.Tableau[0].Push(up(card.Hearts, card.Two))
	tbl.Tableau[1].Push(up(card.Spades, card.Three))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(0, -1), models.Foundation(0))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrInvalidMove)

	res = s.Move(models.Waste(), models.Foundation(0))
	require.True(t, res.Accepted)
	assert.Equal(t, []CardView{{Suit: card.Hearts, Rank: card.Ace, FaceUp: true}}, res.State.Foundations[0])

	res = s.Move(models.Tableau(0, -1), models.Foundation(0))
	require.True(t, res.Accepted)
	assert.Len(t, res.State.Foundations[0], 2)
	assert.Equal(t, card.Two, res.State.Foundations[0][1].Rank)

	// 黑桃 3 不能放到红心基础堆
	res = s.Move(models.Tableau(1, -1), models.Foundation(0))
	assert.False(t, res.Accepted)
	assert.Equal(t, 2, res.State.Moves)
}

// 场景 B：空当接龙收齐四组后获胜，之后不再接受指令
func TestScenario_FreeCellWin(t *testing.T) {
	tbl := tableFor(FreeCell)
	for i, suit := range card.Suits {
		tbl.Foundations[i] = ascending(suit, card.Queen)
	}
	tbl.Tableau[0].Push(up(card.Spades, card.King))
	tbl.FreeCells[0] = up(card.Hearts, card.King)
	tbl.Tableau[1].Push(up(card.Clubs, card.King))
	tbl.Tableau[2].Push(up(card.Diamonds, card.King))

	wins := 0
	s := NewSession(WithObserver(ObserverFuncs{
		GameWon: func(*Snapshot) { wins++ },
	}))
	_, err := s.StartWithTable(FreeCell, tbl)
	require.NoError(t, err)

	moves := []struct{ from, to models.Locator }{
		{models.Tableau(0, -1), models.Foundation(0)},
		{models.FreeCell(0), models.Foundation(1)},
		{models.Tableau(1, -1), models.Foundation(2)},
	}
	for _, m := range moves {
		res := s.Move(m.from, m.to)
		require.True(t, res.Accepted, "move %s -> %s", m.from, m.to)
		require.False(t, res.Won)
	}

	res := s.Move(models.Tableau(2, -1), models.Foundation(3))
	require.True(t, res.Accepted)
	assert.True(t, res.Won)
	assert.True(t, res.State.Won)
	assert.True(t, s.Won())
	assert.Equal(t, 1, wins)

	res = s.Move(models.Foundation(0), models.FreeCell(1))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrGameOver)

	res = s.Pick(models.Foundation(3))
	assert.ErrorIs(t, res.Err, ErrGameOver)
	assert.Equal(t, 1, wins)

	_, ok := s.Hint()
	assert.False(t, ok)
}

// 场景 C：蜘蛛纸牌凑齐 K-A 后整组移除，完成数加 1
func TestScenario_SpiderCompletion(t *testing.T) {
	tbl := tableFor(Spider)
	tbl.Tableau[0].Push(down(card.Spades, card.Five))
	tbl.Tableau[0].Push(descending(card.Spades, card.King, card.Two)...)
	tbl.Tableau[1].Push(up(card.Spades, card.Ace))
	tbl.Tableau[2].Push(up(card.Spades, card.Nine))

	s := NewSession()
	before, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)
	require.Zero(t, before.CompletedRuns)

	res := s.Move(models.Tableau(1, -1), models.Tableau(0, -1))
	require.True(t, res.Accepted)
	assert.Equal(t, 1, res.State.CompletedRuns)
	assert.Empty(t, res.State.Tableau[1])
	require.Len(t, res.State.Tableau[0], 1)
	assert.Equal(t, CardView{Suit: card.Spades, Rank: card.Five, FaceUp: true}, res.State.Tableau[0][0])
	assert.Equal(t, before.CardCount(), res.State.CardCount())
	assert.False(t, res.Won)
}

func TestSpider_WinAfterEightRuns(t *testing.T) {
	tbl := tableFor(Spider)
	for i := 0; i < spiderSuitsToWin-1; i++ {
		tbl.Completed = append(tbl.Completed, card.Pile(descending(card.Spades, card.King, card.Ace)))
	}
	tbl.Tableau[0].Push(descending(card.Spades, card.King, card.Two)...)
	tbl.Tableau[1].Push(up(card.Spades, card.Ace))

	s := NewSession()
	_, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(1, 0), models.Tableau(0, -1))
	require.True(t, res.Accepted)
	assert.True(t, res.Won)
	assert.Equal(t, spiderSuitsToWin, res.State.CompletedRuns)
}

func TestSpider_PickRequiresSameSuitRun(t *testing.T) {
	tbl := tableFor(Spider)
	tbl.Tableau[0].Push(up(card.Spades, card.Nine), up(card.Hearts, card.Eight))
	tbl.Tableau[1].Push(up(card.Spades, card.Ten))

	s := NewSession()
	_, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)

	res := s.Pick(models.Tableau(0, 0))
	assert.False(t, res.Accepted)

	res = s.Move(models.Tableau(0, 1), models.Tableau(1, -1))
	assert.False(t, res.Accepted)
	res = s.Move(models.Tableau(0, 0), models.Tableau(2, -1))
	assert.False(t, res.Accepted)
}

func TestSpider_DealFromStock(t *testing.T) {
	s := NewSession(WithSeed(8))
	_, err := s.StartGame(Spider)
	require.NoError(t, err)

	res := s.DealFromStock()
	require.True(t, res.Accepted)
	assert.Len(t, res.State.Stock, 40)
	assert.Equal(t, []int{7, 7, 7, 7, 6, 6, 6, 6, 6, 6}, lengths(res.State.Tableau))
	for _, pile := range res.State.Tableau {
		assert.True(t, pile[len(pile)-1].FaceUp)
	}
	assert.Equal(t, 104, res.State.CardCount())

	res = s.DrawFromStock()
	assert.False(t, res.Accepted)
}

func TestSpider_DealCompletesRun(t *testing.T) {
	tbl := tableFor(Spider)
	tbl.Tableau[0].Push(down(card.Spades, card.Five))
	tbl.Tableau[0].Push(descending(card.Spades, card.King, card.Two)...)
	for i := 0; i < spiderColumns-1; i++ {
		tbl.Stock.Push(down(card.Spades, card.Nine))
	}
	// 牌库顶发给第 0 列
	tbl.Stock.Push(down(card.Spades, card.Ace))

	s := NewSession()
	before, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)
	require.Len(t, before.Tableau[0], 13)
	assert.Equal(t, 0, before.CompletedRuns)

	res := s.DealFromStock()
	require.True(t, res.Accepted)
	assert.Equal(t, 1, res.State.CompletedRuns)
	assert.Empty(t, res.State.Stock)
	// 发入 1 张后收走 13 张，剩下的背面牌被翻开
	require.Len(t, res.State.Tableau[0], len(before.Tableau[0])+1-card.RanksPerSuit)
	assert.Equal(t, CardView{Suit: card.Spades, Rank: card.Five, FaceUp: true}, res.State.Tableau[0][0])
	for i := 1; i < spiderColumns; i++ {
		assert.Len(t, res.State.Tableau[i], 1)
	}
	assert.Equal(t, before.CardCount(), res.State.CardCount())
	assert.False(t, res.Won)
}

func TestSpider_HiddenKingBlocksCollection(t *testing.T) {
	tbl := tableFor(Spider)
	tbl.Tableau[0].Push(down(card.Spades, card.King))
	tbl.Tableau[0].Push(descending(card.Spades, card.Queen, card.Two)...)
	tbl.Tableau[1].Push(up(card.Spades, card.Ace))

	s := NewSession()
	_, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(1, -1), models.Tableau(0, -1))
	require.True(t, res.Accepted)
	assert.Zero(t, res.State.CompletedRuns)
	assert.Len(t, res.State.Tableau[0], card.RanksPerSuit)
	assert.False(t, res.State.Tableau[0][0].FaceUp)
}

func TestSpider_DealNeedsTenCards(t *testing.T) {
	tbl := tableFor(Spider)
	for i := 0; i < spiderColumns-1; i++ {
		tbl.Stock.Push(down(card.Spades, card.Three))
	}
	s := NewSession()
	_, err := s.StartWithTable(Spider, tbl)
	require.NoError(t, err)

	res := s.DealFromStock()
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrInvalidMove)
}

func TestSession_StartWithTableRejectsBadLayout(t *testing.T) {
	s := NewSession()

	_, err := s.StartWithTable(Klondike, nil)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = s.StartWithTable(FreeCell, tableFor(Klondike))
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = s.StartWithTable(Spider, &Table{Tableau: make([]card.Pile, spiderColumns-1)})
	assert.ErrorIs(t, err, ErrInvalidTable)

	// 被拒绝后会话保持未开局且仍可使用
	assert.Nil(t, s.Snapshot())
	state, err := s.StartWithTable(Yukon, tableFor(Yukon))
	require.NoError(t, err)
	assert.Equal(t, Yukon, state.Variant)
}

func TestAutoReveal_FlipsExactlyOneCard(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(down(card.Clubs, card.Five), down(card.Clubs, card.Six), up(card.Hearts, card.Seven))
	tbl.Tableau[1].Push(up(card.Spades, card.Eight))

	s := NewSession()
	before, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(0, 2), models.Tableau(1, -1))
	require.True(t, res.Accepted)
	assert.Equal(t, faceDown(before)-1, faceDown(res.State))
	assert.False(t, res.State.Tableau[0][0].FaceUp)
	assert.Equal(t, CardView{Suit: card.Clubs, Rank: card.Six, FaceUp: true}, res.State.Tableau[0][1])
}

func TestKlondike_DrawAndRecycle(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Stock.Push(down(card.Spades, card.Two), down(card.Hearts, card.Five))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.DrawFromStock()
	require.True(t, res.Accepted)
	assert.Equal(t, []CardView{{Suit: card.Hearts, Rank: card.Five, FaceUp: true}}, res.State.Waste)

	res = s.DrawFromStock()
	require.True(t, res.Accepted)
	assert.Empty(t, res.State.Stock)
	assert.Len(t, res.State.Waste, 2)

	// 牌库空时回收废牌堆，顺序还原
	res = s.DrawFromStock()
	require.True(t, res.Accepted)
	assert.Empty(t, res.State.Waste)
	require.Len(t, res.State.Stock, 2)
	assert.Equal(t, card.Five, tbl.Stock.Top().Rank())
	assert.False(t, tbl.Stock.Top().FaceUp)
}

func TestKlondike_DrawWithNothingLeft(t *testing.T) {
	s := NewSession()
	_, err := s.StartWithTable(Klondike, tableFor(Klondike))
	require.NoError(t, err)

	res := s.DrawFromStock()
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrInvalidMove)
}

func TestKlondike_MoveRunChecksHeadOnly(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(up(card.Hearts, card.Seven), up(card.Spades, card.Three))
	tbl.Tableau[1].Push(up(card.Clubs, card.Eight))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(0, 0), models.Tableau(1, -1))
	require.True(t, res.Accepted)
	assert.Empty(t, res.State.Tableau[0])
	assert.Len(t, res.State.Tableau[1], 3)
}

func TestKlondike_FoundationWithdrawal(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Foundations[0] = ascending(card.Hearts, card.Two)
	tbl.Tableau[0].Push(up(card.Spades, card.Three))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Move(models.Foundation(0), models.Tableau(0, -1))
	require.True(t, res.Accepted)
	assert.Len(t, res.State.Foundations[0], 1)
	assert.Len(t, res.State.Tableau[0], 2)
}

func TestFreeCell_NoFoundationWithdrawal(t *testing.T) {
	tbl := tableFor(FreeCell)
	tbl.Foundations[0] = ascending(card.Hearts, card.Two)
	tbl.Tableau[0].Push(up(card.Spades, card.Three))

	s := NewSession()
	_, err := s.StartWithTable(FreeCell, tbl)
	require.NoError(t, err)

	res := s.Move(models.Foundation(0), models.Tableau(0, -1))
	assert.False(t, res.Accepted)
}

func TestFreeCell_SingleCardMoves(t *testing.T) {
	tbl := tableFor(FreeCell)
	tbl.Tableau[0].Push(up(card.Spades, card.Nine), up(card.Hearts, card.Eight))

	s := NewSession()
	_, err := s.StartWithTable(FreeCell, tbl)
	require.NoError(t, err)

	res := s.Pick(models.Tableau(0, 0))
	assert.False(t, res.Accepted)

	res = s.Move(models.Tableau(0, -1), models.FreeCell(0))
	require.True(t, res.Accepted)
	require.NotNil(t, res.State.FreeCells[0])
	assert.Equal(t, card.Eight, res.State.FreeCells[0].Rank)

	// 空当已占用
	res = s.Move(models.Tableau(0, -1), models.FreeCell(0))
	assert.False(t, res.Accepted)

	// 空列接受任意牌
	res = s.Move(models.FreeCell(0), models.Tableau(1, -1))
	require.True(t, res.Accepted)
	assert.Nil(t, res.State.FreeCells[0])
	assert.Len(t, res.State.Tableau[1], 1)
}

func TestYukon_MoveUnorderedRun(t *testing.T) {
	tbl := tableFor(Yukon)
	tbl.Tableau[0].Push(down(card.Clubs, card.Ace), up(card.Hearts, card.Six), up(card.Spades, card.King), up(card.Diamonds, card.Two))
	tbl.Tableau[1].Push(up(card.Clubs, card.Seven))

	s := NewSession()
	_, err := s.StartWithTable(Yukon, tbl)
	require.NoError(t, err)

	// 背面朝上的牌不能选取
	res := s.Pick(models.Tableau(0, 0))
	assert.False(t, res.Accepted)

	res = s.Move(models.Tableau(0, 1), models.Tableau(1, -1))
	require.True(t, res.Accepted)
	assert.Len(t, res.State.Tableau[1], 4)
	require.Len(t, res.State.Tableau[0], 1)
	assert.True(t, res.State.Tableau[0][0].FaceUp)
}

func TestMove_SameSourceRejected(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(up(card.Spades, card.King))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Move(models.Tableau(0, 0), models.Tableau(0, -1))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrInvalidMove)
}

// ==================== 选择测试 ====================

func TestSelection_PickDropCancel(t *testing.T) {
	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(up(card.Spades, card.Eight))
	tbl.Tableau[1].Push(up(card.Hearts, card.Seven))

	s := NewSession()
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)

	res := s.Drop(models.Tableau(0, -1))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrEmptySelection)

	res = s.Pick(models.Tableau(1, -1))
	require.True(t, res.Accepted)
	require.NotNil(t, res.State.Selection)
	assert.Equal(t, models.Tableau(1, 0), *res.State.Selection)
	assert.Zero(t, res.State.Moves)

	res = s.Drop(models.Tableau(0, -1))
	require.True(t, res.Accepted)
	assert.Nil(t, res.State.Selection)
	assert.Equal(t, 1, res.State.Moves)
	assert.Len(t, res.State.Tableau[0], 2)

	res = s.Pick(models.Tableau(0, 0))
	require.True(t, res.Accepted)
	res = s.Cancel()
	require.True(t, res.Accepted)
	assert.Nil(t, res.State.Selection)

	// 选取失败时清除选择
	s.Pick(models.Tableau(0, 0))
	res = s.Pick(models.Foundation(0))
	assert.False(t, res.Accepted)
	assert.Nil(t, res.State.Selection)

	// 放下失败时同样清除选择
	s.Pick(models.Tableau(0, 0))
	res = s.Drop(models.Foundation(0))
	assert.False(t, res.Accepted)
	assert.Nil(t, s.Snapshot().Selection)
}

func TestRejection_Idempotent(t *testing.T) {
	s := NewSession(WithSeed(11))
	_, err := s.StartGame(Klondike)
	require.NoError(t, err)

	cmd := models.Command{Action: models.ActionMove, From: models.Foundation(0), To: models.Tableau(0, -1)}

	first := s.Execute(cmd)
	require.False(t, first.Accepted)
	second := s.Execute(cmd)
	require.False(t, second.Accepted)

	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.State, s.Snapshot())
}

// ==================== 观察者测试 ====================

func TestObserver_Notifications(t *testing.T) {
	var changes, wins int
	obs := ObserverFuncs{
		StateChange: func(*Snapshot) { changes++ },
		GameWon:     func(*Snapshot) { wins++ },
	}

	tbl := tableFor(Klondike)
	tbl.Tableau[0].Push(up(card.Spades, card.Eight))
	tbl.Tableau[1].Push(up(card.Hearts, card.Seven))

	s := NewSession()
	s.AddObserver(obs)
	_, err := s.StartWithTable(Klondike, tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, changes)

	s.Move(models.Tableau(1, -1), models.Tableau(0, -1))
	assert.Equal(t, 2, changes)

	// 没有选择时被拒绝的指令不通知
	s.Move(models.Tableau(0, -1), models.Foundation(0))
	assert.Equal(t, 2, changes)
	assert.Zero(t, wins)
}

func TestObserver_CanReadSession(t *testing.T) {
	s := NewSession(WithSeed(2))
	var seen *Snapshot
	// 通知在解锁后发出，回调里可以再次访问会话
	s.AddObserver(ObserverFuncs{StateChange: func(*Snapshot) { seen = s.Snapshot() }})

	_, err := s.StartGame(FreeCell)
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, FreeCell, seen.Variant)
}

// ==================== 随机指令测试 ====================

func randomLocator(r *rand.Rand) models.Locator {
	return models.Locator{
		Kind:  models.PileKind(1 + r.Intn(5)),
		Index: r.Intn(12) - 1,
		Card:  r.Intn(14) - 1,
	}
}

func randomCommand(r *rand.Rand) models.Command {
	actions := []models.ActionType{
		models.ActionPick, models.ActionDrop, models.ActionMove,
		models.ActionDraw, models.ActionDeal, models.ActionCancel,
	}
	return models.Command{
		Action: actions[r.Intn(len(actions))],
		From:   randomLocator(r),
		To:     randomLocator(r),
	}
}

func checkFoundations(t *testing.T, state *Snapshot) {
	t.Helper()
	for i, f := range state.Foundations {
		for k, v := range f {
			if !v.FaceUp || v.Rank != card.Rank(k+1) || v.Suit != f[0].Suit {
				t.Fatalf("foundation %d broken at %d: %v", i, k, f)
			}
		}
	}
}

func TestSession_RandomCommandsConserveCards(t *testing.T) {
	for _, v := range Variants() {
		v := v
		t.Run(v.String(), func(t *testing.T) {
			stats := NewStatsManager()
			s := NewSession(WithSeed(int64(v)+7), WithStats(stats))
			_, err := s.StartGame(v)
			require.NoError(t, err)
			want := 52 * v.Rules().Copies()

			r := rand.New(rand.NewSource(99))
			for i := 0; i < 600; i++ {
				cmd := randomCommand(r)
				if r.Intn(2) == 0 {
					if h, ok := s.Hint(); ok {
						cmd = h.Command()
					}
				}
				s.Execute(cmd)

				state := s.Snapshot()
				require.Equal(t, want, state.CardCount(), "after %s", cmd)
				checkFoundations(t, state)
			}

			vs := stats.GetStats(v)
			require.NotNil(t, vs)
			assert.Equal(t, 1, vs.GamesStarted)
			assert.Positive(t, vs.MovesAccepted+vs.MovesRejected)
		})
	}
}

// ==================== 玩法测试 ====================

func TestVariant_RulesExhaustive(t *testing.T) {
	for _, v := range Variants() {
		r := v.Rules()
		require.NotNil(t, r, v.String())
		assert.Equal(t, v, r.Variant())

		parsed, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	assert.Nil(t, Variant(99).Rules())
	assert.Equal(t, "unknown", Variant(99).String())
}

func TestParseVariant_Unknown(t *testing.T) {
	_, err := ParseVariant("golf")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestVariant_TextRoundTrip(t *testing.T) {
	b, err := Spider.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "spider", string(b))

	var v Variant
	require.NoError(t, v.UnmarshalText([]byte("YUKON")))
	assert.Equal(t, Yukon, v)
	assert.Error(t, v.UnmarshalText([]byte("pyramid")))
}

func TestFreeCellRules_WonWithFullFoundations(t *testing.T) {
	tbl := tableFor(FreeCell)
	r := FreeCell.Rules()
	assert.False(t, r.Won(tbl))
	for i, suit := range card.Suits {
		tbl.Foundations[i] = ascending(suit, card.King)
	}
	assert.True(t, r.Won(tbl))
}
