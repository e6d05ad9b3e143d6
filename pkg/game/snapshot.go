package game

import (
	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// CardView 是牌的只读副本。背面朝上的牌不暴露花色和点数。
type CardView struct {
	Suit   card.Suit `json:"suit"`
	Rank   card.Rank `json:"rank"`
	FaceUp bool      `json:"face_up"`
}

// String 返回牌面，背面朝上时返回 "??"
func (v CardView) String() string {
	if !v.FaceUp {
		return "??"
	}
	return v.Rank.String() + v.Suit.String()
}

// Color 返回牌的颜色
func (v CardView) Color() card.Color {
	return v.Suit.Color()
}

// Snapshot 是牌局状态的深拷贝，供渲染方读取，修改它不会影响引擎
type Snapshot struct {
	GameID        string          `json:"game_id"`             // 牌局ID
	Variant       Variant         `json:"variant"`             // 玩法
	Stock         []CardView      `json:"stock"`               // 牌库
	Waste         []CardView      `json:"waste"`               // 废牌堆
	Foundations   [][]CardView    `json:"foundations"`         // 基础堆
	Tableau       [][]CardView    `json:"tableau"`             // 牌列
	FreeCells     []*CardView     `json:"free_cells"`          // 空当，nil 为空
	CompletedRuns int             `json:"completed_runs"`      // 蜘蛛纸牌已完成的整组数
	Selection     *models.Locator `json:"selection,omitempty"` // 当前选中的来源
	Moves         int             `json:"moves"`               // 已接受的改变牌局的指令数
	Won           bool            `json:"won"`                 // 是否已获胜
}

// CardCount 返回快照中牌的总数（已完成整组按 13 张计）
func (s *Snapshot) CardCount() int {
	n := len(s.Stock) + len(s.Waste) + s.CompletedRuns*card.RanksPerSuit
	for _, f := range s.Foundations {
		n += len(f)
	}
	for _, p := range s.Tableau {
		n += len(p)
	}
	for _, c := range s.FreeCells {
		if c != nil {
			n++
		}
	}
	return n
}

func viewOf(c *card.Card) CardView {
	if !c.FaceUp {
		return CardView{}
	}
	return CardView{Suit: c.Suit(), Rank: c.Rank(), FaceUp: true}
}

func viewsOf(p card.Pile) []CardView {
	views := make([]CardView, p.Len())
	for i, c := range p {
		views[i] = viewOf(c)
	}
	return views
}

// snapshotOf 复制牌桌状态
func snapshotOf(t *Table) *Snapshot {
	s := &Snapshot{
		Stock:         viewsOf(t.Stock),
		Waste:         viewsOf(t.Waste),
		Foundations:   make([][]CardView, len(t.Foundations)),
		Tableau:       make([][]CardView, len(t.Tableau)),
		FreeCells:     make([]*CardView, len(t.FreeCells)),
		CompletedRuns: len(t.Completed),
	}
	for i, f := range t.Foundations {
		s.Foundations[i] = viewsOf(f)
	}
	for i, p := range t.Tableau {
		s.Tableau[i] = viewsOf(p)
	}
	for i, c := range t.FreeCells {
		if c != nil {
			v := viewOf(c)
			s.FreeCells[i] = &v
		}
	}
	return s
}
