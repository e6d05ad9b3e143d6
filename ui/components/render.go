package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Daniel-Thornton/Solitaire98/internal/card"
	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// 颜色定义
var (
	// 牌面颜色
	suitRed   = lipgloss.Color("196") // 红心、方块 - 亮红色
	suitBlack = lipgloss.Color("15")  // 黑桃、梅花 - 亮白色
	backColor = lipgloss.Color("239") // 牌背 - 深灰色

	// 边框颜色
	borderColor    = lipgloss.Color("240") // 边框
	highlightColor = lipgloss.Color("214") // 光标
	selectedColor  = lipgloss.Color("39")  // 选中状态
)

// 牌位宽度，"[10♥]" 为最宽的牌面
const slotWidth = 5

// Focus 描述渲染时需要高亮的位置
type Focus struct {
	Cursor    models.Locator  // 光标所在牌堆
	Selection *models.Locator // 已选中的来源，nil 表示无
}

// RenderCardCompact 紧凑模式渲染单张牌，背面朝上显示 [??]
func RenderCardCompact(v game.CardView) string {
	if !v.FaceUp {
		return lipgloss.NewStyle().Foreground(backColor).Render("[??]")
	}
	return lipgloss.NewStyle().
		Foreground(GetCardColor(v)).
		Render(fmt.Sprintf("[%s%s]", v.Rank, v.Suit))
}

// RenderCardASCII ASCII版本渲染（无颜色，适合日志和不支持颜色的终端）
func RenderCardASCII(v game.CardView) string {
	if !v.FaceUp {
		return "[??]"
	}
	return fmt.Sprintf("[%s%s]", v.Rank, v.Suit.Letter())
}

// RenderEmptySlot 渲染空牌位
func RenderEmptySlot() string {
	return lipgloss.NewStyle().Foreground(borderColor).Render("[  ]")
}

// GetCardColor 获取牌面的颜色
func GetCardColor(v game.CardView) lipgloss.Color {
	if v.Color() == card.Red {
		return suitRed
	}
	return suitBlack
}

// CardName 返回牌的中文名称，例如 "红心 7"
func CardName(v game.CardView) string {
	return v.Suit.FullName() + " " + v.Rank.String()
}

// selectedCard 返回选中来源最上面的一张牌
func selectedCard(s *game.Snapshot) (game.CardView, bool) {
	sel := s.Selection
	switch sel.Kind {
	case models.PileWaste:
		if n := len(s.Waste); n > 0 {
			return s.Waste[n-1], true
		}
	case models.PileFreeCell:
		if sel.Index < len(s.FreeCells) && s.FreeCells[sel.Index] != nil {
			return *s.FreeCells[sel.Index], true
		}
	case models.PileFoundation:
		if sel.Index < len(s.Foundations) {
			if p := s.Foundations[sel.Index]; len(p) > 0 {
				return p[len(p)-1], true
			}
		}
	case models.PileTableau:
		if sel.Index < len(s.Tableau) && sel.Card >= 0 && sel.Card < len(s.Tableau[sel.Index]) {
			return s.Tableau[sel.Index][sel.Card], true
		}
	}
	return game.CardView{}, false
}

// renderTop 渲染牌堆顶牌，空堆显示空牌位
func renderTop(cards []game.CardView) string {
	if len(cards) == 0 {
		return RenderEmptySlot()
	}
	return RenderCardCompact(cards[len(cards)-1])
}

// pileBox 给牌堆加边框，光标和选中使用不同的边框颜色
func pileBox(label, body string, cursor, selected bool) string {
	color := borderColor
	if selected {
		color = selectedColor
	}
	if cursor {
		color = highlightColor
	}
	title := lipgloss.NewStyle().Foreground(color).Bold(cursor).Render(label)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(slotWidth + 1).
		Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Center, title, box.Render(body))
}

func samePile(a, b models.Locator) bool {
	return a.Kind == b.Kind && (a.Kind == models.PileStock || a.Kind == models.PileWaste || a.Index == b.Index)
}

func (f Focus) onCursor(loc models.Locator) bool {
	return f.Cursor.Kind != models.PileNone && samePile(f.Cursor, loc)
}

func (f Focus) selected(loc models.Locator) bool {
	return f.Selection != nil && samePile(*f.Selection, loc)
}

// RenderTopRow 渲染牌库、废牌堆、空当和基础堆
func RenderTopRow(s *game.Snapshot, f Focus) string {
	var boxes []string

	if s.Variant == game.Klondike || s.Variant == game.Spider {
		stock := RenderEmptySlot()
		if n := len(s.Stock); n > 0 {
			stock = lipgloss.NewStyle().Foreground(backColor).Render(fmt.Sprintf("[%2d]", n))
		}
		boxes = append(boxes, pileBox("牌库 s", stock, f.onCursor(models.Stock()), false))
	}
	if s.Variant == game.Klondike {
		boxes = append(boxes, pileBox("废牌 w", renderTop(s.Waste), f.onCursor(models.Waste()), f.selected(models.Waste())))
	}

	for i, c := range s.FreeCells {
		body := RenderEmptySlot()
		if c != nil {
			body = RenderCardCompact(*c)
		}
		loc := models.FreeCell(i)
		boxes = append(boxes, pileBox(fmt.Sprintf("空当 c%d", i), body, f.onCursor(loc), f.selected(loc)))
	}

	for i, p := range s.Foundations {
		loc := models.Foundation(i)
		boxes = append(boxes, pileBox(fmt.Sprintf("基础 f%d", i), renderTop(p), f.onCursor(loc), f.selected(loc)))
	}

	if s.Variant == game.Spider {
		done := fmt.Sprintf("%d/8", s.CompletedRuns)
		boxes = append(boxes, pileBox("完成", done, false, false))
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom, boxes...)
}

// RenderColumn 纵向渲染一列牌，选中的连续牌用选中色标出
func RenderColumn(i int, cards []game.CardView, f Focus) string {
	loc := models.Tableau(i, -1)
	from := -1
	if f.selected(loc) {
		from = f.Selection.Card
	}

	lines := make([]string, 0, len(cards)+1)
	if len(cards) == 0 {
		lines = append(lines, RenderEmptySlot())
	}
	for j, v := range cards {
		line := RenderCardCompact(v)
		if from >= 0 && j >= from {
			line = lipgloss.NewStyle().Underline(true).Foreground(selectedColor).Render(RenderCardASCII(v))
		}
		lines = append(lines, line)
	}

	color := borderColor
	if f.onCursor(loc) {
		color = highlightColor
	}
	title := lipgloss.NewStyle().Foreground(color).Bold(f.onCursor(loc)).Render(fmt.Sprintf(" t%d ", i))
	body := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, true).
		BorderForeground(color).
		Width(slotWidth).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Center, title, body)
}

// RenderTableau 横向排列所有牌列
func RenderTableau(s *game.Snapshot, f Focus) string {
	cols := make([]string, len(s.Tableau))
	for i, p := range s.Tableau {
		cols[i] = RenderColumn(i, p, f)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// RenderTable 渲染整张牌桌
func RenderTable(s *game.Snapshot, f Focus) string {
	if s == nil {
		return lipgloss.NewStyle().Foreground(borderColor).Render("尚未开始牌局，按 n 开新局")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderTopRow(s, f),
		"",
		RenderTableau(s, f),
	)
}

// RenderStatus 渲染状态栏
func RenderStatus(s *game.Snapshot) string {
	if s == nil {
		return ""
	}
	status := fmt.Sprintf("%s | 步数: %d", lipgloss.NewStyle().Bold(true).Render(s.Variant.DisplayName()), s.Moves)
	if s.Selection != nil {
		status += " | 已选: " + s.Selection.String()
		if v, ok := selectedCard(s); ok {
			status += " (" + CardName(v) + ")"
		}
	}
	if s.Won {
		status += " | " + highlightStyle().Render("已获胜!")
	}
	return status
}

// TextTable 以纯文本渲染牌桌，每行一个牌堆
func TextTable(s *game.Snapshot) string {
	var b strings.Builder
	row := func(label string, cards []game.CardView) {
		parts := make([]string, len(cards))
		for i, v := range cards {
			parts[i] = RenderCardASCII(v)
		}
		fmt.Fprintf(&b, "%-4s %s\n", label, strings.Join(parts, " "))
	}

	if len(s.Stock) > 0 || s.Variant == game.Klondike || s.Variant == game.Spider {
		fmt.Fprintf(&b, "%-4s %d 张\n", "s", len(s.Stock))
	}
	if s.Variant == game.Klondike {
		row("w", s.Waste)
	}
	for i, c := range s.FreeCells {
		if c == nil {
			row(fmt.Sprintf("c%d", i), nil)
		} else {
			row(fmt.Sprintf("c%d", i), []game.CardView{*c})
		}
	}
	for i, p := range s.Foundations {
		row(fmt.Sprintf("f%d", i), p)
	}
	for i, p := range s.Tableau {
		row(fmt.Sprintf("t%d", i), p)
	}
	if s.Variant == game.Spider {
		fmt.Fprintf(&b, "完成 %d/8\n", s.CompletedRuns)
	}
	return b.String()
}

// highlightStyle 返回高亮样式
func highlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)
}
