package game

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// DefaultHistorySize 默认保留的牌局数
const DefaultHistorySize = 50

// HistoryEntry 一条被接受的指令
type HistoryEntry struct {
	Seq    int               `json:"seq"`            // 序号，从 1 开始
	Action models.ActionType `json:"action"`         // 指令类型
	From   *models.Locator   `json:"from,omitempty"` // 来源
	To     *models.Locator   `json:"to,omitempty"`   // 目标
	At     time.Time         `json:"at"`             // 时间戳
}

// GameHistory 一局牌的历史记录
type GameHistory struct {
	GameID     string         `json:"game_id"`               // 牌局ID
	Variant    Variant        `json:"variant"`               // 玩法
	Seed       int64          `json:"seed"`                  // 洗牌种子，0 表示从构造的牌桌开局
	Cards      int            `json:"cards"`                 // 牌数
	StartedAt  time.Time      `json:"started_at"`            // 开局时间
	FinishedAt *time.Time     `json:"finished_at,omitempty"` // 结束时间
	Won        bool           `json:"won"`                   // 是否获胜
	Entries    []HistoryEntry `json:"entries"`               // 指令记录
}

// HistoryManager 在内存中保存最近若干局的指令历史
type HistoryManager struct {
	games []*GameHistory // 按开局顺序
	index map[string]*GameHistory
	limit int
	mu    sync.Mutex
}

// NewHistoryManager 创建历史记录管理器，limit <= 0 时使用 DefaultHistorySize
func NewHistoryManager(limit int) *HistoryManager {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &HistoryManager{
		index: make(map[string]*GameHistory),
		limit: limit,
	}
}

// StartGame 开始记录新的一局，超过上限时丢弃最早的一局
func (h *HistoryManager) StartGame(gameID string, v Variant, seed int64, cards int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g := &GameHistory{
		GameID:    gameID,
		Variant:   v,
		Seed:      seed,
		Cards:     cards,
		StartedAt: time.Now(),
		Entries:   make([]HistoryEntry, 0),
	}
	h.games = append(h.games, g)
	h.index[gameID] = g

	for len(h.games) > h.limit {
		delete(h.index, h.games[0].GameID)
		h.games[0] = nil
		h.games = h.games[1:]
	}
}

// Record 记录一条被接受的指令
func (h *HistoryManager) Record(gameID string, cmd models.Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.index[gameID]
	if !ok || g.FinishedAt != nil {
		return
	}

	entry := HistoryEntry{
		Seq:    len(g.Entries) + 1,
		Action: cmd.Action,
		At:     time.Now(),
	}
	if cmd.From.Kind != models.PileNone {
		from := cmd.From
		entry.From = &from
	}
	if cmd.To.Kind != models.PileNone {
		to := cmd.To
		entry.To = &to
	}
	g.Entries = append(g.Entries, entry)
}

// FinishGame 结束一局的记录
func (h *HistoryManager) FinishGame(gameID string, won bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.index[gameID]
	if !ok || g.FinishedAt != nil {
		return
	}
	now := time.Now()
	g.FinishedAt = &now
	g.Won = won
}

// GetGame 获取一局的历史副本
func (h *HistoryManager) GetGame(gameID string) (GameHistory, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.index[gameID]
	if !ok {
		return GameHistory{}, false
	}
	return g.clone(), true
}

// GetRecentGames 获取最近 n 局的历史副本，n <= 0 时返回全部
func (h *HistoryManager) GetRecentGames(n int) []GameHistory {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.games) {
		n = len(h.games)
	}
	result := make([]GameHistory, 0, n)
	for _, g := range h.games[len(h.games)-n:] {
		result = append(result, g.clone())
	}
	return result
}

// GetGameCount 获取保存的牌局数
func (h *HistoryManager) GetGameCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games)
}

// WriteJSON 以 JSON 数组导出全部历史
func (h *HistoryManager) WriteJSON(w io.Writer) error {
	games := h.GetRecentGames(0)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(games); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

func (g *GameHistory) clone() GameHistory {
	cp := *g
	cp.Entries = make([]HistoryEntry, len(g.Entries))
	copy(cp.Entries, g.Entries)
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		cp.FinishedAt = &t
	}
	return cp
}

// ExportToText 将一局的历史导出为文本格式
func (g *GameHistory) ExportToText() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s #%s ===\n", g.Variant.DisplayName(), g.GameID))
	b.WriteString(fmt.Sprintf("时间: %s\n", g.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("种子: %d\n", g.Seed))

	result := "进行中"
	if g.FinishedAt != nil {
		result = "放弃"
		if g.Won {
			result = "获胜"
		}
	}
	b.WriteString(fmt.Sprintf("结果: %s\n", result))

	b.WriteString("\n指令:\n")
	for _, e := range g.Entries {
		cmd := models.Command{Action: e.Action}
		if e.From != nil {
			cmd.From = *e.From
		}
		if e.To != nil {
			cmd.To = *e.To
		}
		b.WriteString(fmt.Sprintf("  %3d. %s\n", e.Seq, cmd.String()))
	}
	return b.String()
}
