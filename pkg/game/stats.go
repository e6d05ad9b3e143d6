package game

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// VariantStats 单个玩法的统计信息
type VariantStats struct {
	Variant       Variant   `json:"variant"`        // 玩法
	GamesStarted  int       `json:"games_started"`  // 开局数
	GamesWon      int       `json:"games_won"`      // 获胜局数
	MovesAccepted int       `json:"moves_accepted"` // 被接受的指令数
	MovesRejected int       `json:"moves_rejected"` // 被拒绝的指令数
	WinRate       float64   `json:"win_rate"`       // 胜率 (获胜局数/开局数)
	CreatedAt     time.Time `json:"created_at"`     // 统计开始时间
	UpdatedAt     time.Time `json:"updated_at"`     // 最后更新时间
}

// StatsManager 管理所有玩法的统计数据，可被多个会话共享
type StatsManager struct {
	mu    sync.RWMutex              // 读写锁
	stats map[Variant]*VariantStats // 玩法到统计信息的映射
}

// NewStatsManager 创建统计管理器
func NewStatsManager() *StatsManager {
	return &StatsManager{
		stats: make(map[Variant]*VariantStats),
	}
}

// getOrCreate 获取或创建玩法统计，调用方须持有写锁
func (s *StatsManager) getOrCreate(v Variant) *VariantStats {
	stats, exists := s.stats[v]
	if !exists {
		now := time.Now()
		stats = &VariantStats{
			Variant:   v,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.stats[v] = stats
	}
	return stats
}

// RecordStart 记录一次开局
func (s *StatsManager) RecordStart(v Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.getOrCreate(v)
	stats.GamesStarted++
	stats.updateWinRate()
	stats.UpdatedAt = time.Now()
}

// RecordWin 记录一次获胜
func (s *StatsManager) RecordWin(v Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.getOrCreate(v)
	stats.GamesWon++
	stats.updateWinRate()
	stats.UpdatedAt = time.Now()
}

// RecordMove 记录一条改变牌局的指令是否被接受
func (s *StatsManager) RecordMove(v Variant, accepted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.getOrCreate(v)
	if accepted {
		stats.MovesAccepted++
	} else {
		stats.MovesRejected++
	}
	stats.UpdatedAt = time.Now()
}

func (vs *VariantStats) updateWinRate() {
	if vs.GamesStarted > 0 {
		vs.WinRate = float64(vs.GamesWon) / float64(vs.GamesStarted)
	}
}

// GetStats 获取玩法统计的副本，没有记录时返回 nil
func (s *StatsManager) GetStats(v Variant) *VariantStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stats, exists := s.stats[v]; exists {
		cp := *stats
		return &cp
	}
	return nil
}

// GetAllStats 获取所有玩法的统计副本，按玩法排序
func (s *StatsManager) GetAllStats() []VariantStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]VariantStats, 0, len(s.stats))
	for _, stats := range s.stats {
		all = append(all, *stats)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Variant < all[j].Variant })
	return all
}

// GetTotalGames 获取所有玩法的开局总数
func (s *StatsManager) GetTotalGames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, stats := range s.stats {
		total += stats.GamesStarted
	}
	return total
}

// Clear 清空所有统计信息
func (s *StatsManager) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = make(map[Variant]*VariantStats)
}

// ShortReport 生成简短的统计报告
func (vs VariantStats) ShortReport() string {
	return fmt.Sprintf(`%s: %d局 %d胜 %.1f%% 步数%d/%d`,
		vs.Variant.DisplayName(),
		vs.GamesStarted,
		vs.GamesWon,
		vs.WinRate*100,
		vs.MovesAccepted,
		vs.MovesAccepted+vs.MovesRejected)
}
