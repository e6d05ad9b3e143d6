package host

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	"github.com/Daniel-Thornton/Solitaire98/server/host"
)

func TestModel_Tabs(t *testing.T) {
	srv := host.NewServer(nil)
	m := NewModel(srv, ":0")

	assert.Contains(t, m.View(), "等待客户端连接")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "暂无统计")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "暂无牌局")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
}

func TestModel_Refresh(t *testing.T) {
	srv := host.NewServer(nil)
	m := NewModel(srv, ":0")

	session := game.NewSession(game.WithStats(srv.Stats()), game.WithHistory(srv.History()))
	_, err := session.StartGame(game.Yukon)
	assert.NoError(t, err)

	_, cmd := m.Update(refreshMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Len(t, m.stats, 1)
	assert.Len(t, m.recent, 1)

	m.selectedMenu = 2
	assert.Contains(t, m.View(), "育空纸牌")
	assert.Contains(t, m.View(), "进行中")
}
