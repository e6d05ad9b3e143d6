package host

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	"github.com/Daniel-Thornton/Solitaire98/server/host"
)

// 样式定义
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF79C6")).MarginBottom(1)
	styleSubtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	styleBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	styleActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	styleInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	styleWon      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F1FA8C"))
	styleButton   = lipgloss.NewStyle().Background(lipgloss.Color("#44475A")).Foreground(lipgloss.Color("#F8F8F2")).Padding(0, 2)
	styleSelected = lipgloss.NewStyle().Background(lipgloss.Color("#FF79C6")).Foreground(lipgloss.Color("#F8F8F2")).Padding(0, 2)
)

// 刷新间隔
const refreshInterval = time.Second

// refreshMsg 定时刷新
type refreshMsg time.Time

// Model 服务器仪表盘
type Model struct {
	server       *host.Server
	addr         string
	clients      []host.ClientInfo
	stats        []game.VariantStats
	recent       []game.GameHistory
	selectedMenu int
	menuItems    []string
	width        int
	height       int
	err          error
}

// NewModel 创建新的仪表盘
func NewModel(server *host.Server, addr string) *Model {
	m := &Model{
		server:    server,
		addr:      addr,
		menuItems: []string{"客户端", "统计", "历史", "退出"},
	}
	m.refresh()
	return m
}

// Init 初始化
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// refresh 从服务器读取最新数据
func (m *Model) refresh() {
	m.clients = m.server.Clients()
	m.stats = m.server.Stats().GetAllStats()
	m.recent = m.server.History().GetRecentGames(10)
}

// Update 更新模型
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, m.tick()

	case error:
		m.err = msg
		return m, nil
	}

	return m, nil
}

// handleKeyMsg 处理键盘消息
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left", "h":
		if m.selectedMenu > 0 {
			m.selectedMenu--
		}

	case "right", "l":
		if m.selectedMenu < len(m.menuItems)-1 {
			m.selectedMenu++
		}

	case "r":
		m.refresh()

	case "enter":
		if m.selectedMenu == len(m.menuItems)-1 {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View 渲染视图
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("错误: %v\n", m.err)
	}

	var content string
	content += styleTitle.Render("Solitaire 98 - 服务器控制台") + "\n"
	content += styleSubtitle.Render(fmt.Sprintf("监听: %s | 客户端: %d | 总局数: %d",
		m.addr, len(m.clients), m.server.Stats().GetTotalGames())) + "\n\n"

	content += m.renderMenu() + "\n\n"

	switch m.selectedMenu {
	case 0:
		content += m.renderClients()
	case 1:
		content += m.renderStats()
	case 2:
		content += m.renderHistory()
	}

	content += "\n" + styleInactive.Render("←/→: 切换  r: 刷新  q: 退出")
	return content
}

// renderClients 渲染客户端列表
func (m *Model) renderClients() string {
	if len(m.clients) == 0 {
		return styleSubtitle.Render("等待客户端连接...") + "\n"
	}

	var rows []string
	for i, c := range m.clients {
		state := styleInactive.Render("未开局")
		if c.Playing {
			state = styleActive.Render(fmt.Sprintf("%s 第 %d 步", c.Variant.DisplayName(), c.Moves))
		}
		if c.Won {
			state = styleWon.Render(fmt.Sprintf("%s 已获胜 (%d 步)", c.Variant.DisplayName(), c.Moves))
		}
		rows = append(rows, fmt.Sprintf("%d. %s | 在线 %s | %s",
			i+1, shortID(c.ID), time.Since(c.JoinedAt).Truncate(time.Second), state))
	}
	return styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

// renderStats 渲染各玩法统计
func (m *Model) renderStats() string {
	if len(m.stats) == 0 {
		return styleSubtitle.Render("暂无统计") + "\n"
	}

	var rows []string
	for _, s := range m.stats {
		rows = append(rows, s.ShortReport())
	}
	return styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

// renderHistory 渲染最近的牌局
func (m *Model) renderHistory() string {
	if len(m.recent) == 0 {
		return styleSubtitle.Render("暂无牌局") + "\n"
	}

	var rows []string
	for _, g := range m.recent {
		result := styleActive.Render("进行中")
		switch {
		case g.Won:
			result = styleWon.Render("获胜")
		case g.FinishedAt != nil:
			result = styleInactive.Render("放弃")
		}
		rows = append(rows, fmt.Sprintf("%s | %s | 种子 %d | %d 步 | %s",
			g.StartedAt.Format("15:04:05"), g.Variant.DisplayName(), g.Seed, len(g.Entries), result))
	}
	return styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

// renderMenu 渲染菜单
func (m *Model) renderMenu() string {
	var items []string
	for i, item := range m.menuItems {
		if i == m.selectedMenu {
			items = append(items, styleSelected.Render("> "+item+" <"))
		} else {
			items = append(items, styleButton.Render("  "+item+"  "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, items...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Start 启动服务器和仪表盘，仪表盘退出时关闭服务器
func Start(server *host.Server, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}
	go server.Run()

	p := tea.NewProgram(NewModel(server, addr), tea.WithAltScreen())

	// 处理退出信号
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		p.Kill()
	}()

	go func() {
		klog.Infof("[服务器] 启动 | 地址=%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.Send(fmt.Errorf("HTTP 服务器错误: %w", err))
		}
	}()

	_, err := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
	server.Stop()

	if err != nil {
		return fmt.Errorf("TUI 运行错误: %w", err)
	}
	return nil
}
