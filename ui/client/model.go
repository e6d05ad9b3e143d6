package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	"github.com/Daniel-Thornton/Solitaire98/ui/components"
)

// ==================== 样式定义 ====================

var (
	// 标题样式
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("228")). // 亮黄色
			Align(lipgloss.Center)

	// 副标题样式
	styleSubtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // 灰色
			Faint(true)

	// 边框样式
	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1)

	// 激活状态样式
	styleActive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("50")). // 亮绿色
			Bold(true)

	// 非激活状态样式
	styleInactive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")). // 暗灰色
			Faint(true)

	// 错误样式
	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")). // 深红色
			Bold(true)

	// 提示样式
	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // 青色
			Bold(true)
)

// ==================== 屏幕类型定义 ====================

// ScreenType 表示当前屏幕类型
type ScreenType int

const (
	ScreenMenu ScreenType = iota // 选择玩法
	ScreenGame                   // 游戏屏幕
	ScreenWon                    // 获胜屏幕
)

// String 返回屏幕类型的字符串表示
func (s ScreenType) String() string {
	names := []string{"菜单", "游戏", "获胜"}
	if int(s) < len(names) {
		return names[s]
	}
	return "未知"
}

// 光标所在的行
const (
	rowTop     = 0 // 牌库、废牌堆、空当、基础堆
	rowTableau = 1 // 牌列
)

// ==================== TUI 模型 ====================

// Model TUI 主模型
type Model struct {
	backend Backend

	screen   ScreenType
	variants []game.Variant
	menuIdx  int

	// 牌局状态
	state    *game.Snapshot
	clientID string

	// 光标
	row   int
	col   int
	depth int // 在牌列上选取的张数

	status string     // 最近一条提示信息
	hint   *game.Hint // 最近一次提示
	err    error

	console *components.ConsoleModel
	keys    keyMap
	help    help.Model

	connected bool

	// 终端窗口尺寸
	winWidth  int
	winHeight int

	// 外部消息通道（后端回调经此送入 Bubble Tea）
	extMsgChan chan tea.Msg
}

// NewModel 创建新的 TUI 模型
func NewModel(backend Backend) *Model {
	return &Model{
		backend:    backend,
		screen:     ScreenMenu,
		variants:   game.Variants(),
		row:        rowTableau,
		depth:      1,
		console:    components.NewConsoleModel(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		extMsgChan: make(chan tea.Msg, 100),
	}
}

// push 把后端消息送入外部消息通道
func (m *Model) push(msg tea.Msg) {
	m.extMsgChan <- msg
}

// ==================== Bubble Tea 接口实现 ====================

// Init 启动后端并开始监听外部消息
func (m *Model) Init() tea.Cmd {
	start := func() tea.Msg {
		if err := m.backend.Start(m.push); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
	return tea.Batch(start, m.waitForExtMsg())
}

// waitForExtMsg 等待外部消息
func (m *Model) waitForExtMsg() tea.Cmd {
	return func() tea.Msg {
		return <-m.extMsgChan
	}
}

// Update 更新模型状态
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.winWidth = msg.Width
		m.winHeight = msg.Height
		m.help.Width = msg.Width
		m.console.SetSize(msg.Width, 10)
		return m, nil

	case ConnectedMsg:
		if m.clientID != "" && m.clientID != msg.ClientID {
			// 重连后服务器分配了新会话，旧牌局已不存在
			m.state = nil
			m.hint = nil
			m.err = nil
			m.screen = ScreenMenu
			m.status = "已重新连接，请重新开局"
			m.console.AddInfo("已重连 | ID=%s", msg.ClientID)
		} else {
			m.console.AddInfo("已连接 | ID=%s", msg.ClientID)
		}
		m.connected = true
		m.clientID = msg.ClientID
		return m, m.waitForExtMsg()

	case DisconnectedMsg:
		m.connected = false
		m.err = fmt.Errorf("与服务器断开连接，正在重连")
		return m, m.waitForExtMsg()

	case StateMsg:
		m.applyState(msg.State)
		return m, m.waitForExtMsg()

	case WonMsg:
		m.applyState(msg.State)
		m.screen = ScreenWon
		m.console.AddInfo("获胜! 共 %d 步", msg.State.Moves)
		return m, m.waitForExtMsg()

	case RejectedMsg:
		m.status = fmt.Sprintf("拒绝: %s (%s)", msg.Command, msg.Reason)
		m.console.AddRejected("%s: %s", msg.Command, msg.Reason)
		return m, m.waitForExtMsg()

	case HintMsg:
		if msg.Found {
			m.hint = msg.Hint
			m.status = "提示: " + msg.Hint.String()
		} else {
			m.hint = nil
			m.status = "没有可用的提示"
		}
		return m, m.waitForExtMsg()

	case ErrorMsg:
		m.err = msg.Err
		m.console.AddRejected("%v", msg.Err)
		return m, m.waitForExtMsg()
	}

	return m, nil
}

// applyState 更新牌局状态，光标越界时拉回
func (m *Model) applyState(s *game.Snapshot) {
	if s == nil {
		return
	}
	if m.state == nil || m.state.GameID != s.GameID {
		m.row, m.col, m.depth = rowTableau, 0, 1
		m.console.AddInfo("新局 | %s | %s", s.Variant.DisplayName(), s.GameID)
	}
	m.state = s
	m.hint = nil
	m.err = nil
	if s.Won {
		m.screen = ScreenWon
	} else {
		m.screen = ScreenGame
	}
	m.clampCursor()
}

// topPiles 返回顶行可以停留的牌堆
func topPiles(s *game.Snapshot) []models.Locator {
	var piles []models.Locator
	if s.Variant == game.Klondike || s.Variant == game.Spider {
		piles = append(piles, models.Stock())
	}
	if s.Variant == game.Klondike {
		piles = append(piles, models.Waste())
	}
	for i := range s.FreeCells {
		piles = append(piles, models.FreeCell(i))
	}
	for i := range s.Foundations {
		piles = append(piles, models.Foundation(i))
	}
	return piles
}

func (m *Model) rowLen(row int) int {
	if m.state == nil {
		return 0
	}
	if row == rowTop {
		return len(topPiles(m.state))
	}
	return len(m.state.Tableau)
}

func (m *Model) clampCursor() {
	if m.rowLen(m.row) == 0 {
		m.row = rowTableau
	}
	if n := m.rowLen(m.row); m.col >= n {
		m.col = n - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if m.depth < 1 {
		m.depth = 1
	}
}

// cursorLoc 返回光标所在的牌堆
func (m *Model) cursorLoc() models.Locator {
	if m.state == nil {
		return models.Locator{}
	}
	if m.row == rowTop {
		piles := topPiles(m.state)
		if m.col < len(piles) {
			return piles[m.col]
		}
		return models.Locator{}
	}
	return models.Tableau(m.col, -1)
}

// pickLoc 返回光标处的选取来源，牌列按 depth 选取顶部若干张
func (m *Model) pickLoc() models.Locator {
	loc := m.cursorLoc()
	if loc.Kind != models.PileTableau {
		return loc
	}
	n := len(m.state.Tableau[loc.Index])
	if n == 0 {
		return loc
	}
	d := m.depth
	if d > n {
		d = n
	}
	loc.Card = n - d
	return loc
}

// ==================== 键盘消息处理 ====================

// handleKeyMsg 处理键盘消息
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.backend.Close()
		return m, tea.Quit
	}

	if m.console.IsFocused() {
		return m.updateConsole(msg)
	}

	switch m.screen {
	case ScreenMenu:
		return m.updateMenu(msg)
	case ScreenWon:
		return m.updateWon(msg)
	}
	return m.updateGame(msg)
}

// updateConsole 控制台获得焦点时，按键全部交给输入框
func (m *Model) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.console.Blur()
		m.console.SetVisible(false)
		return m, nil
	case tea.KeyEnter:
		if cmd, ok := m.console.Submit(); ok {
			m.run(cmd)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

// run 把指令交给后端
func (m *Model) run(cmd models.Command) {
	m.status = ""
	if err := m.backend.Execute(cmd); err != nil {
		m.err = err
	}
}

// ==================== 菜单屏幕 ====================

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.backend.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.menuIdx = (m.menuIdx - 1 + len(m.variants)) % len(m.variants)
	case key.Matches(msg, m.keys.Down):
		m.menuIdx = (m.menuIdx + 1) % len(m.variants)
	case key.Matches(msg, m.keys.Select):
		m.startGame(m.variants[m.menuIdx])
	case key.Matches(msg, m.keys.Cancel):
		if m.state != nil && !m.state.Won {
			m.screen = ScreenGame
		}
	default:
		// 数字键直接选择玩法
		if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && int(msg.Runes[0]-'1') < len(m.variants) {
			m.menuIdx = int(msg.Runes[0] - '1')
			m.startGame(m.variants[m.menuIdx])
		}
	}
	return m, nil
}

func (m *Model) startGame(v game.Variant) {
	m.status = ""
	if err := m.backend.NewGame(v.String()); err != nil {
		m.err = err
	}
}

// viewMenu 渲染菜单屏幕
func (m *Model) viewMenu() string {
	var content strings.Builder

	content.WriteString(styleTitle.Render("Solitaire 98"))
	content.WriteString("\n\n")

	for i, v := range m.variants {
		line := fmt.Sprintf("%d. %s (%s)", i+1, v.DisplayName(), v)
		if i == m.menuIdx {
			content.WriteString(styleActive.Render("» " + line))
		} else {
			content.WriteString(styleInactive.Render("  " + line))
		}
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if m.err != nil {
		content.WriteString(styleError.Render(fmt.Sprintf("错误: %v", m.err)))
	} else if !m.connected {
		content.WriteString(styleSubtitle.Render("正在连接..."))
	} else if m.status != "" {
		content.WriteString(styleHint.Render(m.status))
	} else {
		content.WriteString(styleSubtitle.Render("按 Enter 或数字键开局"))
	}
	content.WriteString("\n\n")
	content.WriteString(styleInactive.Render("q: 退出"))

	return lipgloss.Place(
		50, 16,
		lipgloss.Center, lipgloss.Center,
		styleBox.Render(content.String()),
	)
}

// ==================== 游戏屏幕 ====================

func (m *Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.backend.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.rowLen(rowTop) > 0 {
			m.row = rowTop
		}
	case key.Matches(msg, m.keys.Down):
		m.row = rowTableau
	case key.Matches(msg, m.keys.Left):
		if n := m.rowLen(m.row); n > 0 {
			m.col = (m.col - 1 + n) % n
		}
		m.depth = 1
	case key.Matches(msg, m.keys.Right):
		if n := m.rowLen(m.row); n > 0 {
			m.col = (m.col + 1) % n
		}
		m.depth = 1
	case key.Matches(msg, m.keys.More):
		m.depth++
	case key.Matches(msg, m.keys.Less):
		if m.depth > 1 {
			m.depth--
		}

	case key.Matches(msg, m.keys.Select):
		m.activate()
	case key.Matches(msg, m.keys.Cancel):
		m.run(models.Command{Action: models.ActionCancel})
	case key.Matches(msg, m.keys.Stock):
		m.stockAction()
	case key.Matches(msg, m.keys.Hint):
		if err := m.backend.Hint(); err != nil {
			m.err = err
		}

	case key.Matches(msg, m.keys.NewGame):
		m.startGame(m.state.Variant)
	case key.Matches(msg, m.keys.Menu):
		m.screen = ScreenMenu
	case key.Matches(msg, m.keys.Console):
		m.console.SetVisible(true)
		m.console.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.clampCursor()
	return m, nil
}

// activate 在光标处选取或放下；光标在牌库上时翻牌或发牌
func (m *Model) activate() {
	loc := m.cursorLoc()
	if loc.Kind == models.PileStock {
		m.stockAction()
		return
	}
	if m.state.Selection != nil {
		m.run(models.Command{Action: models.ActionDrop, To: loc})
	} else {
		m.run(models.Command{Action: models.ActionPick, From: m.pickLoc()})
	}
	m.depth = 1
}

func (m *Model) stockAction() {
	if m.state.Variant == game.Spider {
		m.run(models.Command{Action: models.ActionDeal})
		return
	}
	m.run(models.Command{Action: models.ActionDraw})
}

// viewGame 渲染游戏屏幕
func (m *Model) viewGame() string {
	var content strings.Builder

	content.WriteString(styleTitle.Render("Solitaire 98 - " + m.state.Variant.DisplayName()))
	content.WriteString("\n\n")

	focus := components.Focus{Cursor: m.cursorLoc(), Selection: m.state.Selection}
	content.WriteString(components.RenderTable(m.state, focus))
	content.WriteString("\n\n")

	status := components.RenderStatus(m.state)
	if m.row == rowTableau && m.depth > 1 {
		status += fmt.Sprintf(" | 选取张数: %d", m.depth)
	}
	content.WriteString(status)
	content.WriteString("\n")

	switch {
	case m.err != nil:
		content.WriteString(styleError.Render(fmt.Sprintf("错误: %v", m.err)))
	case m.hint != nil:
		content.WriteString(styleHint.Render(m.status))
	case m.status != "":
		content.WriteString(styleError.Render(m.status))
	}
	content.WriteString("\n")

	if m.console.IsVisible() {
		content.WriteString(m.console.View())
		content.WriteString("\n")
	}
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// ==================== 获胜屏幕 ====================

func (m *Model) updateWon(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.backend.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewGame):
		m.startGame(m.state.Variant)
	case key.Matches(msg, m.keys.Menu):
		m.screen = ScreenMenu
	}
	return m, nil
}

func (m *Model) viewWon() string {
	var content strings.Builder
	content.WriteString(styleTitle.Render("恭喜获胜!"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("玩法: %s\n", m.state.Variant.DisplayName()))
	content.WriteString(fmt.Sprintf("步数: %d\n\n", m.state.Moves))
	content.WriteString(styleInactive.Render("n: 再来一局  m: 换玩法  q: 退出"))

	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderTable(m.state, components.Focus{}),
		"",
		styleBox.Render(content.String()),
	)
}

// View 渲染视图
func (m *Model) View() string {
	var content string
	switch m.screen {
	case ScreenMenu:
		content = m.viewMenu()
	case ScreenGame:
		content = m.viewGame()
	case ScreenWon:
		content = m.viewWon()
	default:
		content = "未知屏幕"
	}

	return m.padToWindowHeight(content)
}

// padToWindowHeight 将内容填充到终端窗口高度，避免渲染残留
func (m *Model) padToWindowHeight(content string) string {
	if m.winHeight <= 0 {
		return content
	}
	lines := strings.Count(content, "\n") + 1
	if lines < m.winHeight {
		content += strings.Repeat("\n", m.winHeight-lines)
	}
	return content
}
