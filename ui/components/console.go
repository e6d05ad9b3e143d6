package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// LineKind 表示控制台记录的类型
type LineKind int

const (
	LineInfo     LineKind = iota // 普通信息
	LineCommand                  // 玩家输入的指令
	LineRejected                 // 被拒绝的指令或错误
)

// ConsoleLine 表示控制台中的一条记录
type ConsoleLine struct {
	Kind    LineKind  // 类型
	Content string    // 内容
	Time    time.Time // 时间
}

// ConsoleModel 指令控制台组件，输入文本指令并显示执行记录
type ConsoleModel struct {
	lines    []ConsoleLine  // 记录
	input    textarea.Model // 输入框
	visible  bool           // 是否显示
	maxLines int            // 最多保留的记录数
	width    int            // 组件宽度
	height   int            // 组件高度
	focused  bool           // 是否获得焦点
}

// NewConsoleModel 创建新的控制台组件
func NewConsoleModel() *ConsoleModel {
	ti := textarea.New()
	ti.Placeholder = "move t3:4 f0 / pick w / draw (Enter执行, Esc关闭)"
	ti.Prompt = "» "
	ti.CharLimit = 64
	ti.ShowLineNumbers = false
	ti.SetWidth(40)
	ti.SetHeight(1)

	return &ConsoleModel{
		lines:    make([]ConsoleLine, 0),
		input:    ti,
		maxLines: 50,
		width:    40,
		height:   10,
	}
}

// Toggle 切换显示/隐藏
func (m *ConsoleModel) Toggle() {
	m.visible = !m.visible
}

// SetVisible 设置是否显示
func (m *ConsoleModel) SetVisible(visible bool) {
	m.visible = visible
}

// IsVisible 返回是否显示
func (m *ConsoleModel) IsVisible() bool {
	return m.visible
}

// SetSize 设置组件尺寸
func (m *ConsoleModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)
}

// Focus 聚焦输入框
func (m *ConsoleModel) Focus() {
	m.focused = true
	m.input.Focus()
}

// Blur 取消聚焦
func (m *ConsoleModel) Blur() {
	m.focused = false
	m.input.Blur()
}

// IsFocused 返回输入框是否获得焦点
func (m *ConsoleModel) IsFocused() bool {
	return m.focused
}

func (m *ConsoleModel) add(kind LineKind, content string) {
	m.lines = append(m.lines, ConsoleLine{Kind: kind, Content: content, Time: time.Now()})
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

// AddInfo 添加一条信息
func (m *ConsoleModel) AddInfo(format string, args ...interface{}) {
	m.add(LineInfo, fmt.Sprintf(format, args...))
}

// AddRejected 添加一条拒绝记录
func (m *ConsoleModel) AddRejected(format string, args ...interface{}) {
	m.add(LineRejected, fmt.Sprintf(format, args...))
}

// Lines 返回所有记录
func (m *ConsoleModel) Lines() []ConsoleLine {
	return m.lines
}

// Submit 解析输入框中的指令并清空输入框。解析失败时记录错误。
func (m *ConsoleModel) Submit() (models.Command, bool) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return models.Command{}, false
	}

	m.add(LineCommand, text)
	cmd, err := models.ParseCommand(text)
	if err != nil {
		m.AddRejected("无法解析: %v", err)
		return models.Command{}, false
	}
	return cmd, true
}

// SetInputValue 设置输入框的内容
func (m *ConsoleModel) SetInputValue(value string) {
	m.input.SetValue(value)
}

// Update 处理消息
func (m *ConsoleModel) Update(msg tea.Msg) (*ConsoleModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View 返回控制台的渲染字符串
func (m *ConsoleModel) View() string {
	if !m.visible {
		return ""
	}

	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Render(" 控制台 ") + "\n")

	// 留出标题、输入框和提示的空间
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	start := 0
	if len(m.lines) > rows {
		start = len(m.lines) - rows
	}
	for _, l := range m.lines[start:] {
		ts := l.Time.Format("15:04:05")
		switch l.Kind {
		case LineCommand:
			content.WriteString(fmt.Sprintf("[%s] %s\n", ts, highlightStyle().Render("» "+l.Content)))
		case LineRejected:
			content.WriteString(fmt.Sprintf("[%s] %s\n", ts, lipgloss.NewStyle().Foreground(suitRed).Render(l.Content)))
		default:
			content.WriteString(fmt.Sprintf("[%s] %s\n", ts, lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(l.Content)))
		}
	}
	for i := len(m.lines) - start; i < rows; i++ {
		content.WriteString("\n")
	}

	content.WriteString(m.input.View())
	content.WriteString("\n" + lipgloss.NewStyle().Foreground(borderColor).Render(" Enter: 执行  |  Esc: 关闭"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(m.width).
		Render(content.String())
}
