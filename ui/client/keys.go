package client

import "github.com/charmbracelet/bubbles/key"

// keyMap 游戏屏幕的快捷键
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Cancel  key.Binding
	Stock   key.Binding
	More    key.Binding
	Less    key.Binding
	Hint    key.Binding
	NewGame key.Binding
	Menu    key.Binding
	Console key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "上")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "下")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "左")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "右")),
		Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "选取/放下")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "取消")),
		Stock:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "翻牌/发牌")),
		More:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "多选一张")),
		Less:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "少选一张")),
		Hint:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "提示")),
		NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "新局")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "换玩法")),
		Console: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "输入指令")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "帮助")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "退出")),
	}
}

// ShortHelp 实现 help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Cancel, k.Stock, k.Hint, k.Help, k.Quit}
}

// FullHelp 实现 help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Cancel, k.More, k.Less},
		{k.Stock, k.Hint, k.Console},
		{k.NewGame, k.Menu, k.Help, k.Quit},
	}
}
