package client

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/internal/protocol"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	wsclient "github.com/Daniel-Thornton/Solitaire98/server/client"
)

// Backend 是界面背后的牌局来源，结果通过 notify 以 Bubble Tea 消息的形式送回
type Backend interface {
	Start(notify func(tea.Msg)) error
	NewGame(variant string) error
	Execute(cmd models.Command) error
	Hint() error
	Close()
}

// LocalBackend 在本进程内运行牌局
type LocalBackend struct {
	session *game.Session
	notify  func(tea.Msg)
}

// NewLocalBackend 创建本地后端
func NewLocalBackend(opts ...game.Option) *LocalBackend {
	return &LocalBackend{session: game.NewSession(opts...)}
}

// Session 返回本地会话
func (b *LocalBackend) Session() *game.Session {
	return b.session
}

func (b *LocalBackend) Start(notify func(tea.Msg)) error {
	b.notify = notify
	b.session.AddObserver(game.ObserverFuncs{
		StateChange: func(state *game.Snapshot) { notify(StateMsg{State: state}) },
		GameWon:     func(state *game.Snapshot) { notify(WonMsg{State: state}) },
	})
	notify(ConnectedMsg{ClientID: b.session.ID()})
	return nil
}

func (b *LocalBackend) NewGame(variant string) error {
	return b.Execute(models.Command{Action: models.ActionNewGame, Variant: variant})
}

func (b *LocalBackend) Execute(cmd models.Command) error {
	res := b.session.Execute(cmd)
	if res.Accepted {
		return nil
	}
	if errors.Is(res.Err, game.ErrNoGame) || errors.Is(res.Err, game.ErrUnknownVariant) {
		b.notify(ErrorMsg{Err: res.Err})
		return nil
	}
	b.notify(RejectedMsg{Command: cmd, Reason: res.Err.Error()})
	return nil
}

func (b *LocalBackend) Hint() error {
	h, ok := b.session.Hint()
	if !ok {
		b.notify(HintMsg{})
		return nil
	}
	b.notify(HintMsg{Found: true, Hint: &h})
	return nil
}

func (b *LocalBackend) Close() {}

// 远程模式的心跳间隔
const heartbeatInterval = 20 * time.Second

// RemoteBackend 通过 WebSocket 在服务器上运行牌局，断线后自动重连
type RemoteBackend struct {
	serverURL string
	heartbeat time.Duration
	client    *wsclient.Client

	closed   atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRemoteBackend 创建远程后端
func NewRemoteBackend(serverURL string) *RemoteBackend {
	return &RemoteBackend{
		serverURL: serverURL,
		heartbeat: heartbeatInterval,
		stop:      make(chan struct{}),
	}
}

func (b *RemoteBackend) Start(notify func(tea.Msg)) error {
	b.client = wsclient.NewClient(&wsclient.Config{
		ServerURL: b.serverURL,
		OnWelcome: func(w *protocol.Welcome) {
			notify(ConnectedMsg{ClientID: w.ClientID})
			if w.State != nil {
				notify(StateMsg{State: w.State})
			}
		},
		OnStateChange: func(state *game.Snapshot) { notify(StateMsg{State: state}) },
		OnRejected: func(r *protocol.Rejected) {
			notify(RejectedMsg{Command: r.Command, Reason: r.Reason})
			if r.State != nil {
				notify(StateMsg{State: r.State})
			}
		},
		OnGameWon:    func(w *protocol.GameWon) { notify(WonMsg{State: w.State}) },
		OnHint:       func(h *protocol.Hint) { notify(HintMsg{Found: h.Found, Hint: h.Hint}) },
		OnError:      func(err error) { notify(ErrorMsg{Err: err}) },
		OnDisconnect: func() {
			notify(DisconnectedMsg{})
			if !b.closed.Load() {
				go b.reconnect(notify)
			}
		},
	})
	if err := b.client.Connect(); err != nil {
		return err
	}
	go b.keepAlive()
	return nil
}

// reconnect 断线后重连，成功后服务器会重新发送 welcome
func (b *RemoteBackend) reconnect(notify func(tea.Msg)) {
	klog.Info("[客户端] 连接断开，开始重连")
	if err := b.client.Reconnect(); err != nil {
		notify(ErrorMsg{Err: fmt.Errorf("重连失败: %w", err)})
		return
	}
	if b.closed.Load() {
		b.client.Disconnect()
	}
}

// keepAlive 定时发送心跳，断线期间跳过
func (b *RemoteBackend) keepAlive() {
	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := b.client.SendPing(); err != nil && !errors.Is(err, wsclient.ErrNotConnected) {
				klog.Warningf("[客户端] 心跳发送失败 | 错误=%v", err)
			}
		case <-b.stop:
			return
		}
	}
}

func (b *RemoteBackend) NewGame(variant string) error {
	return b.client.NewGame(variant)
}

func (b *RemoteBackend) Execute(cmd models.Command) error {
	return b.client.SendCommand(cmd)
}

func (b *RemoteBackend) Hint() error {
	return b.client.RequestHint()
}

func (b *RemoteBackend) Close() {
	b.closed.Store(true)
	b.stopOnce.Do(func() { close(b.stop) })
	if b.client != nil {
		b.client.Disconnect()
	}
}
