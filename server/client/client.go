package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
	"github.com/Daniel-Thornton/Solitaire98/internal/protocol"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// ErrNotConnected 未连接时发送消息
var ErrNotConnected = errors.New("not connected")

// Client WebSocket 客户端
type Client struct {
	serverURL    string          // 服务器地址
	clientID     string          // 服务器分配的客户端ID
	link         *link           // 当前连接
	connected    bool            // 是否已连接
	connecting   bool            // 是否正在连接
	reconnecting bool            // 是否正在重连
	send         chan []byte     // 发送消息通道
	config       Config          // 回调
	mu           sync.RWMutex    // 读写锁
}

// link 一条 WebSocket 连接及其读写协程的生命周期，每次连接新建一个
type link struct {
	conn       *websocket.Conn
	done       chan struct{} // 关闭信号
	stopOnce   sync.Once
	writerExit chan struct{} // 写协程已退出
}

func newLink(conn *websocket.Conn) *link {
	return &link{
		conn:       conn,
		done:       make(chan struct{}),
		writerExit: make(chan struct{}),
	}
}

// stop 通知写协程退出，可重复调用
func (l *link) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Config 客户端配置
type Config struct {
	ServerURL     string                   // 服务器地址
	OnWelcome     func(*protocol.Welcome)  // 连接确认回调
	OnStateChange func(*game.Snapshot)     // 状态变化回调
	OnRejected    func(*protocol.Rejected) // 指令被拒绝回调
	OnGameWon     func(*protocol.GameWon)  // 获胜回调
	OnHint        func(*protocol.Hint)     // 提示回调
	OnError       func(error)              // 错误回调
	OnConnect     func()                   // 连接成功回调
	OnDisconnect  func()                   // 断开连接回调
}

// NewClient 创建新的客户端
func NewClient(config *Config) *Client {
	return &Client{
		serverURL: config.ServerURL,
		send:      make(chan []byte, 256),
		config:    *config,
	}
}

// wsURL 把配置的地址转换成 WebSocket 地址，缺省路径为 /ws
func wsURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect 连接到服务器
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.connected || c.connecting {
		c.mu.Unlock()
		return nil
	}
	c.connecting = true
	c.mu.Unlock()

	target, err := wsURL(c.serverURL)
	if err != nil {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
		return err
	}

	klog.Infof("[客户端] 正在连接 | 地址=%s", target)

	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
		c.notifyError(err)
		return fmt.Errorf("dial %s: %w", target, err)
	}

	l := newLink(conn)
	c.mu.Lock()
	c.link = l
	c.connected = true
	c.connecting = false
	c.mu.Unlock()

	klog.Infof("[客户端] 已连接 | 地址=%s", target)

	// 启动读写协程
	go c.readPump(l)
	go c.writePump(l)

	if c.config.OnConnect != nil {
		c.config.OnConnect()
	}
	return nil
}

// Disconnect 断开连接
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	l := c.link
	c.mu.Unlock()

	if l != nil {
		l.stop()
		l.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		l.conn.Close()
		<-l.writerExit
	}
}

// Reconnect 重新连接，最多尝试 5 次
func (c *Client) Reconnect() error {
	c.mu.Lock()
	if c.reconnecting {
		c.mu.Unlock()
		return nil
	}
	c.reconnecting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	klog.Info("[客户端] 正在重连")

	var err error
	for i := 0; i < 5; i++ {
		if err = c.Connect(); err == nil {
			return nil
		}
		// 等待后重试
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	klog.Errorf("[客户端] 重连失败 | 次数=5 | 错误=%v", err)
	return err
}

// Send 发送消息
func (c *Client) Send(msg interface{}) error {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	if !connected {
		return ErrNotConnected
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("send queue full")
	}
}

// NewGame 请求开新局，variant 为空时使用服务器默认玩法
func (c *Client) NewGame(variant string) error {
	return c.Send(protocol.NewNewGameRequest(variant))
}

// SendCommand 发送牌局指令
func (c *Client) SendCommand(cmd models.Command) error {
	if cmd.Action == models.ActionNewGame {
		return c.NewGame(cmd.Variant)
	}
	return c.Send(protocol.NewCommandRequest(cmd))
}

// RequestHint 请求提示
func (c *Client) RequestHint() error {
	return c.Send(protocol.NewHintRequest())
}

// SendPing 发送心跳
func (c *Client) SendPing() error {
	return c.Send(protocol.NewPingRequest())
}

// ClientID 获取服务器分配的客户端ID
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// IsConnected 检查是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// readPump 处理读取消息，退出时先等写协程结束再标记断开，
// 这样重连后发送队列只会被新连接的写协程消费
func (c *Client) readPump(l *link) {
	conn := l.conn
	defer func() {
		l.stop()
		conn.Close()
		<-l.writerExit

		c.mu.Lock()
		wasConnected := false
		if c.link == l {
			wasConnected = c.connected
			c.connected = false
		}
		c.mu.Unlock()

		if c.config.OnDisconnect != nil {
			c.config.OnDisconnect()
		}
		if wasConnected {
			klog.Warning("[客户端] 连接已断开")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				klog.Warningf("[客户端] 读取错误 | 错误=%v", err)
			}
			return
		}
		c.handleMessage(message)
	}
}

// writePump 处理发送消息
func (c *Client) writePump(l *link) {
	conn := l.conn
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		close(l.writerExit)
	}()

	for {
		select {
		case message := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-l.done:
			return
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Client) handleMessage(data []byte) {
	var baseMsg protocol.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		klog.Warningf("[客户端] 消息解析失败 | 错误=%v", err)
		return
	}

	switch baseMsg.Type {
	case protocol.MsgTypeWelcome:
		var msg protocol.Welcome
		if c.decode(data, &msg) {
			c.mu.Lock()
			c.clientID = msg.ClientID
			c.mu.Unlock()
			if c.config.OnWelcome != nil {
				c.config.OnWelcome(&msg)
			}
		}

	case protocol.MsgTypeGameState:
		var msg protocol.GameState
		if c.decode(data, &msg) && c.config.OnStateChange != nil {
			c.config.OnStateChange(msg.State)
		}

	case protocol.MsgTypeRejected:
		var msg protocol.Rejected
		if c.decode(data, &msg) && c.config.OnRejected != nil {
			c.config.OnRejected(&msg)
		}

	case protocol.MsgTypeGameWon:
		var msg protocol.GameWon
		if c.decode(data, &msg) && c.config.OnGameWon != nil {
			c.config.OnGameWon(&msg)
		}

	case protocol.MsgTypeHint:
		var msg protocol.Hint
		if c.decode(data, &msg) && c.config.OnHint != nil {
			c.config.OnHint(&msg)
		}

	case protocol.MsgTypePong:
		// 心跳响应，忽略

	case protocol.MsgTypeError:
		var msg protocol.Error
		if c.decode(data, &msg) {
			klog.Warningf("[客户端] 服务器错误 | 代码=%d | 信息=%s", msg.Code, msg.Message)
			c.notifyError(&GameError{Message: msg.Message, Code: msg.Code})
		}

	default:
		klog.Warningf("[客户端] 未知消息类型 | 类型=%s", baseMsg.Type)
	}
}

func (c *Client) decode(data []byte, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		klog.Warningf("[客户端] 消息解析失败 | 错误=%v", err)
		return false
	}
	return true
}

// notifyError 通知错误
func (c *Client) notifyError(err error) {
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

// GameError 服务器返回的错误
type GameError struct {
	Message string
	Code    int
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}
