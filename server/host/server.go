package host

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/config"
	"github.com/Daniel-Thornton/Solitaire98/internal/protocol"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// WebSocket upgrader 配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求（开发环境）
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 连接一个客户端，每个客户端拥有独立的牌局
type Client struct {
	ID       string          // 客户端唯一标识
	Conn     *websocket.Conn // WebSocket 连接
	Session  *game.Session   // 客户端的牌局
	Send     chan []byte     // 发送消息通道
	JoinedAt time.Time       // 连接时间
}

// ClientInfo 客户端概况，用于仪表盘
type ClientInfo struct {
	ID       string       `json:"id"`
	Variant  game.Variant `json:"variant"`
	Playing  bool         `json:"playing"`
	Moves    int          `json:"moves"`
	Won      bool         `json:"won"`
	JoinedAt time.Time    `json:"joined_at"`
}

// Server WebSocket 服务器
type Server struct {
	config     *config.Config
	stats      *game.StatsManager   // 所有牌局共享的统计
	history    *game.HistoryManager // 所有牌局共享的历史
	upgrader   websocket.Upgrader   // WebSocket 升级器
	echo       *echo.Echo           // HTTP 路由
	clients    map[string]*Client   // 所有客户端
	clientsMu  sync.RWMutex         // 客户端管理锁
	register   chan *Client         // 客户端注册通道
	unregister chan *Client         // 客户端注销通道
	handleMsg  chan *ClientMessage  // 消息处理通道
	quit       chan struct{}        // 停止信号
	stopOnce   sync.Once
}

// ClientMessage 客户端消息
type ClientMessage struct {
	Client *Client
	Data   []byte
}

// NewServer 创建新的游戏服务器
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		config:     cfg,
		stats:      game.NewStatsManager(),
		history:    game.NewHistoryManager(cfg.HistorySize),
		upgrader:   upgrader,
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		handleMsg:  make(chan *ClientMessage, 100),
		quit:       make(chan struct{}),
	}
	s.echo = s.routes()
	return s
}

// routes 注册 HTTP 路由
func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/healthz", s.handleHealth)
	e.GET("/stats", s.handleStats)
	e.GET("/history", s.handleHistory)
	e.GET("/ws", echo.WrapHandler(http.HandlerFunc(s.ServeHTTP)))
	return e
}

// Handler 返回包含全部路由的 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Stats 返回共享的统计管理器
func (s *Server) Stats() *game.StatsManager {
	return s.stats
}

// History 返回共享的历史管理器
func (s *Server) History() *game.HistoryManager {
	return s.history
}

// ServeHTTP 处理 WebSocket 连接请求
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 升级 HTTP 连接为 WebSocket
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		klog.Errorf("[连接] 升级失败 | 地址=%s | 错误=%v", r.RemoteAddr, err)
		return
	}

	client := &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		JoinedAt: time.Now(),
	}
	client.Session = s.newSession(client.ID)

	// 注册客户端
	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	// 启动读写协程
	go client.writePump(s)
	go client.readPump(s)
}

// newSession 为客户端创建牌局，状态变化直接推送给该客户端
func (s *Server) newSession(clientID string) *game.Session {
	opts := append(s.config.SessionOptions(),
		game.WithStats(s.stats),
		game.WithHistory(s.history),
		game.WithObserver(game.ObserverFuncs{
			StateChange: func(state *game.Snapshot) {
				s.sendToClient(clientID, protocol.NewGameState(state))
			},
			GameWon: func(state *game.Snapshot) {
				klog.Infof("[获胜] 客户端=%s | 玩法=%s | 步数=%d", clientID, state.Variant, state.Moves)
				s.sendToClient(clientID, protocol.NewGameWon(state))
			},
		}),
	)
	return game.NewSession(opts...)
}

// Run 服务器主循环，直到 Stop 被调用
func (s *Server) Run() {
	for {
		select {
		case client := <-s.register:
			s.handleRegister(client)

		case client := <-s.unregister:
			s.handleUnregister(client)

		case msg := <-s.handleMsg:
			s.handleMessage(msg)

		case <-s.quit:
			s.closeAll()
			return
		}
	}
}

// Stop 停止主循环并断开所有客户端
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Clients 返回所有客户端的概况，按连接时间排序
func (s *Server) Clients() []ClientInfo {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	infos := make([]ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		info := ClientInfo{ID: c.ID, JoinedAt: c.JoinedAt}
		if state := c.Session.Snapshot(); state != nil {
			info.Playing = true
			info.Variant = state.Variant
			info.Moves = state.Moves
			info.Won = state.Won
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].JoinedAt.Before(infos[j].JoinedAt) })
	return infos
}

// handleRegister 处理客户端注册
func (s *Server) handleRegister(client *Client) {
	s.clientsMu.Lock()
	s.clients[client.ID] = client
	total := len(s.clients)
	s.clientsMu.Unlock()

	klog.Infof("[连接] 客户端注册 | 客户端=%s | 总数=%d", client.ID, total)

	variants := make([]string, 0, len(game.Variants()))
	for _, v := range game.Variants() {
		variants = append(variants, v.String())
	}
	welcome := &protocol.Welcome{
		BaseMessage: protocol.NewBaseMessage(protocol.MsgTypeWelcome),
		ClientID:    client.ID,
		Variants:    variants,
		State:       client.Session.Snapshot(),
	}
	s.sendToClient(client.ID, welcome)
}

// handleUnregister 处理客户端注销
func (s *Server) handleUnregister(client *Client) {
	s.clientsMu.Lock()
	_, ok := s.clients[client.ID]
	if ok {
		delete(s.clients, client.ID)
		close(client.Send)
	}
	total := len(s.clients)
	s.clientsMu.Unlock()

	if ok {
		klog.Infof("[连接] 客户端注销 | 客户端=%s | 总数=%d", client.ID, total)
	}
}

// closeAll 关闭所有客户端的发送通道
func (s *Server) closeAll() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for id, c := range s.clients {
		close(c.Send)
		delete(s.clients, id)
	}
	klog.Info("[服务器] 已停止")
}

// handleMessage 处理客户端消息
func (s *Server) handleMessage(msg *ClientMessage) {
	client := msg.Client
	var baseMsg protocol.BaseMessage

	if err := json.Unmarshal(msg.Data, &baseMsg); err != nil {
		s.sendError(client.ID, "Invalid message format", protocol.CodeInvalidFormat)
		return
	}

	switch baseMsg.Type {
	case protocol.MsgTypeNewGame:
		s.handleNewGame(client, msg.Data)

	case protocol.MsgTypeCommand:
		s.handleCommand(client, msg.Data)

	case protocol.MsgTypeHint:
		s.handleHint(client)

	case protocol.MsgTypePing:
		s.handlePing(client)

	default:
		s.sendError(client.ID, "Unknown message type", protocol.CodeUnknownType)
	}
}

// sendToClient 发送消息给指定客户端
func (s *Server) sendToClient(clientID string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		klog.Errorf("[发送] 序列化失败 | 客户端=%s | 错误=%v", clientID, err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return
	}

	select {
	case client.Send <- data:
	default:
		klog.Warningf("[发送] 队列已满 | 客户端=%s", clientID)
	}
}

// sendError 发送错误消息
func (s *Server) sendError(clientID string, message string, code int) {
	s.sendToClient(clientID, protocol.NewError(code, message))
}

// ==================== HTTP 处理 ====================

func (s *Server) handleHealth(c echo.Context) error {
	s.clientsMu.RLock()
	n := len(s.clients)
	s.clientsMu.RUnlock()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": n,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.GetAllStats())
}

// handleHistory 导出历史，?limit=n 只返回最近 n 局
func (s *Server) handleHistory(c echo.Context) error {
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		return c.JSON(http.StatusOK, s.history.GetRecentGames(n))
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return s.history.WriteJSON(c.Response())
}

// ==================== 读写协程 ====================

// writePump 处理向客户端写入消息
func (c *Client) writePump(s *Server) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// 服务器关闭了发送通道
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 处理从客户端读取消息
func (c *Client) readPump(s *Server) {
	defer func() {
		select {
		case s.unregister <- c:
		case <-s.quit:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				klog.Warningf("[连接] 读取错误 | 客户端=%s | 错误=%v", c.ID, err)
			}
			break
		}
		// 收到任何消息都延长读超时
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		// 发送到消息处理队列
		select {
		case s.handleMsg <- &ClientMessage{Client: c, Data: message}:
		case <-s.quit:
			return
		}
	}
}
