package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Daniel-Thornton/Solitaire98/internal/common/models"
)

// Observer 接收牌局变化通知。通知在指令处理完成、会话解锁之后同步发出，
// 收到的快照是深拷贝，观察者无法修改引擎状态。
type Observer interface {
	OnStateChange(state *Snapshot)
	OnGameWon(state *Snapshot)
}

// ObserverFuncs 用函数实现 Observer，未设置的回调会被忽略
type ObserverFuncs struct {
	StateChange func(state *Snapshot)
	GameWon     func(state *Snapshot)
}

func (o ObserverFuncs) OnStateChange(state *Snapshot) {
	if o.StateChange != nil {
		o.StateChange(state)
	}
}

func (o ObserverFuncs) OnGameWon(state *Snapshot) {
	if o.GameWon != nil {
		o.GameWon(state)
	}
}

// Result 是一条指令的处理结果。被拒绝的指令不会改变牌局。
type Result struct {
	Accepted bool      // 是否被接受
	Err      error     // 拒绝原因
	State    *Snapshot // 处理后的状态
	Won      bool      // 本条指令是否使牌局获胜
}

// Session 持有当前唯一的牌局，对外提供统一的指令入口
type Session struct {
	id        string
	variant   Variant
	rules     Rules
	table     *Table
	gameID    string
	gameSeed  int64
	selection *models.Locator // 已选取但尚未放下的来源
	moves     int
	won       bool

	rand      *rand.Rand
	stats     *StatsManager
	history   *HistoryManager
	observers []Observer
	mutex     sync.Mutex
}

// Option 配置 Session
type Option func(*Session)

// WithSeed 使用固定种子，便于复现发牌
func WithSeed(seed int64) Option {
	return WithRand(rand.NewSource(seed))
}

// WithRand 使用指定的随机源生成每局的洗牌种子
func WithRand(src rand.Source) Option {
	return func(s *Session) { s.rand = rand.New(src) }
}

// WithStats 记录统计数据
func WithStats(stats *StatsManager) Option {
	return func(s *Session) { s.stats = stats }
}

// WithHistory 记录每局的指令历史
func WithHistory(history *HistoryManager) Option {
	return func(s *Session) { s.history = history }
}

// WithObserver 注册观察者
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// NewSession 创建会话，开局前所有指令都会以 ErrNoGame 拒绝
func NewSession(opts ...Option) *Session {
	s := &Session{
		id: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// ID 返回会话ID
func (s *Session) ID() string {
	return s.id
}

// AddObserver 注册观察者
func (s *Session) AddObserver(o Observer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.observers = append(s.observers, o)
}

// StartGame 丢弃当前牌局，洗牌并按玩法发牌
func (s *Session) StartGame(v Variant) (*Snapshot, error) {
	s.mutex.Lock()
	state, err := s.startLocked(v)
	observers := s.observers
	s.mutex.Unlock()

	if err != nil {
		return nil, err
	}
	notifyState(observers, state)
	return state, nil
}

// StartNamed 按名称开局，未知名称返回 ErrUnknownVariant
func (s *Session) StartNamed(name string) (*Snapshot, error) {
	v, err := ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return s.StartGame(v)
}

// StartWithTable 从构造好的牌桌开局，用于测试和复盘
func (s *Session) StartWithTable(v Variant, t *Table) (*Snapshot, error) {
	rules := v.Rules()
	if rules == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	if err := checkLayout(rules.Layout(), t); err != nil {
		return nil, fmt.Errorf("start %s: %w", v, err)
	}

	s.mutex.Lock()
	s.abandonLocked()
	s.resetLocked(v, rules, t, 0)
	state := s.snapshotLocked()
	observers := s.observers
	s.mutex.Unlock()

	notifyState(observers, state)
	return state, nil
}

// Execute 处理一条指令
func (s *Session) Execute(cmd models.Command) Result {
	s.mutex.Lock()
	res, changed := s.executeLocked(cmd)
	observers := s.observers
	s.mutex.Unlock()

	if changed {
		notifyState(observers, res.State)
	}
	if res.Won {
		for _, o := range observers {
			o.OnGameWon(res.State)
		}
	}
	return res
}

// Pick 选取 from 处的牌
func (s *Session) Pick(from models.Locator) Result {
	return s.Execute(models.Command{Action: models.ActionPick, From: from})
}

// Drop 把已选取的牌放到 to
func (s *Session) Drop(to models.Locator) Result {
	return s.Execute(models.Command{Action: models.ActionDrop, To: to})
}

// Move 选取并放下，相当于一次拖放
func (s *Session) Move(from, to models.Locator) Result {
	return s.Execute(models.Command{Action: models.ActionMove, From: from, To: to})
}

// DrawFromStock 克朗代克翻牌
func (s *Session) DrawFromStock() Result {
	return s.Execute(models.Command{Action: models.ActionDraw})
}

// DealFromStock 蜘蛛纸牌发一轮
func (s *Session) DealFromStock() Result {
	return s.Execute(models.Command{Action: models.ActionDeal})
}

// Cancel 取消当前选择
func (s *Session) Cancel() Result {
	return s.Execute(models.Command{Action: models.ActionCancel})
}

// Snapshot 返回当前状态，未开局时返回 nil
func (s *Session) Snapshot() *Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.table == nil {
		return nil
	}
	return s.snapshotLocked()
}

// Won 判断当前牌局是否已获胜
func (s *Session) Won() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.won
}

// Variant 返回当前玩法，未开局时 ok 为 false
func (s *Session) Variant() (v Variant, ok bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.variant, s.table != nil
}

// Seed 返回当前牌局的洗牌种子
func (s *Session) Seed() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.gameSeed
}

// Hint 返回第一条可行的提示
func (s *Session) Hint() (Hint, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.table == nil || s.won {
		return Hint{}, false
	}
	hints := Hints(s.table, s.rules)
	if len(hints) == 0 {
		return Hint{}, false
	}
	return hints[0], true
}

// ==================== 私有方法 ====================

func (s *Session) startLocked(v Variant) (*Snapshot, error) {
	rules := v.Rules()
	if rules == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}

	deck, err := rules.NewDeck()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", v, err)
	}
	seed := s.rand.Int63()
	deck.ShuffleWithSeed(seed)

	t := NewTable(rules.Layout())
	if err := rules.Deal(t, deck); err != nil {
		return nil, fmt.Errorf("start %s: %w", v, err)
	}

	s.abandonLocked()
	s.resetLocked(v, rules, t, seed)
	return s.snapshotLocked(), nil
}

// abandonLocked 结束尚未获胜的旧牌局
func (s *Session) abandonLocked() {
	if s.table != nil && !s.won && s.history != nil {
		s.history.FinishGame(s.gameID, false)
	}
}

func (s *Session) resetLocked(v Variant, rules Rules, t *Table, seed int64) {
	s.variant = v
	s.rules = rules
	s.table = t
	s.gameID = uuid.NewString()
	s.gameSeed = seed
	s.selection = nil
	s.moves = 0
	s.won = false

	if s.stats != nil {
		s.stats.RecordStart(v)
	}
	if s.history != nil {
		s.history.StartGame(s.gameID, v, seed, t.CardCount())
	}
}

// executeLocked 返回处理结果以及牌局（含选择）是否发生变化
func (s *Session) executeLocked(cmd models.Command) (Result, bool) {
	if cmd.Action == models.ActionNewGame {
		v, err := ParseVariant(cmd.Variant)
		if err != nil {
			return s.rejectLocked(err), false
		}
		state, err := s.startLocked(v)
		if err != nil {
			return s.rejectLocked(err), false
		}
		return Result{Accepted: true, State: state}, true
	}

	if s.table == nil {
		return Result{Err: ErrNoGame}, false
	}
	if s.won {
		return s.rejectLocked(ErrGameOver), false
	}

	hadSelection := s.selection != nil
	var ok bool

	switch cmd.Action {
	case models.ActionPick:
		s.selection = nil
		var from models.Locator
		if from, _, ok = pickRun(s.table, s.rules, cmd.From); ok {
			s.selection = &from
		}

	case models.ActionDrop:
		if s.selection == nil {
			return s.rejectLocked(ErrEmptySelection), false
		}
		// 按移动记录，来源取自选择
		cmd = models.Command{Action: models.ActionMove, From: *s.selection, To: cmd.To}
		s.selection = nil
		ok = applyMove(s.table, s.rules, cmd.From, cmd.To)

	case models.ActionMove:
		s.selection = nil
		ok = applyMove(s.table, s.rules, cmd.From, cmd.To)

	case models.ActionDraw:
		s.selection = nil
		ok = s.rules.DrawStock(s.table)

	case models.ActionDeal:
		s.selection = nil
		ok = s.rules.DealStock(s.table)

	case models.ActionCancel:
		s.selection = nil
		ok = true
	}

	if !ok {
		if cmd.Action.Mutating() && s.stats != nil {
			s.stats.RecordMove(s.variant, false)
		}
		return s.rejectLocked(ErrInvalidMove), hadSelection
	}

	res := Result{Accepted: true}
	if cmd.Action.Mutating() {
		s.moves++
		if s.stats != nil {
			s.stats.RecordMove(s.variant, true)
		}
		if s.history != nil {
			s.history.Record(s.gameID, cmd)
		}
		if s.rules.Won(s.table) {
			s.won = true
			res.Won = true
			if s.stats != nil {
				s.stats.RecordWin(s.variant)
			}
			if s.history != nil {
				s.history.FinishGame(s.gameID, true)
			}
		}
	}
	res.State = s.snapshotLocked()
	return res, true
}

func (s *Session) rejectLocked(err error) Result {
	res := Result{Err: err}
	if s.table != nil {
		res.State = s.snapshotLocked()
	}
	return res
}

func (s *Session) snapshotLocked() *Snapshot {
	state := snapshotOf(s.table)
	state.GameID = s.gameID
	state.Variant = s.variant
	state.Moves = s.moves
	state.Won = s.won
	if s.selection != nil {
		sel := *s.selection
		state.Selection = &sel
	}
	return state
}

func notifyState(observers []Observer, state *Snapshot) {
	for _, o := range observers {
		o.OnStateChange(state)
	}
}
