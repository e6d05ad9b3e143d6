package card

import (
	"errors"
	"math/rand"
	"time"
)

// Deck 表示一副或两副扑克牌
type Deck struct {
	cards []*Card // 牌组中剩余的牌，末尾为牌顶
}

var (
	// ErrEmptyDeck 表示牌组已空，无法继续发牌
	ErrEmptyDeck = errors.New("no cards left in deck")
	// ErrInvalidCopies 表示不支持的副数
	ErrInvalidCopies = errors.New("deck copies must be 1 or 2")
)

// NewDeck 创建 copies 副标准 52 张牌，所有牌背面朝上
func NewDeck(copies int) (*Deck, error) {
	if copies < 1 || copies > 2 {
		return nil, ErrInvalidCopies
	}
	d := &Deck{
		cards: make([]*Card, 0, 52*copies),
	}
	for n := 0; n < copies; n++ {
		for _, suit := range Suits {
			for rank := Ace; rank <= King; rank++ {
				d.cards = append(d.cards, NewCard(suit, rank))
			}
		}
	}
	return d, nil
}

// NewSuitDeck 创建只含单一花色的牌组，每副 4 组 A-K，共 52*copies 张
func NewSuitDeck(suit Suit, copies int) (*Deck, error) {
	if copies < 1 || copies > 2 {
		return nil, ErrInvalidCopies
	}
	d := &Deck{
		cards: make([]*Card, 0, 52*copies),
	}
	for n := 0; n < copies*len(Suits); n++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d, nil
}

// NewDeckFromCards 用给定的牌构造牌组，最后一张为牌顶
func NewDeckFromCards(cards []*Card) *Deck {
	return &Deck{cards: append([]*Card(nil), cards...)}
}

// Shuffle 使用当前时间作为种子洗牌
func (d *Deck) Shuffle() {
	d.ShuffleWithSeed(time.Now().UnixNano())
}

// ShuffleWithSeed 使用指定种子洗牌
func (d *Deck) ShuffleWithSeed(seed int64) {
	d.ShuffleWith(rand.New(rand.NewSource(seed)))
}

// ShuffleWith 使用给定的随机数生成器洗牌
func (d *Deck) ShuffleWith(r *rand.Rand) {
	// Fisher-Yates 洗牌算法
	for i := len(d.cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw 取走并返回牌顶（最后一张）
func (d *Deck) Draw() (*Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards[last] = nil
	d.cards = d.cards[:last]
	return c, nil
}

// Remaining 返回牌组中剩余的牌数
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards 返回牌组中剩余的所有牌
func (d *Deck) Cards() []*Card {
	return d.cards
}

// Peek 查看牌顶但不取走
func (d *Deck) Peek() (*Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return d.cards[len(d.cards)-1], nil
}
