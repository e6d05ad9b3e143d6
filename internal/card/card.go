package card

import (
	"fmt"
	"strings"
)

// Suit 表示扑克牌的花色
type Suit int

const (
	Spades   Suit = iota // 黑桃
	Hearts               // 红心
	Clubs                // 梅花
	Diamonds             // 方块
)

// Suits 按发牌顺序列出四种花色
var Suits = []Suit{Spades, Hearts, Clubs, Diamonds}

// 花色符号（用于显示）
var suitNames = []string{"♠", "♥", "♣", "♦"}
var suitFullNames = []string{"黑桃", "红心", "梅花", "方块"}
var suitLetters = []string{"S", "H", "C", "D"}

// String 返回花色的符号表示
func (s Suit) String() string {
	if s >= 0 && int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "?"
}

// FullName 返回花色的中文全称
func (s Suit) FullName() string {
	if s >= 0 && int(s) < len(suitFullNames) {
		return suitFullNames[s]
	}
	return "未知"
}

// Letter 返回花色的 ASCII 字母（S/H/C/D）
func (s Suit) Letter() string {
	if s >= 0 && int(s) < len(suitLetters) {
		return suitLetters[s]
	}
	return "?"
}

// Color 表示花色颜色
type Color int

const (
	Black Color = iota // 黑色：黑桃、梅花
	Red                // 红色：红心、方块
)

// String 返回颜色名称
func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Color 返回花色对应的颜色
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Rank 表示扑克牌的点数，A 最小
type Rank int

const (
	Ace   Rank = iota + 1 // A
	Two                   // 2
	Three                 // 3
	Four                  // 4
	Five                  // 5
	Six                   // 6
	Seven                 // 7
	Eight                 // 8
	Nine                  // 9
	Ten                   // 10
	Jack                  // J
	Queen                 // Q
	King                  // K
)

// RanksPerSuit 每种花色的牌数
const RanksPerSuit = 13

var rankSymbols = []string{
	"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K",
}

// String 返回点数的符号表示
func (r Rank) String() string {
	if r >= Ace && int(r) < len(rankSymbols) {
		return rankSymbols[r]
	}
	return "?"
}

// Value 返回点数的数值，A=1 … K=13
func (r Rank) Value() int {
	return int(r)
}

// Card 表示一张扑克牌。花色和点数创建后不再变化，只有 FaceUp 可翻转。
// 牌以指针区分身份：双副牌中花色点数相同的两张牌是不同的对象。
type Card struct {
	suit   Suit
	rank   Rank
	FaceUp bool // 是否正面朝上
}

// NewCard 创建一张背面朝上的扑克牌
func NewCard(suit Suit, rank Rank) *Card {
	return &Card{suit: suit, rank: rank}
}

// Suit 返回花色
func (c *Card) Suit() Suit { return c.suit }

// Rank 返回点数
func (c *Card) Rank() Rank { return c.rank }

// Value 返回点数数值
func (c *Card) Value() int { return c.rank.Value() }

// Color 返回颜色
func (c *Card) Color() Color { return c.suit.Color() }

// Flip 翻转牌面
func (c *Card) Flip() {
	c.FaceUp = !c.FaceUp
}

// String 返回扑克牌的字符串表示（如 "A♥"）
func (c *Card) String() string {
	return c.rank.String() + c.suit.String()
}

// FormatCard 返回格式化的牌字符串，背面朝上时隐藏牌面
func (c *Card) FormatCard() string {
	if !c.FaceUp {
		return "[??]"
	}
	return fmt.Sprintf("[%s]", c.String())
}

// ParseCard 解析 "A♥"、"AH"、"10s"、"qd" 形式的牌面
func ParseCard(s string) (*Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid card %q", s)
	}

	var suit Suit = -1
	rankPart := ""
	for i, sym := range suitNames {
		if strings.HasSuffix(s, sym) {
			suit = Suit(i)
			rankPart = strings.TrimSuffix(s, sym)
			break
		}
	}
	if suit < 0 {
		last := strings.ToUpper(s[len(s)-1:])
		for i, l := range suitLetters {
			if l == last {
				suit = Suit(i)
				rankPart = s[:len(s)-1]
				break
			}
		}
	}
	if suit < 0 {
		return nil, fmt.Errorf("invalid suit in card %q", s)
	}

	rankPart = strings.ToUpper(rankPart)
	if rankPart == "T" {
		rankPart = "10"
	}
	for r := Ace; r <= King; r++ {
		if rankSymbols[r] == rankPart {
			return NewCard(suit, r), nil
		}
	}
	return nil, fmt.Errorf("invalid rank in card %q", s)
}
