package game

import (
	"fmt"
	"strings"
)

// Variant 表示纸牌玩法
type Variant int

const (
	Klondike Variant = iota // 克朗代克
	Spider                  // 蜘蛛
	Yukon                   // 育空
	FreeCell                // 空当接龙
)

var variantNames = []string{"klondike", "spider", "yukon", "freecell"}
var variantDisplay = []string{"克朗代克", "蜘蛛纸牌", "育空纸牌", "空当接龙"}

// Variants 返回所有玩法
func Variants() []Variant {
	return []Variant{Klondike, Spider, Yukon, FreeCell}
}

// String 返回玩法名称
func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// DisplayName 返回玩法的中文名称
func (v Variant) DisplayName() string {
	if v >= 0 && int(v) < len(variantDisplay) {
		return variantDisplay[v]
	}
	return "未知"
}

// MarshalText 以名称形式序列化
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText 从名称解析
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant 解析玩法名称（不区分大小写），未知名称返回 ErrUnknownVariant
func ParseVariant(name string) (Variant, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range variantNames {
		if s == n {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Rules 返回玩法对应的规则引擎，未知玩法返回 nil
func (v Variant) Rules() Rules {
	switch v {
	case Klondike:
		return klondikeRules{}
	case Spider:
		return spiderRules{}
	case Yukon:
		return yukonRules{}
	case FreeCell:
		return freeCellRules{}
	}
	return nil
}
