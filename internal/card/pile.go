package card

// Pile 表示一叠有序的牌，末尾为顶牌
type Pile []*Card

// Len 返回牌数
func (p Pile) Len() int { return len(p) }

// Empty 判断是否为空
func (p Pile) Empty() bool { return len(p) == 0 }

// Top 返回顶牌，空牌堆返回 nil
func (p Pile) Top() *Card {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Cards 返回牌堆中的所有牌
func (p Pile) Cards() []*Card { return p }

// Push 将牌依次放到顶部
func (p *Pile) Push(cards ...*Card) {
	*p = append(*p, cards...)
}

// PopFrom 取走从 index 到末尾的连续牌并返回
func (p *Pile) PopFrom(index int) []*Card {
	if index < 0 || index >= len(*p) {
		return nil
	}
	run := make([]*Card, len(*p)-index)
	copy(run, (*p)[index:])
	for i := index; i < len(*p); i++ {
		(*p)[i] = nil
	}
	*p = (*p)[:index]
	return run
}

// PopN 取走顶部 n 张牌（蜘蛛纸牌完成整组时使用）
func (p *Pile) PopN(n int) []*Card {
	if n <= 0 || n > len(*p) {
		return nil
	}
	return p.PopFrom(len(*p) - n)
}

// RevealTop 若新的顶牌背面朝上则将其翻开，只影响顶牌
func (p Pile) RevealTop() bool {
	top := p.Top()
	if top == nil || top.FaceUp {
		return false
	}
	top.FaceUp = true
	return true
}

// FaceUpFrom 返回顶部连续正面朝上部分的起始下标，没有正面牌时返回 Len()
func (p Pile) FaceUpFrom() int {
	i := len(p)
	for i > 0 && p[i-1].FaceUp {
		i--
	}
	return i
}
