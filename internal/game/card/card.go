package card

import (
	"fmt"
	"strconv"
)

// Color 定义牌的颜色
type Color int

const (
	ColorNone Color = iota // 万能牌打出前没有颜色
	Red
	Green
	Blue
	Yellow
)

// Colors 四种可绑定的颜色，按构建顺序排列
var Colors = []Color{Red, Green, Blue, Yellow}

// colorNames 颜色字符串映射表
var colorNames = map[Color]string{
	ColorNone: "none",
	Red:       "red",
	Green:     "green",
	Blue:      "blue",
	Yellow:    "yellow",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// IsPlayable 是否是四种可绑定颜色之一
func (c Color) IsPlayable() bool {
	return c >= Red && c <= Yellow
}

// ParseColor 解析颜色字符串，只接受四种可绑定颜色
func ParseColor(s string) (Color, error) {
	for c, name := range colorNames {
		if name == s && c.IsPlayable() {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("无法识别的颜色: %q", s)
}

// Rank 定义牌面
type Rank int

const (
	Rank0 Rank = iota
	Rank1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	RankSkip
	RankReverse
	RankDrawTwo
	RankWild
	RankWildDrawFour
)

// rankNames 牌面字符串映射表，数字牌直接用数字
var rankNames = map[Rank]string{
	RankSkip:         "skip",
	RankReverse:      "reverse",
	RankDrawTwo:      "draw_two",
	RankWild:         "wild",
	RankWildDrawFour: "wild_draw_four",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// ParseRank 解析牌面字符串
func ParseRank(s string) (Rank, error) {
	for r, name := range rankNames {
		if name == s {
			return r, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Rank0) || n > int(Rank9) {
		return -1, fmt.Errorf("无法识别的牌面: %q", s)
	}
	return Rank(n), nil
}

// IsNumber 是否是数字牌
func (r Rank) IsNumber() bool {
	return r >= Rank0 && r <= Rank9
}

// IsWild 是否是万能牌（含 +4）
func (r Rank) IsWild() bool {
	return r == RankWild || r == RankWildDrawFour
}

// Card 定义一张牌，值对象，不可变
type Card struct {
	Color Color
	Rank  Rank
}

// IsWild 是否是万能牌
func (c Card) IsWild() bool {
	return c.Rank.IsWild()
}

func (c Card) String() string {
	if c.IsWild() {
		return c.Rank.String()
	}
	return c.Color.String() + " " + c.Rank.String()
}
