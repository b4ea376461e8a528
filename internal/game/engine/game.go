package engine

import (
	"math/rand/v2"
	"slices"

	"github.com/palemoky/uno-online/internal/apperrors"
	"github.com/palemoky/uno-online/internal/game/card"
)

const (
	HandSize   = 7  // 每人初始手牌
	MinPlayers = 2  // 开局最少人数
	MaxPlayers = 10 // 保证发牌后摸牌堆里一定还有非万能牌可以翻作首张
)

// State 游戏状态
type State int

const (
	StateLobby State = iota
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Direction 出牌方向
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Player 游戏中的玩家
type Player struct {
	ID   string
	Name string
	Hand []card.Card
}

// Game 单个房间的回合状态机。
//
// Game 本身不加锁，调用方（房间）负责串行化所有访问。
type Game struct {
	players    []*Player // 按加入顺序
	hostID     string
	state      State
	deck       *card.Deck
	turn       int
	direction  Direction
	boundColor card.Color
	winnerID   string
	maxPlayers int
	rng        *rand.Rand
}

// New 创建处于大厅状态的游戏，maxPlayers 超出 [MinPlayers, MaxPlayers] 时取边界值
func New(rng *rand.Rand, maxPlayers int) *Game {
	return &Game{
		state:      StateLobby,
		direction:  Forward,
		maxPlayers: min(max(maxPlayers, MinPlayers), MaxPlayers),
		rng:        rng,
	}
}

// CanAdd 检查玩家能否加入，不修改状态
func (g *Game) CanAdd(name string) error {
	if g.state != StateLobby {
		return apperrors.ErrGameAlreadyStarted
	}
	for _, p := range g.players {
		if p.Name == name {
			return apperrors.ErrDuplicateName
		}
	}
	if len(g.players) >= g.maxPlayers {
		return apperrors.ErrRoomFull
	}
	return nil
}

// AddPlayer 大厅阶段加入玩家，第一个加入的玩家成为房主
func (g *Game) AddPlayer(id, name string) error {
	if err := g.CanAdd(name); err != nil {
		return err
	}

	g.players = append(g.players, &Player{ID: id, Name: name})
	if g.hostID == "" {
		g.hostID = id
	}
	return nil
}

// RemovePlayer 移除玩家并修正回合指针，返回玩家是否存在。
//
// 游戏中离开的玩家手牌放回摸牌堆底，保证总牌数不变。
func (g *Game) RemovePlayer(id string) bool {
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}

	p := g.players[idx]
	g.players = slices.Delete(g.players, idx, idx+1)

	if g.hostID == id {
		g.hostID = ""
		if len(g.players) > 0 {
			g.hostID = g.players[0].ID
		}
	}

	if g.state != StatePlaying {
		return true
	}

	if len(p.Hand) > 0 {
		g.deck.PutBottom(p.Hand...)
		p.Hand = nil
	}

	n := len(g.players)
	if n == 0 {
		g.turn = 0
		return true
	}

	switch {
	case idx < g.turn:
		g.turn--
	case idx == g.turn && g.direction == Backward:
		// 逆序时下一个是前一位；顺序时同一下标已经是下一位
		g.turn--
	}
	g.turn = ((g.turn % n) + n) % n
	return true
}

// --- 只读访问 ---

// State 当前状态
func (g *Game) State() State { return g.state }

// HostID 房主 ID
func (g *Game) HostID() string { return g.hostID }

// Direction 当前方向
func (g *Game) Direction() Direction { return g.direction }

// BoundColor 当前生效的颜色
func (g *Game) BoundColor() card.Color { return g.boundColor }

// PlayerCount 玩家人数
func (g *Game) PlayerCount() int { return len(g.players) }

// Players 按加入顺序返回玩家（切片副本）
func (g *Game) Players() []*Player {
	return slices.Clone(g.players)
}

// Player 按 ID 查找玩家
func (g *Game) Player(id string) *Player {
	if idx := g.indexOf(id); idx >= 0 {
		return g.players[idx]
	}
	return nil
}

// TurnHolder 当前回合玩家，非游戏中返回 nil
func (g *Game) TurnHolder() *Player {
	if g.state != StatePlaying || len(g.players) == 0 {
		return nil
	}
	return g.players[g.turn]
}

// TopCard 弃牌堆顶牌
func (g *Game) TopCard() (card.Card, bool) {
	if g.deck == nil {
		return card.Card{}, false
	}
	return g.deck.Top()
}

// Winner 获胜者，未结束时返回 nil
func (g *Game) Winner() *Player {
	if g.winnerID == "" {
		return nil
	}
	return g.Player(g.winnerID)
}

func (g *Game) indexOf(id string) int {
	return slices.IndexFunc(g.players, func(p *Player) bool { return p.ID == id })
}
