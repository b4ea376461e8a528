package room

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/server/storage"
	"github.com/palemoky/uno-online/internal/types"
)

const (
	roomCodeLength = 6                                      // 房间号长度
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" // 房间号字符集
	maxNameLength  = 20                                     // 昵称最大长度（字符）

	defaultChatHistory   = 50
	defaultChatMaxLength = 200
	storeQueueSize       = 256
)

// Sessions 会话表，房间在持有自己的锁时更新它
type Sessions interface {
	Bind(playerID, roomCode, playerName string)
	Unbind(playerID string)
	RoomOf(playerID string) string
}

// Room 游戏房间
//
// 房间内所有读写都在 mu 下进行：校验、修改、广播是一个整体。
type Room struct {
	Code       string    // 房间号，发布到注册表后不再改变
	CreatedAt  time.Time // 创建时间
	lastActive time.Time

	game    *engine.Game
	clients map[string]types.ClientInterface // playerID -> 连接
	chat    []protocol.ChatMessagePayload    // 最近的聊天记录，随房间销毁
	closed  bool                             // 已从注册表移除

	mu sync.Mutex
}

// Options 房间管理器配置
type Options struct {
	Store         *storage.RedisStore
	Leaderboard   *storage.LeaderboardManager
	Sessions      Sessions
	MaxPlayers    int
	ChatHistory   int
	ChatMaxLength int
	RoomTimeout   time.Duration // 大厅房间无人开局的超时时间，0 表示不清理
	Seed          uint64        // 随机种子，0 表示随机
}

// RoomManager 房间注册表
type RoomManager struct {
	store         *storage.RedisStore
	leaderboard   *storage.LeaderboardManager
	sessions      Sessions
	maxPlayers    int
	chatHistory   int
	chatMaxLength int
	roomTimeout   time.Duration

	rooms map[string]*Room
	mu    sync.RWMutex

	rng   *rand.Rand
	rngMu sync.Mutex

	tasks      chan storeTask // Redis 写入队列，未配置存储时为 nil
	tasksMu    sync.RWMutex
	tasksDone  chan struct{}
	tasksClose bool
}

// NewRoomManager 创建房间管理器
func NewRoomManager(opts Options) *RoomManager {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if opts.ChatHistory <= 0 {
		opts.ChatHistory = defaultChatHistory
	}
	if opts.ChatMaxLength <= 0 {
		opts.ChatMaxLength = defaultChatMaxLength
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = engine.MaxPlayers
	}

	rm := &RoomManager{
		store:         opts.Store,
		leaderboard:   opts.Leaderboard,
		sessions:      opts.Sessions,
		maxPlayers:    opts.MaxPlayers,
		chatHistory:   opts.ChatHistory,
		chatMaxLength: opts.ChatMaxLength,
		roomTimeout:   opts.RoomTimeout,
		rooms:         make(map[string]*Room),
		rng:           rand.New(rand.NewPCG(seed, seed>>1|1)),
	}

	if opts.Store.Enabled() || opts.Leaderboard != nil {
		rm.tasks = make(chan storeTask, storeQueueSize)
		rm.tasksDone = make(chan struct{})
		go rm.storeLoop()
	}
	return rm
}

// newRoom 创建尚未发布的房间，每个房间有独立的随机源
func (rm *RoomManager) newRoom() *Room {
	rm.rngMu.Lock()
	s1, s2 := rm.rng.Uint64(), rm.rng.Uint64()
	rm.rngMu.Unlock()

	now := time.Now()
	return &Room{
		CreatedAt:  now,
		lastActive: now,
		game:       engine.New(rand.New(rand.NewPCG(s1, s2)), rm.maxPlayers),
		clients:    make(map[string]types.ClientInterface),
	}
}

// lock 锁住房间，已销毁的房间返回 false
func (r *Room) lock() bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	return true
}

// State 房间状态
func (r *Room) State() engine.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.State()
}

// PlayerCount 玩家数
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.PlayerCount()
}
