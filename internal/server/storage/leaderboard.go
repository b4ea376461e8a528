package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix = "uno:stats:"
	winsKey        = "uno:leaderboard:wins"

	fieldName       = "name"
	fieldGames      = "games"
	fieldWins       = "wins"
	fieldLastPlayed = "last_played_at"
)

// PlayerStats 玩家统计，按昵称累计
type PlayerStats struct {
	PlayerName   string `json:"player_name"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`
	LastPlayedAt int64  `json:"last_played_at"`
}

// WinRate 胜率（百分比）
func (s *PlayerStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games) * 100
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Wins       int     `json:"wins"`
	Games      int     `json:"games"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardManager 胜场排行榜。client 为 nil 时所有操作都是空操作。
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

func (lm *LeaderboardManager) enabled() bool {
	return lm != nil && lm.redis != nil
}

// RecordGame 记录一局结果：所有玩家场次 +1，获胜者胜场 +1
func (lm *LeaderboardManager) RecordGame(ctx context.Context, winner string, players []string) error {
	if !lm.enabled() {
		return nil
	}

	now := time.Now().Unix()
	_, err := lm.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range players {
			key := statsKeyPrefix + name
			pipe.HSet(ctx, key, fieldName, name, fieldLastPlayed, now)
			pipe.HIncrBy(ctx, key, fieldGames, 1)

			win := 0
			if name == winner {
				win = 1
				pipe.HIncrBy(ctx, key, fieldWins, 1)
			}
			// 输家也进榜，胜场为 0
			pipe.ZIncrBy(ctx, winsKey, float64(win), name)
		}
		return nil
	})
	return err
}

// GetPlayerStats 获取玩家统计，没有记录时返回 nil, nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	if !lm.enabled() {
		return nil, nil
	}

	data, err := lm.redis.HGetAll(ctx, statsKeyPrefix+name).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	stats := &PlayerStats{PlayerName: data[fieldName]}
	stats.Games, _ = strconv.Atoi(data[fieldGames])
	stats.Wins, _ = strconv.Atoi(data[fieldWins])
	stats.LastPlayedAt, _ = strconv.ParseInt(data[fieldLastPlayed], 10, 64)
	return stats, nil
}

// GetLeaderboard 按胜场从高到低返回前 limit 名
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if !lm.enabled() || limit <= 0 {
		return []*LeaderboardEntry{}, nil
	}

	results, err := lm.redis.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(results))
	for i, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}

		stats, err := lm.GetPlayerStats(ctx, name)
		if err != nil || stats == nil {
			continue
		}

		entries = append(entries, &LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: name,
			Wins:       int(result.Score),
			Games:      stats.Games,
			WinRate:    stats.WinRate(),
		})
	}
	return entries, nil
}

// GetPlayerRank 获取玩家排名，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	if !lm.enabled() {
		return -1, nil
	}

	rank, err := lm.redis.ZRevRank(ctx, winsKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}
