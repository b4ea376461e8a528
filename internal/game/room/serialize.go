package room

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/server/storage"
)

const storeTimeout = 2 * time.Second

// ToRoomData 将 Room 转换为可序列化的公共镜像，调用方持有 r.mu
func (r *Room) ToRoomData() *storage.RoomData {
	data := &storage.RoomData{
		Code:      r.Code,
		State:     r.game.State().String(),
		CreatedAt: r.CreatedAt.Unix(),
		UpdatedAt: time.Now().Unix(),
	}

	for _, p := range r.game.Players() {
		if p.ID == r.game.HostID() {
			data.Host = p.Name
		}
		data.Players = append(data.Players, storage.PlayerData{
			ID:        p.ID,
			Name:      p.Name,
			CardCount: len(p.Hand),
		})
	}

	if r.game.State() == engine.StatePlaying {
		if holder := r.game.TurnHolder(); holder != nil {
			data.TurnHolder = holder.Name
		}
		if top, ok := r.game.TopCard(); ok {
			data.TopCard = top.String()
		}
		data.BoundColor = r.game.BoundColor().String()
		data.Direction = r.game.Direction().String()
	}
	return data
}

// storeTask 一次 Redis 写入
type storeTask struct {
	name string
	room string
	run  func(ctx context.Context) error
}

// storeLoop 按入队顺序执行写入，保证同一房间的镜像不会被旧数据覆盖
func (rm *RoomManager) storeLoop() {
	defer close(rm.tasksDone)
	for task := range rm.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := task.run(ctx); err != nil {
			log.Warn().Err(err).Str("room", task.room).Str("op", task.name).Msg("⚠️ Redis 写入失败")
		}
		cancel()
	}
}

// enqueue 写入任务入队，队列满或已关闭时丢弃（镜像只是参考数据）
func (rm *RoomManager) enqueue(task storeTask) {
	if rm.tasks == nil {
		return
	}

	rm.tasksMu.RLock()
	defer rm.tasksMu.RUnlock()
	if rm.tasksClose {
		return
	}
	select {
	case rm.tasks <- task:
	default:
		log.Warn().Str("room", task.room).Str("op", task.name).Msg("⚠️ Redis 写入队列已满，丢弃")
	}
}

// Close 停止接收写入任务，等待队列中已有的任务写完。可重复调用。
func (rm *RoomManager) Close() {
	if rm.tasks == nil {
		return
	}

	rm.tasksMu.Lock()
	if !rm.tasksClose {
		rm.tasksClose = true
		close(rm.tasks)
	}
	rm.tasksMu.Unlock()

	<-rm.tasksDone
	log.Info().Msg("💾 Redis 写入队列已清空")
}

// mirror 把房间公共信息写入 Redis，调用方持有 room.mu
func (rm *RoomManager) mirror(room *Room) {
	if !rm.store.Enabled() {
		return
	}
	data := room.ToRoomData()
	rm.enqueue(storeTask{name: "save_room", room: data.Code, run: func(ctx context.Context) error {
		return rm.store.SaveRoom(ctx, data)
	}})
}

// unmirror 删除房间镜像
func (rm *RoomManager) unmirror(code string) {
	if !rm.store.Enabled() {
		return
	}
	rm.enqueue(storeTask{name: "delete_room", room: code, run: func(ctx context.Context) error {
		return rm.store.DeleteRoom(ctx, code)
	}})
}

// recordGame 记录对局结果到排行榜
func (rm *RoomManager) recordGame(code, winner string, players []string) {
	if rm.leaderboard == nil {
		return
	}
	rm.enqueue(storeTask{name: "record_game", room: code, run: func(ctx context.Context) error {
		return rm.leaderboard.RecordGame(ctx, winner, players)
	}})
}
