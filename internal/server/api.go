package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/game/room"
	"github.com/palemoky/uno-online/internal/server/handler"
)

// StatsResponse /api/stats 响应
type StatsResponse struct {
	Online         int  `json:"online"`
	Rooms          int  `json:"rooms"`
	ActiveGames    int  `json:"active_games"`
	MaxConnections int  `json:"max_connections"`
	Maintenance    bool `json:"maintenance"`
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleStats 在线人数和房间统计
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Online:         s.GetOnlineCount(),
		Rooms:          s.roomManager.RoomCount(),
		ActiveGames:    s.roomManager.GetActiveGamesCount(),
		MaxConnections: s.maxConnections,
		Maintenance:    s.IsMaintenanceMode(),
	})
}

// handleLeaderboard 胜场排行榜，?limit=N
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.leaderboard.GetLeaderboard(r.Context(), handler.ClampLimit(limit))
	if err != nil {
		log.Error().Err(err).Msg("获取排行榜失败")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "leaderboard_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, handler.ToProtocolEntries(entries))
}

// handleRooms Redis 中所有镜像房间的房间号
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if !s.redisStore.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "redis_disabled"})
		return
	}

	codes, err := s.redisStore.GetAllRoomCodes(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("读取房间列表失败")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load_failed"})
		return
	}
	slices.Sort(codes)
	if codes == nil {
		codes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"rooms": codes})
}

// handleRoom Redis 中的房间公共镜像
func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	if !s.redisStore.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "redis_disabled"})
		return
	}

	data, err := s.redisStore.LoadRoom(r.Context(), room.NormalizeCode(chi.URLParam(r, "code")))
	if err != nil {
		log.Error().Err(err).Msg("读取房间镜像失败")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load_failed"})
		return
	}
	if data == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
