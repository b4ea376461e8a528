package handler

import (
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/types"
)

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := h.roomManager.PlayCard(client, payload.HandIndex, payload.ChosenColor); err != nil {
		sendError(client, err)
	}
}

// handleDrawCard 处理摸牌
func (h *Handler) handleDrawCard(client types.ClientInterface) {
	if err := h.roomManager.DrawCard(client); err != nil {
		sendError(client, err)
	}
}

// handlePass 处理过牌
func (h *Handler) handlePass(client types.ClientInterface) {
	if err := h.roomManager.Pass(client); err != nil {
		sendError(client, err)
	}
}
