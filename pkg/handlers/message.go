package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"gochat/pkg/avatar"
	"gochat/pkg/message"
)

const (
	muxVarUserID    string = "user_id"
	muxVarMessageID string = "message_id"
)

type SendForm struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type MessageHandler struct {
	Service message.ServiceInterface
	Logger  *slog.Logger
}

func NewMessageHandler(service message.ServiceInterface, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *MessageHandler) GetSidebarUsers(w http.ResponseWriter, r *http.Request) {
	me, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	users, unseen, err := h.Service.SidebarUsers(me.ID)
	if err != nil {
		h.Logger.Error("sidebar users", "error", err, "user", me.ID)
		writeFail(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"success":        true,
		"users":          users,
		"unseenMessages": unseen,
	})
}

func (h *MessageHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	me, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	otherID, ok := mux.Vars(r)[muxVarUserID]
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	msgs, err := h.Service.History(me.ID, otherID)
	if err != nil {
		h.Logger.Error("message history", "error", err, "user", me.ID)
		writeFail(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"success":  true,
		"messages": msgs,
	})
}

func (h *MessageHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserFromContext(w, r); !ok {
		return
	}

	msgID, ok := mux.Vars(r)[muxVarMessageID]
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.Service.MarkSeen(msgID); err != nil {
		if errors.Is(err, message.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "message not found")
			return
		}
		h.Logger.Error("mark seen", "error", err)
		writeFail(w, http.StatusInternalServerError, "failed to mark message")
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, map[string]any{"success": true})
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	me, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	otherID, ok := mux.Vars(r)[muxVarUserID]
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req SendForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	msg, err := h.Service.Send(me.ID, otherID, req.Text, req.Image)
	if err != nil {
		if errors.Is(err, avatar.ErrBadData) {
			writeFail(w, http.StatusBadRequest, "invalid image data")
			return
		}
		h.Logger.Error("send message", "error", err, "user", me.ID)
		writeFail(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	if ok := writeJSON(w, h.Logger, http.StatusCreated, map[string]any{
		"success":    true,
		"newMessage": msg,
	}); ok {
		h.Logger.Info("message sent", "from", me.ID, "to", otherID)
	}
}
