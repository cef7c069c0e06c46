package handler

import (
	"encoding/json"
	"net/http"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/middleware"
	"farmhub-server/internal/service"
	"farmhub-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validate
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator.New(),
	}
}

func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	response.Created(w, map[string]string{
		"conversation_id": h.chatService.StartConversation(),
	})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	conversationID := mux.Vars(r)["id"]

	var req domain.SendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	exchange, err := h.chatService.Send(r.Context(), userID, conversationID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, exchange)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	conversationID := mux.Vars(r)["id"]

	messages, err := h.chatService.History(r.Context(), userID, conversationID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, messages)
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	conversations, err := h.chatService.Conversations(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, conversations)
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	conversationID := mux.Vars(r)["id"]

	if err := h.chatService.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Conversation deleted"})
}
