package handler

import (
	"net/http"
	"strconv"

	"farmhub-server/internal/notify"
	"farmhub-server/pkg/response"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	center *notify.Center
}

func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{
		center: center,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"notifications": h.center.List(),
		"unread_count":  h.center.UnreadCount(),
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid notification id")
		return
	}

	h.center.MarkRead(id)
	response.Success(w, map[string]string{"message": "Notification marked read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkAllRead()
	response.Success(w, map[string]string{"message": "All notifications marked read"})
}

func (h *NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid notification id")
		return
	}

	h.center.Remove(id)
	response.NoContent(w)
}
