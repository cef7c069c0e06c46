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

type ForumHandler struct {
	forumService *service.ForumService
	validator    *validator.Validate
}

func NewForumHandler(forumService *service.ForumService) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
		validator:    validator.New(),
	}
}

func (h *ForumHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.forumService.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, categories)
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req domain.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	post, err := h.forumService.CreatePost(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, post)
}

func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")

	posts, err := h.forumService.ListPosts(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, posts)
}

func (h *ForumHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	posts, err := h.forumService.MyPosts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, posts)
}

func (h *ForumHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := h.forumService.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, post)
}

func (h *ForumHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	if err := h.forumService.DeletePost(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Post deleted"})
}

func (h *ForumHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	postID := mux.Vars(r)["id"]

	var req domain.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	comment, err := h.forumService.CreateComment(r.Context(), userID, postID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, comment)
}

func (h *ForumHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	comments, err := h.forumService.ListComments(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, comments)
}

func (h *ForumHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["commentId"]

	if err := h.forumService.DeleteComment(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Comment deleted"})
}
