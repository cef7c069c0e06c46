package domain

import "time"

type ForumCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ForumPost struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Views      int       `json:"views"`
	IsPinned   bool      `json:"is_pinned"`
	IsLocked   bool      `json:"is_locked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *ForumPost) EntityID() string { return p.ID }

func (p *ForumPost) OwnerID() string { return p.UserID }

func (p *ForumPost) CreatedTime() time.Time { return p.CreatedAt }

type ForumComment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PostID     string    `json:"post_id"`
	Content    string    `json:"content"`
	IsSolution bool      `json:"is_solution"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *ForumComment) EntityID() string { return c.ID }

func (c *ForumComment) OwnerID() string { return c.UserID }

func (c *ForumComment) CreatedTime() time.Time { return c.CreatedAt }

type CreatePostRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}
