package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/repository"
	"farmhub-server/internal/store"

	"github.com/google/uuid"
)

type ForumService struct {
	postStore    *store.EntityStore[*domain.ForumPost]
	commentStore *store.EntityStore[*domain.ForumComment]
	postRepo     EntityRepo[*domain.ForumPost]
	commentRepo  EntityRepo[*domain.ForumComment]
	categoryRepo *repository.CategoryRepository
}

func NewForumService(
	postStore *store.EntityStore[*domain.ForumPost],
	commentStore *store.EntityStore[*domain.ForumComment],
	postRepo EntityRepo[*domain.ForumPost],
	commentRepo EntityRepo[*domain.ForumComment],
	categoryRepo *repository.CategoryRepository,
) *ForumService {
	return &ForumService{
		postStore:    postStore,
		commentStore: commentStore,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *ForumService) Categories(ctx context.Context) ([]*domain.ForumCategory, error) {
	return s.categoryRepo.List(ctx)
}

func (s *ForumService) CreatePost(ctx context.Context, userID string, req *domain.CreatePostRequest) (*domain.ForumPost, error) {
	post := &domain.ForumPost{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.postStore.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// ListPosts returns the whole board newest first, optionally filtered by
// category. Pinned posts float to the top.
func (s *ForumService) ListPosts(ctx context.Context, categoryID string) ([]*domain.ForumPost, error) {
	var posts []*domain.ForumPost
	var err error
	if categoryID != "" {
		posts, err = s.postRepo.ListBy(ctx, "category_id", categoryID)
	} else {
		posts, err = s.postRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].IsPinned != posts[j].IsPinned {
			return posts[i].IsPinned
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// MyPosts returns the caller's own posts newest first.
func (s *ForumService) MyPosts(ctx context.Context, userID string) ([]*domain.ForumPost, error) {
	return s.postStore.List(ctx, userID)
}

// GetPost fetches one post and counts the view.
func (s *ForumService) GetPost(ctx context.Context, id string) (*domain.ForumPost, error) {
	post, err := s.postRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Views++
	if err := s.postRepo.Update(ctx, post); err != nil {
		// The view counter is cosmetic; serving the post matters more.
		post.Views--
	}
	return post, nil
}

// DeletePost removes the post. Only its author may do so.
func (s *ForumService) DeletePost(ctx context.Context, userID, id string) error {
	post, err := s.postRepo.Find(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.postStore.Delete(ctx, id)
}

func (s *ForumService) CreateComment(ctx context.Context, userID, postID string, req *domain.CreateCommentRequest) (*domain.ForumComment, error) {
	if _, err := s.postRepo.Find(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.ForumComment{
		ID:        uuid.New().String(),
		UserID:    userID,
		PostID:    postID,
		Content:   req.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.commentStore.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the post's comments oldest first, the order a thread
// reads in.
func (s *ForumService) ListComments(ctx context.Context, postID string) ([]*domain.ForumComment, error) {
	comments, err := s.commentRepo.ListBy(ctx, "post_id", postID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// DeleteComment removes the comment. Only its author may do so.
func (s *ForumService) DeleteComment(ctx context.Context, userID, id string) error {
	comment, err := s.commentRepo.Find(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.commentStore.Delete(ctx, id)
}
