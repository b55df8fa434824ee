package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
)

const (
	commentUnauthorizedMessage = "Comment not found or unauthorized"
	commentForbiddenMessage    = "User is not allowed to comment on this post"

	EventCommentCreated = "comment_created"
)

// CommentUpdate lists the fields an author may change on a comment.
type CommentUpdate struct {
	Content *string `json:"content"`
}

type CommentView struct {
	CommentID uuid.UUID `json:"comment_id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentEvent struct {
	CommentID uuid.UUID `json:"comment_id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
}

type CommentService struct {
	store    CommentStore
	notifier Notifier
	logger   *slog.Logger
}

func NewCommentService(store CommentStore, notifier Notifier, logger *slog.Logger) *CommentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CommentService{store: store, notifier: notifier, logger: logger.With("component", "services.CommentService")}
}

func NewCommentView(c *models.Comment) CommentView {
	return CommentView{
		CommentID: c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// Add stores a comment from the post author or from a registered user the
// post mentions or is shared with.
func (s *CommentService) Add(ctx context.Context, rawPostID, rawActorID, content string) (*CommentView, error) {
	postID, actorID, err := parsePair(rawPostID, rawActorID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, NewValidationError("content", "content is required")
	}

	post, err := s.livePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != actorID {
		allowed, err := s.store.CanComment(ctx, postID, actorID)
		if err != nil {
			return nil, NewStorageError("check comment permission", err)
		}
		if !allowed {
			return nil, NewForbiddenError("comment", commentForbiddenMessage)
		}
	}

	comment := &models.Comment{PostID: postID, UserID: actorID, Content: content}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, NewStorageError("create comment", err)
	}

	if post.UserID != actorID {
		s.notifier.Notify(post.UserID, EventCommentCreated, CommentEvent{
			CommentID: comment.ID,
			PostID:    postID,
			AuthorID:  actorID,
		})
	}

	view := NewCommentView(comment)
	return &view, nil
}

func (s *CommentService) List(ctx context.Context, rawPostID string, q ListQuery) ([]CommentView, Pagination, error) {
	postID, err := uuid.Parse(rawPostID)
	if err != nil {
		return nil, Pagination{}, NewValidationError("post_id", "Invalid post_id format")
	}

	if _, err := s.livePost(ctx, postID); err != nil {
		return nil, Pagination{}, err
	}

	comments, total, err := s.store.ListComments(ctx, postID, q)
	if err != nil {
		return nil, Pagination{}, NewStorageError("list comments", err)
	}

	views := lo.Map(comments, func(c models.Comment, _ int) CommentView {
		return NewCommentView(&c)
	})
	return views, NewPagination(q.PageRequest, total), nil
}

func (s *CommentService) Update(ctx context.Context, rawCommentID, rawActorID string, upd CommentUpdate) (*CommentView, error) {
	commentID, actorID, err := parsePair(rawCommentID, rawActorID)
	if err != nil {
		return nil, err
	}
	if lo.FromPtr(upd.Content) == "" {
		return nil, NewValidationError("content", "content is required")
	}

	if err := s.checkAuthor(ctx, commentID, actorID); err != nil {
		return nil, err
	}

	comment, err := s.store.UpdateCommentContent(ctx, commentID, *upd.Content)
	if err != nil {
		return nil, NewStorageError("update comment", err)
	}

	view := NewCommentView(comment)
	return &view, nil
}

func (s *CommentService) Delete(ctx context.Context, rawCommentID, rawActorID string) error {
	commentID, actorID, err := parsePair(rawCommentID, rawActorID)
	if err != nil {
		return err
	}

	if err := s.checkAuthor(ctx, commentID, actorID); err != nil {
		return err
	}

	if err := s.store.SoftDeleteComment(ctx, commentID, time.Now()); err != nil {
		return NewStorageError("delete comment", err)
	}
	return nil
}

func (s *CommentService) livePost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post", postNotFoundMessage)
		}
		return nil, NewStorageError("get post", err)
	}
	return post, nil
}

func (s *CommentService) checkAuthor(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewForbiddenError("comment", commentUnauthorizedMessage)
		}
		return NewStorageError("get comment", err)
	}
	if comment.UserID != actorID {
		return NewForbiddenError("comment", commentUnauthorizedMessage)
	}
	return nil
}
