package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/metrics"
	"github.com/thereayou/relyexchange/internal/models"
)

const (
	postNotFoundMessage     = "Post not found"
	postUnauthorizedMessage = "Post not found or unauthorized"

	EventPostMention = "post_mention"
	EventPostShare   = "post_share"
)

type Attachment struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CreatePostInput struct {
	Content    string
	Mentions   []string
	Shares     []string
	Attachment *Attachment
}

// PostUpdate lists the fields an author may change on a post.
type PostUpdate struct {
	Content *string `json:"content"`
}

type PostView struct {
	PostID        uuid.UUID  `json:"post_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Content       string     `json:"content"`
	AttachmentURL *string    `json:"attachment_url"`
	CreatedAt     time.Time  `json:"created_at"`
	Mentions      []EdgeView `json:"mentions,omitempty"`
	Shares        []EdgeView `json:"shares,omitempty"`
}

type PostEvent struct {
	PostID   uuid.UUID `json:"post_id"`
	AuthorID uuid.UUID `json:"author_id"`
}

type PostService struct {
	store    PostStore
	resolver *VisibilityResolver
	blobs    BlobStore
	bucket   string
	notifier Notifier
	logger   *slog.Logger
}

func NewPostService(store PostStore, blobs BlobStore, bucket string, notifier Notifier, logger *slog.Logger) *PostService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &PostService{
		store:    store,
		resolver: NewVisibilityResolver(store),
		blobs:    blobs,
		bucket:   bucket,
		notifier: notifier,
		logger:   logger.With("component", "services.PostService"),
	}
}

// Create resolves every mention and share before writing anything, then
// stores the post and its edges in one transaction.
func (s *PostService) Create(ctx context.Context, rawAuthorID string, in CreatePostInput) (*PostView, error) {
	authorID, err := ParseUserID(rawAuthorID)
	if err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, NewValidationError("content", "content is required")
	}

	mentions, err := s.resolver.Resolve(ctx, authorID, in.Mentions, RelationMention)
	if err != nil {
		return nil, err
	}
	shares, err := s.resolver.Resolve(ctx, authorID, in.Shares, RelationShare)
	if err != nil {
		return nil, err
	}

	post := &models.Post{UserID: authorID, Content: in.Content}

	if in.Attachment != nil {
		if s.blobs == nil {
			return nil, NewValidationError("attachment", "attachments are not enabled")
		}
		filename := uuid.NewString() + "-" + path.Base(in.Attachment.Filename)
		url, err := s.blobs.Upload(ctx, s.bucket, "posts/"+authorID.String(), filename, in.Attachment.Body, in.Attachment.ContentType)
		if err != nil {
			return nil, NewStorageError("upload attachment", err)
		}
		post.AttachmentURL = &url
	}

	err = s.store.PostsTx(ctx, func(tx PostStore) error {
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}
		if len(mentions) > 0 {
			if err := tx.InsertMentions(ctx, MentionEdges(post.ID, mentions)); err != nil {
				return err
			}
		}
		if len(shares) > 0 {
			if err := tx.InsertShares(ctx, ShareEdges(post.ID, shares)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if post.AttachmentURL != nil {
			s.discardAttachment(*post.AttachmentURL)
		}
		return nil, NewStorageError("create post", err)
	}

	s.recordEdges(RelationMention, mentions)
	s.recordEdges(RelationShare, shares)
	s.notifyTargets(post, EventPostMention, mentions)
	s.notifyTargets(post, EventPostShare, shares)

	s.logger.Info("post created", "post_id", post.ID, "user_id", authorID,
		"mentions", len(mentions), "shares", len(shares))

	return s.Get(ctx, post.ID.String())
}

// discardAttachment removes an upload whose post was never stored.
func (s *PostService) discardAttachment(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, url, s.bucket); err != nil {
		s.logger.Warn("orphaned attachment", "url", url, "error", err)
	}
}

func (s *PostService) recordEdges(rel Relation, targets []Target) {
	for _, t := range targets {
		metrics.PostEdges.WithLabelValues(string(rel), string(t.Kind)).Inc()
	}
}

func (s *PostService) notifyTargets(post *models.Post, event string, targets []Target) {
	for _, t := range targets {
		if t.Kind != EdgeRegistered || t.ID == post.UserID {
			continue
		}
		s.notifier.Notify(t.ID, event, PostEvent{PostID: post.ID, AuthorID: post.UserID})
	}
}

// Get returns a live post with display names for its edges and a presigned
// attachment link.
func (s *PostService) Get(ctx context.Context, rawPostID string) (*PostView, error) {
	postID, err := uuid.Parse(rawPostID)
	if err != nil {
		return nil, NewValidationError("post_id", "Invalid post_id format")
	}

	post, err := s.store.GetPostWithEdges(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post", postNotFoundMessage)
		}
		return nil, NewStorageError("get post", err)
	}

	view := s.view(ctx, post)
	view.Mentions = MentionViews(post.Mentions)
	view.Shares = ShareViews(post.Shares)
	return &view, nil
}

func (s *PostService) Update(ctx context.Context, rawPostID, rawActorID string, upd PostUpdate) (*PostView, error) {
	postID, actorID, err := parsePair(rawPostID, rawActorID)
	if err != nil {
		return nil, err
	}
	if lo.FromPtr(upd.Content) == "" {
		return nil, NewValidationError("content", "content is required")
	}

	if _, err := s.ownedPost(ctx, postID, actorID); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePostContent(ctx, postID, *upd.Content)
	if err != nil {
		return nil, NewStorageError("update post", err)
	}

	view := s.view(ctx, post)
	return &view, nil
}

func (s *PostService) Delete(ctx context.Context, rawPostID, rawActorID string) error {
	postID, actorID, err := parsePair(rawPostID, rawActorID)
	if err != nil {
		return err
	}

	if _, err := s.ownedPost(ctx, postID, actorID); err != nil {
		return err
	}

	if err := s.store.SoftDeletePost(ctx, postID, time.Now()); err != nil {
		return NewStorageError("delete post", err)
	}
	return nil
}

func (s *PostService) ListByUser(ctx context.Context, rawUserID string, q ListQuery) ([]PostView, Pagination, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return nil, Pagination{}, err
	}

	posts, total, err := s.store.ListUserPosts(ctx, userID, q)
	if err != nil {
		return nil, Pagination{}, NewStorageError("list posts", err)
	}
	return s.views(ctx, posts), NewPagination(q.PageRequest, total), nil
}

// Feed lists posts in which the user is mentioned or that are shared with them.
func (s *PostService) Feed(ctx context.Context, rawUserID string, q ListQuery) ([]PostView, Pagination, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return nil, Pagination{}, err
	}

	posts, total, err := s.store.ListFeed(ctx, userID, q)
	if err != nil {
		return nil, Pagination{}, NewStorageError("list feed", err)
	}
	return s.views(ctx, posts), NewPagination(q.PageRequest, total), nil
}

func (s *PostService) ownedPost(ctx context.Context, postID, actorID uuid.UUID) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewForbiddenError("post", postUnauthorizedMessage)
		}
		return nil, NewStorageError("get post", err)
	}
	if post.UserID != actorID {
		return nil, NewForbiddenError("post", postUnauthorizedMessage)
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, post *models.Post) PostView {
	view := PostView{
		PostID:    post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}
	if post.AttachmentURL != nil {
		url := *post.AttachmentURL
		if s.blobs != nil {
			url = s.blobs.PresignURL(ctx, url, s.bucket)
		}
		view.AttachmentURL = &url
	}
	return view
}

func (s *PostService) views(ctx context.Context, posts []models.Post) []PostView {
	return lo.Map(posts, func(p models.Post, _ int) PostView {
		return s.view(ctx, &p)
	})
}

func parsePair(rawID, rawActorID string) (uuid.UUID, uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, uuid.Nil, NewValidationError("id", "Invalid UUID format")
	}
	actorID, err := uuid.Parse(rawActorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, NewValidationError("user_id", "Invalid UUID format")
	}
	return id, actorID, nil
}
