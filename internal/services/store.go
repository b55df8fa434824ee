package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/relyexchange/internal/models"
)

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, q ListQuery) ([]models.User, int64, error)
}

type ContactStore interface {
	LockUserContacts(ctx context.Context, userID uuid.UUID) error
	HasContacts(ctx context.Context, userID uuid.UUID) (bool, error)
	ContactPhoneNumbers(ctx context.Context, userID uuid.UUID) ([]string, error)
	InsertContacts(ctx context.Context, contacts []models.Contact) (int64, error)
	ListContacts(ctx context.Context, userID uuid.UUID, q ContactListQuery) ([]models.Contact, int64, error)
	GetContact(ctx context.Context, userID, contactID uuid.UUID) (*models.Contact, error)
	UpdateContact(ctx context.Context, userID, contactID uuid.UUID, columns map[string]interface{}) (*models.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID uuid.UUID) (bool, error)
	ContactsTx(ctx context.Context, fn func(tx ContactStore) error) error
}

// TargetStore answers the two membership questions behind mention/share resolution.
type TargetStore interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ContactOwnedBy(ctx context.Context, contactID, ownerID uuid.UUID) (bool, error)
}

type PostStore interface {
	TargetStore
	CreatePost(ctx context.Context, post *models.Post) error
	InsertMentions(ctx context.Context, edges []models.PostMention) error
	InsertShares(ctx context.Context, edges []models.PostShare) error
	GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	GetPostWithEdges(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	UpdatePostContent(ctx context.Context, postID uuid.UUID, content string) (*models.Post, error)
	SoftDeletePost(ctx context.Context, postID uuid.UUID, at time.Time) error
	ListUserPosts(ctx context.Context, userID uuid.UUID, q ListQuery) ([]models.Post, int64, error)
	ListFeed(ctx context.Context, userID uuid.UUID, q ListQuery) ([]models.Post, int64, error)
	PostsTx(ctx context.Context, fn func(tx PostStore) error) error
}

type CommentStore interface {
	GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	CanComment(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)
	UpdateCommentContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error)
	SoftDeleteComment(ctx context.Context, commentID uuid.UUID, at time.Time) error
	ListComments(ctx context.Context, postID uuid.UUID, q ListQuery) ([]models.Comment, int64, error)
}

// BlobStore uploads attachments and hands out time-limited links to them.
type BlobStore interface {
	Upload(ctx context.Context, bucket, folder, filename string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, storedURL, bucket string) error
	PresignURL(ctx context.Context, storedURL, bucket string) string
}

// Notifier delivers best-effort events to connected users.
type Notifier interface {
	Notify(userID uuid.UUID, kind string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, interface{}) {}
