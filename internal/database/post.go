package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

func (d *Database) PostsTx(ctx context.Context, fn func(tx services.PostStore) error) error {
	return d.tx(ctx, func(tx *Database) error {
		return fn(tx)
	})
}

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// InsertMentions skips edges already stored for the same post and target.
func (d *Database) InsertMentions(ctx context.Context, edges []models.PostMention) error {
	if len(edges) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
}

func (d *Database) InsertShares(ctx context.Context, edges []models.PostShare) error {
	if len(edges) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
}

func (d *Database) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post := models.Post{}
	err := d.db.WithContext(ctx).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (d *Database) GetPostWithEdges(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post := models.Post{}
	err := d.db.WithContext(ctx).
		Preload("Mentions.MentionedUser").
		Preload("Mentions.MentionedContact").
		Preload("Shares.SharedWithUser").
		Preload("Shares.SharedContact").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (d *Database) UpdatePostContent(ctx context.Context, postID uuid.UUID, content string) (*models.Post, error) {
	res := d.db.WithContext(ctx).Model(&models.Post{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Update("content", content)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.GetPost(ctx, postID)
}

func (d *Database) SoftDeletePost(ctx context.Context, postID uuid.UUID, at time.Time) error {
	return d.db.WithContext(ctx).Model(&models.Post{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": at}).Error
}

func (d *Database) ListUserPosts(ctx context.Context, userID uuid.UUID, q services.ListQuery) ([]models.Post, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)
	query = searchAny(query, q.Search, "content")

	var posts []models.Post
	total, err := page(query, q.PageRequest, orderClause(q.Order, "created_at", "content"), &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListFeed lists live posts that mention the user or are shared with them.
func (d *Database) ListFeed(ctx context.Context, userID uuid.UUID, q services.ListQuery) ([]models.Post, int64, error) {
	db := d.db.WithContext(ctx)
	mentioned := db.Model(&models.PostMention{}).Select("post_id").Where("mentioned_user_id = ?", userID)
	shared := db.Model(&models.PostShare{}).Select("post_id").Where("shared_with_user_id = ?", userID)

	query := db.Model(&models.Post{}).
		Where("is_deleted = ?", false).
		Where(db.Where("post_id IN (?)", mentioned).Or("post_id IN (?)", shared))
	query = searchAny(query, q.Search, "content")

	var posts []models.Post
	total, err := page(query, q.PageRequest, orderClause(q.Order, "created_at", "content"), &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CanComment reports whether userID is a registered mention or share target
// of the post.
func (d *Database) CanComment(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var allowed bool
	err := d.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM post_mentions WHERE post_id = ? AND mentioned_user_id = ?)
		    OR EXISTS (SELECT 1 FROM post_shares WHERE post_id = ? AND shared_with_user_id = ?)`,
		postID, userID, postID, userID).
		Scan(&allowed).Error
	return allowed, err
}
