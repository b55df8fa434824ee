package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

func (d *Database) CreateComment(ctx context.Context, comment *models.Comment) error {
	return d.db.WithContext(ctx).Create(comment).Error
}

func (d *Database) GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	comment := models.Comment{}
	err := d.db.WithContext(ctx).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (d *Database) UpdateCommentContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error) {
	res := d.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Update("content", content)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.GetComment(ctx, commentID)
}

func (d *Database) SoftDeleteComment(ctx context.Context, commentID uuid.UUID, at time.Time) error {
	return d.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": at}).Error
}

func (d *Database) ListComments(ctx context.Context, postID uuid.UUID, q services.ListQuery) ([]models.Comment, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false)
	query = searchAny(query, q.Search, "content")

	var comments []models.Comment
	total, err := page(query, q.PageRequest, orderClause(q.Order, "created_at", "content"), &comments)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
