package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `gorm:"column:comment_id;type:uuid;default:gen_random_uuid();primaryKey"`
	PostID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null"`
	Content   string     `gorm:"not null"`
	CreatedAt time.Time
	IsDeleted bool       `gorm:"not null;default:false"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}
