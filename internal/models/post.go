package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID            uuid.UUID  `gorm:"column:post_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content       string     `gorm:"not null"`
	AttachmentURL *string    `gorm:"column:attachment_url"`
	CreatedAt     time.Time
	IsDeleted     bool       `gorm:"not null;default:false"`
	DeletedAt     *time.Time `gorm:"column:deleted_at"`

	// Relations
	Mentions []PostMention `gorm:"foreignKey:PostID"`
	Shares   []PostShare   `gorm:"foreignKey:PostID"`
}

// PostMention references exactly one of a registered user or a contact.
type PostMention struct {
	PostID             uuid.UUID  `gorm:"type:uuid;not null"`
	MentionedUserID    *uuid.UUID `gorm:"type:uuid"`
	MentionedContactID *uuid.UUID `gorm:"type:uuid"`

	MentionedUser    *User    `gorm:"foreignKey:MentionedUserID"`
	MentionedContact *Contact `gorm:"foreignKey:MentionedContactID"`
}

// PostShare references exactly one of a registered user or a contact.
type PostShare struct {
	PostID           uuid.UUID  `gorm:"type:uuid;not null"`
	SharedWithUserID *uuid.UUID `gorm:"type:uuid"`
	SharedContactID  *uuid.UUID `gorm:"type:uuid"`

	SharedWithUser *User    `gorm:"foreignKey:SharedWithUserID"`
	SharedContact  *Contact `gorm:"foreignKey:SharedContactID"`
}
