package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an imported address-book entry. Text columns keep the raw
// delimited blobs from the source spreadsheet.
type Contact struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	FirstName             *string    `gorm:"column:firstname" json:"FirstName"`
	LastName              *string    `gorm:"column:lastname" json:"LastName"`
	Companies             *string    `gorm:"column:companies" json:"Companies"`
	Title                 *string    `gorm:"column:title" json:"Title"`
	Emails                *string    `gorm:"column:emails" json:"Emails"`
	PhoneNumbers          *string    `gorm:"column:phonenumbers" json:"PhoneNumbers"`
	Addresses             *string    `gorm:"column:addresses" json:"Addresses"`
	Sites                 *string    `gorm:"column:sites" json:"Sites"`
	InstantMessageHandles *string    `gorm:"column:instantmessagehandles" json:"InstantMessageHandles"`
	FullName              *string    `gorm:"column:fullname" json:"FullName"`
	Birthday              *time.Time `gorm:"column:birthday;type:date" json:"Birthday"`
	Location              *string    `gorm:"column:location" json:"Location"`
	BookmarkedAt          *time.Time `gorm:"column:bookmarkedat" json:"BookmarkedAt"`
	Profiles              *string    `gorm:"column:profiles" json:"Profiles"`
	CreatedAt             time.Time  `gorm:"column:createdat;autoCreateTime" json:"created_at"`
}

// DisplayName joins first and last name; nil when either half is missing.
func (c *Contact) DisplayName() *string {
	if c.FirstName == nil || c.LastName == nil {
		return nil
	}
	name := *c.FirstName + " " + *c.LastName
	return &name
}
