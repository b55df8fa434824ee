package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoginByPassword = "password"
	LoginByGoogle   = "google"
	LoginByApple    = "apple"
)

type User struct {
	ID           uuid.UUID `gorm:"column:uuid;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	LoginBy      string    `gorm:"column:login_by;not null;default:'password'" json:"login_by"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
