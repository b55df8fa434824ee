package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "uuid = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM users WHERE uuid = ?)", id).
		Scan(&exists).Error
	return exists, err
}

func (d *Database) SearchUsers(ctx context.Context, q services.ListQuery) ([]models.User, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.User{})
	query = searchAny(query, q.Search, "name", "email")

	var users []models.User
	total, err := page(query, q.PageRequest, orderClause(q.Order, "created_at", "name"), &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
