package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/services"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// DB exposes the underlying handle for health checks and tests.
func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tx runs fn against a Database bound to one transaction.
func (d *Database) tx(ctx context.Context, fn func(tx *Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx})
	})
}

var (
	_ services.UserStore    = (*Database)(nil)
	_ services.ContactStore = (*Database)(nil)
	_ services.PostStore    = (*Database)(nil)
	_ services.CommentStore = (*Database)(nil)
)
