package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

const contactBatchSize = 500

func (d *Database) ContactsTx(ctx context.Context, fn func(tx services.ContactStore) error) error {
	return d.tx(ctx, func(tx *Database) error {
		return fn(tx)
	})
}

// LockUserContacts serialises imports for one user until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (d *Database) LockUserContacts(ctx context.Context, userID uuid.UUID) error {
	return d.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID.String()).Error
}

// HasContacts reports whether any contact row exists for the user, with or
// without a phone number.
func (d *Database) HasContacts(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM contacts WHERE user_id = ?)", userID).
		Scan(&exists).Error
	return exists, err
}

// ContactPhoneNumbers returns the distinct non-empty phone values stored for
// the user.
func (d *Database) ContactPhoneNumbers(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var phones []string
	err := d.db.WithContext(ctx).Model(&models.Contact{}).
		Distinct("phonenumbers").
		Where("user_id = ? AND phonenumbers IS NOT NULL AND phonenumbers <> ''", userID).
		Pluck("phonenumbers", &phones).Error
	return phones, err
}

func (d *Database) InsertContacts(ctx context.Context, contacts []models.Contact) (int64, error) {
	if len(contacts) == 0 {
		return 0, nil
	}
	res := d.db.WithContext(ctx).CreateInBatches(&contacts, contactBatchSize)
	return res.RowsAffected, res.Error
}

func (d *Database) ListContacts(ctx context.Context, userID uuid.UUID, q services.ContactListQuery) ([]models.Contact, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Contact{}).Where("user_id = ?", userID)
	if q.BookmarkedOnly {
		query = query.Where("bookmarkedat IS NOT NULL")
	}
	query = searchAny(query, q.Search,
		"firstname", "lastname", "fullname", "companies", "emails", "phonenumbers")

	var contacts []models.Contact
	total, err := page(query, q.PageRequest, orderClause(q.Order, "createdat", "firstname"), &contacts)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (d *Database) GetContact(ctx context.Context, userID, contactID uuid.UUID) (*models.Contact, error) {
	contact := models.Contact{}
	err := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (d *Database) ContactOwnedBy(ctx context.Context, contactID, ownerID uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM contacts WHERE id = ? AND user_id = ?)", contactID, ownerID).
		Scan(&exists).Error
	return exists, err
}

// UpdateContact applies columns to an owned contact and returns the stored
// row. A missing or foreign contact yields gorm.ErrRecordNotFound.
func (d *Database) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, columns map[string]interface{}) (*models.Contact, error) {
	res := d.db.WithContext(ctx).Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", contactID, userID).
		Updates(columns)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.GetContact(ctx, userID, contactID)
}

func (d *Database) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&models.Contact{})
	return res.RowsAffected > 0, res.Error
}
