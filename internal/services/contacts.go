package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/metrics"
	"github.com/thereayou/relyexchange/internal/models"
)

const contactNotFoundMessage = "Contact not found or does not belong to the user"

type ContactListQuery struct {
	ListQuery
	BookmarkedOnly bool
}

type ContactService struct {
	store  ContactStore
	logger *slog.Logger
}

func NewContactService(store ContactStore, logger *slog.Logger) *ContactService {
	return &ContactService{store: store, logger: logger.With("component", "services.ContactService")}
}

// ParseUserID validates a user identifier supplied in a path or body.
func ParseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError("user_id", "Invalid user_id format. Must be a UUID.")
	}
	return id, nil
}

// AdmitContacts keeps the rows whose phone number is non-empty and not yet
// stored for the user. On a user's first import every row is admitted,
// including rows without a phone number.
func AdmitContacts(incoming []models.Contact, existing []string, firstImport bool) []models.Contact {
	if firstImport {
		return incoming
	}

	known := lo.Associate(existing, func(phone string) (string, bool) {
		return phone, true
	})

	return lo.Filter(incoming, func(c models.Contact, _ int) bool {
		phone := lo.FromPtr(c.PhoneNumbers)
		return phone != "" && !known[phone]
	})
}

// Import parses a contacts spreadsheet and stores the rows that are new for
// the user. It returns the number of contacts inserted.
func (s *ContactService) Import(ctx context.Context, rawUserID string, csvFile io.Reader) (int, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return 0, err
	}

	incoming, err := ParseContactsCSV(csvFile, userID)
	if err != nil {
		return 0, err
	}

	var inserted int64
	err = s.store.ContactsTx(ctx, func(tx ContactStore) error {
		if err := tx.LockUserContacts(ctx, userID); err != nil {
			return err
		}

		hasContacts, err := tx.HasContacts(ctx, userID)
		if err != nil {
			return err
		}

		var existing []string
		if hasContacts {
			existing, err = tx.ContactPhoneNumbers(ctx, userID)
			if err != nil {
				return err
			}
		}

		admitted := AdmitContacts(incoming, existing, !hasContacts)
		if len(admitted) == 0 {
			return nil
		}

		inserted, err = tx.InsertContacts(ctx, admitted)
		return err
	})
	if err != nil {
		return 0, NewStorageError("import contacts", err)
	}

	metrics.ContactsImported.Add(float64(inserted))
	metrics.ContactsSkipped.Add(float64(int64(len(incoming)) - inserted))
	s.logger.Info("contacts imported", "user_id", userID, "rows", len(incoming), "inserted", inserted)

	return int(inserted), nil
}

func (s *ContactService) List(ctx context.Context, rawUserID string, q ContactListQuery) ([]models.Contact, Pagination, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return nil, Pagination{}, err
	}

	contacts, total, err := s.store.ListContacts(ctx, userID, q)
	if err != nil {
		return nil, Pagination{}, NewStorageError("list contacts", err)
	}

	return contacts, NewPagination(q.PageRequest, total), nil
}

func (s *ContactService) Get(ctx context.Context, rawUserID, rawContactID string) (*models.Contact, error) {
	userID, contactID, err := parseContactPath(rawUserID, rawContactID)
	if err != nil {
		return nil, err
	}

	contact, err := s.store.GetContact(ctx, userID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("contact", contactNotFoundMessage)
		}
		return nil, NewStorageError("get contact", err)
	}
	return contact, nil
}

func (s *ContactService) Update(ctx context.Context, rawUserID, rawContactID string, upd ContactUpdate) (*models.Contact, error) {
	userID, contactID, err := parseContactPath(rawUserID, rawContactID)
	if err != nil {
		return nil, err
	}

	columns, err := upd.Columns()
	if err != nil {
		return nil, err
	}

	contact, err := s.store.UpdateContact(ctx, userID, contactID, columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("contact", contactNotFoundMessage)
		}
		return nil, NewStorageError("update contact", err)
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, rawUserID, rawContactID string) error {
	userID, contactID, err := parseContactPath(rawUserID, rawContactID)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteContact(ctx, userID, contactID)
	if err != nil {
		return NewStorageError("delete contact", err)
	}
	if !deleted {
		return NewNotFoundError("contact", contactNotFoundMessage)
	}
	return nil
}

// A contact id that is not a UUID cannot match any row, so it is reported
// the same way as a foreign or missing contact.
func parseContactPath(rawUserID, rawContactID string) (uuid.UUID, uuid.UUID, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	contactID, err := uuid.Parse(rawContactID)
	if err != nil {
		return uuid.Nil, uuid.Nil, NewNotFoundError("contact", contactNotFoundMessage)
	}
	return userID, contactID, nil
}
