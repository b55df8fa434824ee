package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/thereayou/relyexchange/internal/models"
)

// RequiredColumns lists the header names every contacts spreadsheet must carry.
var RequiredColumns = []string{
	"FirstName", "LastName", "Companies", "Title", "Emails", "PhoneNumbers",
	"Addresses", "Sites", "InstantMessageHandles", "FullName", "Birthday",
	"Location", "BookmarkedAt", "Profiles",
}

const utf8BOM = "\ufeff"

// ParseContactsCSV turns a spreadsheet export into contacts owned by userID.
// Birthday and BookmarkedAt that fail to parse are stored as nil.
func ParseContactsCSV(r io.Reader, userID uuid.UUID) ([]models.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, NewValidationError("contact", fmt.Sprintf("Error reading file: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[name] = i
	}

	missing := lo.Filter(RequiredColumns, func(col string, _ int) bool {
		_, ok := index[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, NewValidationError("contact", "Missing required columns: "+strings.Join(missing, ", "))
	}

	var contacts []models.Contact
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewValidationError("contact", fmt.Sprintf("Error reading file: %v", err))
		}

		cell := func(col string) *string {
			i := index[col]
			if i >= len(record) || record[i] == "" {
				return nil
			}
			v := record[i]
			return &v
		}
		raw := func(col string) string {
			return lo.FromPtr(cell(col))
		}

		contacts = append(contacts, models.Contact{
			UserID:                userID,
			FirstName:             cell("FirstName"),
			LastName:              cell("LastName"),
			Companies:             cell("Companies"),
			Title:                 cell("Title"),
			Emails:                cell("Emails"),
			PhoneNumbers:          cell("PhoneNumbers"),
			Addresses:             cell("Addresses"),
			Sites:                 cell("Sites"),
			InstantMessageHandles: cell("InstantMessageHandles"),
			FullName:              cell("FullName"),
			Birthday:              ParseBirthday(raw("Birthday")),
			Location:              cell("Location"),
			BookmarkedAt:          ParseBookmarkedAt(raw("BookmarkedAt")),
			Profiles:              cell("Profiles"),
		})
	}

	if len(contacts) == 0 {
		return nil, NewValidationError("contact", "No data found in CSV file.")
	}

	return contacts, nil
}
