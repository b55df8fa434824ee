package services

import (
	"io"
	"time"

	"github.com/samber/lo"
)

// ContactUpdate enumerates every column a client may change on a contact.
// Empty strings are stored as NULL.
type ContactUpdate struct {
	FirstName             Optional[string] `json:"FirstName"`
	LastName              Optional[string] `json:"LastName"`
	Companies             Optional[string] `json:"Companies"`
	Title                 Optional[string] `json:"Title"`
	Emails                Optional[string] `json:"Emails"`
	PhoneNumbers          Optional[string] `json:"PhoneNumbers"`
	Addresses             Optional[string] `json:"Addresses"`
	Sites                 Optional[string] `json:"Sites"`
	InstantMessageHandles Optional[string] `json:"InstantMessageHandles"`
	FullName              Optional[string] `json:"FullName"`
	Birthday              Optional[string] `json:"Birthday"`
	Location              Optional[string] `json:"Location"`
	BookmarkedAt          Optional[string] `json:"BookmarkedAt"`
	Profiles              Optional[string] `json:"Profiles"`
}

// DecodeContactUpdate reads a JSON object and rejects keys that are not
// contact columns.
func DecodeContactUpdate(r io.Reader) (ContactUpdate, error) {
	var upd ContactUpdate
	err := decodeStrict(r, &upd)
	return upd, err
}

// Columns validates the date fields and returns the column/value pairs to write.
func (u ContactUpdate) Columns() (map[string]interface{}, error) {
	columns := map[string]interface{}{}

	text := func(column string, o Optional[string]) {
		if !o.Set {
			return
		}
		if o.Value == nil || *o.Value == "" {
			columns[column] = nil
			return
		}
		columns[column] = *o.Value
	}

	text("firstname", u.FirstName)
	text("lastname", u.LastName)
	text("companies", u.Companies)
	text("title", u.Title)
	text("emails", u.Emails)
	text("phonenumbers", u.PhoneNumbers)
	text("addresses", u.Addresses)
	text("sites", u.Sites)
	text("instantmessagehandles", u.InstantMessageHandles)
	text("fullname", u.FullName)
	text("location", u.Location)
	text("profiles", u.Profiles)

	if u.Birthday.Set {
		if raw := lo.FromPtr(u.Birthday.Value); raw == "" {
			columns["birthday"] = nil
		} else if t, err := time.Parse(DateLayout, raw); err == nil {
			columns["birthday"] = t
		} else {
			return nil, NewValidationError("Birthday", "Birthday must be in YYYY-MM-DD format")
		}
	}

	if u.BookmarkedAt.Set {
		if raw := lo.FromPtr(u.BookmarkedAt.Value); raw == "" {
			columns["bookmarkedat"] = nil
		} else if t := ParseBookmarkedAt(raw); t != nil {
			columns["bookmarkedat"] = *t
		} else {
			return nil, NewValidationError("BookmarkedAt", "BookmarkedAt must be in YYYY-MM-DD HH:MM:SS or YYYY-MM-DD format")
		}
	}

	if len(columns) == 0 {
		return nil, NewValidationError("body", "No update data provided")
	}

	return columns, nil
}
