package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

const header = "FirstName,LastName,Companies,Title,Emails,PhoneNumbers,Addresses,Sites,InstantMessageHandles,FullName,Birthday,Location,BookmarkedAt,Profiles\n"

// contactStub keeps contacts in a slice; it is enough for handler wiring.
type contactStub struct {
	rows []models.Contact
}

func (s *contactStub) LockUserContacts(context.Context, uuid.UUID) error { return nil }

func (s *contactStub) HasContacts(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, c := range s.rows {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *contactStub) ContactPhoneNumbers(_ context.Context, userID uuid.UUID) ([]string, error) {
	var out []string
	for _, c := range s.rows {
		if c.UserID == userID && c.PhoneNumbers != nil {
			out = append(out, *c.PhoneNumbers)
		}
	}
	return out, nil
}

func (s *contactStub) InsertContacts(_ context.Context, rows []models.Contact) (int64, error) {
	for _, c := range rows {
		c.ID = uuid.New()
		s.rows = append(s.rows, c)
	}
	return int64(len(rows)), nil
}

func (s *contactStub) ListContacts(_ context.Context, userID uuid.UUID, _ services.ContactListQuery) ([]models.Contact, int64, error) {
	var out []models.Contact
	for _, c := range s.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (s *contactStub) GetContact(_ context.Context, userID, contactID uuid.UUID) (*models.Contact, error) {
	for _, c := range s.rows {
		if c.ID == contactID && c.UserID == userID {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *contactStub) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, _ map[string]interface{}) (*models.Contact, error) {
	return s.GetContact(ctx, userID, contactID)
}

func (s *contactStub) DeleteContact(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *contactStub) ContactsTx(_ context.Context, fn func(tx services.ContactStore) error) error {
	return fn(s)
}

func newContactRouter(store *contactStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContactHandler(services.NewContactService(store, slog.Default()))
	r := gin.New()
	r.POST("/contacts/upload/:user_id", h.Upload)
	r.GET("/contacts/:user_id", h.List)
	r.GET("/contacts/:user_id/:contact_id", h.Get)
	r.PUT("/contacts/:user_id/:contact_id", h.Update)
	r.DELETE("/contacts/:user_id/:contact_id", h.Delete)
	return r
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestContactHandler_Upload(t *testing.T) {
	store := &contactStub{}
	r := newContactRouter(store)
	userID := uuid.NewString()

	upload := func(field, filename, content string) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, field, filename, content)
		req := httptest.NewRequest(http.MethodPost, "/contacts/upload/"+userID, body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing part", func(t *testing.T) {
		w := upload("", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file part in the request.", decode(t, w)["error"])
	})

	t.Run("wrong extension", func(t *testing.T) {
		w := upload("contact", "contacts.xlsx", header)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File is not a CSV file.", decode(t, w)["error"])
	})

	t.Run("missing columns", func(t *testing.T) {
		w := upload("contact", "c.csv", "FirstName\nAnn\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(decode(t, w)["error"].(string), "Missing required columns: "))
	})

	t.Run("inserts then reports nothing new", func(t *testing.T) {
		csv := header + "Ann,,,,,555,,,,,,,,\n"

		w := upload("contact", "c.CSV", csv)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Successfully inserted 1 contacts.", decode(t, w)["message"])

		w = upload("contact", "c.csv", csv)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "No new contacts to insert.", decode(t, w)["message"])
	})
}

func TestContactHandler_ReadAndUpdate(t *testing.T) {
	owner := uuid.New()
	contactID := uuid.New()
	first := "Ann"
	store := &contactStub{rows: []models.Contact{{ID: contactID, UserID: owner, FirstName: &first}}}
	r := newContactRouter(store)

	t.Run("list with pagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts/"+owner.String()+"?page=1&per_page=10", nil))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Len(t, body["contacts"], 1)
		assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total"])
	})

	t.Run("bad paging", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts/"+owner.String()+"?per_page=500", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Per page must be between 1 and 100", decode(t, w)["error"])
	})

	t.Run("foreign contact is not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts/"+uuid.NewString()+"/"+contactID.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Contact not found or does not belong to the user", decode(t, w)["error"])
	})

	t.Run("unknown update field", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/contacts/"+owner.String()+"/"+contactID.String(), strings.NewReader(`{"Nickname":"a"}`))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid fields provided: Nickname", decode(t, w)["error"])
	})

	t.Run("delete missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/contacts/"+owner.String()+"/"+contactID.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
