package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
)

// memStore is an in-memory stand-in for the postgres store.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	contacts []models.Contact
	posts    map[uuid.UUID]*models.Post
	mentions []models.PostMention
	shares   []models.PostShare
	comments map[uuid.UUID]*models.Comment

	failInsert error
	locks      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*models.User{},
		posts:    map[uuid.UUID]*models.Post{},
		comments: map[uuid.UUID]*models.Comment{},
	}
}

func (m *memStore) addUser(name string) uuid.UUID {
	id := uuid.New()
	m.users[id] = &models.User{ID: id, Email: strings.ToLower(name) + "@example.com", Name: name, LoginBy: models.LoginByPassword}
	return id
}

func (m *memStore) addContact(owner uuid.UUID, first, last, phone string) uuid.UUID {
	c := models.Contact{ID: uuid.New(), UserID: owner, CreatedAt: time.Now()}
	if first != "" {
		c.FirstName = &first
	}
	if last != "" {
		c.LastName = &last
	}
	if phone != "" {
		c.PhoneNumbers = &phone
	}
	m.contacts = append(m.contacts, c)
	return c.ID
}

// UserStore

func (m *memStore) SaveUser(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) SearchUsers(_ context.Context, q ListQuery) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Search)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, q.PageRequest), int64(len(out)), nil
}

// ContactStore

func (m *memStore) ContactsTx(_ context.Context, fn func(tx ContactStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := append([]models.Contact(nil), m.contacts...)
	if err := fn(m); err != nil {
		m.contacts = snapshot
		return err
	}
	return nil
}

func (m *memStore) LockUserContacts(context.Context, uuid.UUID) error {
	m.locks++
	return nil
}

func (m *memStore) HasContacts(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, c := range m.contacts {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ContactPhoneNumbers(_ context.Context, userID uuid.UUID) ([]string, error) {
	var phones []string
	for _, c := range m.contacts {
		if c.UserID == userID && c.PhoneNumbers != nil && *c.PhoneNumbers != "" {
			phones = append(phones, *c.PhoneNumbers)
		}
	}
	return phones, nil
}

func (m *memStore) InsertContacts(_ context.Context, contacts []models.Contact) (int64, error) {
	if m.failInsert != nil {
		return 0, m.failInsert
	}
	for _, c := range contacts {
		c.ID = uuid.New()
		c.CreatedAt = time.Now()
		m.contacts = append(m.contacts, c)
	}
	return int64(len(contacts)), nil
}

func (m *memStore) ListContacts(_ context.Context, userID uuid.UUID, q ContactListQuery) ([]models.Contact, int64, error) {
	var out []models.Contact
	for _, c := range m.contacts {
		if c.UserID != userID {
			continue
		}
		if q.BookmarkedOnly && c.BookmarkedAt == nil {
			continue
		}
		out = append(out, c)
	}
	return pageOf(out, q.PageRequest), int64(len(out)), nil
}

func (m *memStore) GetContact(_ context.Context, userID, contactID uuid.UUID) (*models.Contact, error) {
	for i := range m.contacts {
		if m.contacts[i].ID == contactID && m.contacts[i].UserID == userID {
			cp := m.contacts[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, columns map[string]interface{}) (*models.Contact, error) {
	for i := range m.contacts {
		c := &m.contacts[i]
		if c.ID != contactID || c.UserID != userID {
			continue
		}
		for col, v := range columns {
			switch col {
			case "firstname":
				c.FirstName = strPtr(v)
			case "phonenumbers":
				c.PhoneNumbers = strPtr(v)
			case "birthday":
				c.Birthday = timePtr(v)
			case "bookmarkedat":
				c.BookmarkedAt = timePtr(v)
			}
		}
		return m.GetContact(ctx, userID, contactID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) DeleteContact(_ context.Context, userID, contactID uuid.UUID) (bool, error) {
	for i, c := range m.contacts {
		if c.ID == contactID && c.UserID == userID {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// TargetStore

func (m *memStore) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

func (m *memStore) ContactOwnedBy(_ context.Context, contactID, ownerID uuid.UUID) (bool, error) {
	for _, c := range m.contacts {
		if c.ID == contactID && c.UserID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

// PostStore

func (m *memStore) PostsTx(_ context.Context, fn func(tx PostStore) error) error {
	posts := len(m.posts)
	mentions, shares := len(m.mentions), len(m.shares)
	if err := fn(m); err != nil {
		if len(m.posts) != posts {
			for id, p := range m.posts {
				if p.CreatedAt.IsZero() {
					delete(m.posts, id)
				}
			}
		}
		m.mentions = m.mentions[:mentions]
		m.shares = m.shares[:shares]
		return err
	}
	for _, p := range m.posts {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
	}
	return nil
}

func (m *memStore) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = uuid.New()
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memStore) InsertMentions(_ context.Context, edges []models.PostMention) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	m.mentions = append(m.mentions, edges...)
	return nil
}

func (m *memStore) InsertShares(_ context.Context, edges []models.PostShare) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	m.shares = append(m.shares, edges...)
	return nil
}

func (m *memStore) GetPost(_ context.Context, postID uuid.UUID) (*models.Post, error) {
	p, ok := m.posts[postID]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetPostWithEdges(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := m.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, e := range m.mentions {
		if e.PostID != postID {
			continue
		}
		if e.MentionedUserID != nil {
			e.MentionedUser = m.users[*e.MentionedUserID]
		}
		if e.MentionedContactID != nil {
			e.MentionedContact, _ = m.GetContact(ctx, post.UserID, *e.MentionedContactID)
		}
		post.Mentions = append(post.Mentions, e)
	}
	for _, e := range m.shares {
		if e.PostID != postID {
			continue
		}
		if e.SharedWithUserID != nil {
			e.SharedWithUser = m.users[*e.SharedWithUserID]
		}
		if e.SharedContactID != nil {
			e.SharedContact, _ = m.GetContact(ctx, post.UserID, *e.SharedContactID)
		}
		post.Shares = append(post.Shares, e)
	}
	return post, nil
}

func (m *memStore) UpdatePostContent(ctx context.Context, postID uuid.UUID, content string) (*models.Post, error) {
	p, ok := m.posts[postID]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	p.Content = content
	return m.GetPost(ctx, postID)
}

func (m *memStore) SoftDeletePost(_ context.Context, postID uuid.UUID, at time.Time) error {
	if p, ok := m.posts[postID]; ok {
		p.IsDeleted = true
		p.DeletedAt = &at
	}
	return nil
}

func (m *memStore) ListUserPosts(_ context.Context, userID uuid.UUID, q ListQuery) ([]models.Post, int64, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.UserID == userID && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return pageOf(out, q.PageRequest), int64(len(out)), nil
}

func (m *memStore) ListFeed(_ context.Context, userID uuid.UUID, q ListQuery) ([]models.Post, int64, error) {
	seen := map[uuid.UUID]bool{}
	for _, e := range m.mentions {
		if e.MentionedUserID != nil && *e.MentionedUserID == userID {
			seen[e.PostID] = true
		}
	}
	for _, e := range m.shares {
		if e.SharedWithUserID != nil && *e.SharedWithUserID == userID {
			seen[e.PostID] = true
		}
	}
	var out []models.Post
	for id := range seen {
		if p, ok := m.posts[id]; ok && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return pageOf(out, q.PageRequest), int64(len(out)), nil
}

// CommentStore

func (m *memStore) CanComment(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	for _, e := range m.mentions {
		if e.PostID == postID && e.MentionedUserID != nil && *e.MentionedUserID == userID {
			return true, nil
		}
	}
	for _, e := range m.shares {
		if e.PostID == postID && e.SharedWithUserID != nil && *e.SharedWithUserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memStore) GetComment(_ context.Context, commentID uuid.UUID) (*models.Comment, error) {
	c, ok := m.comments[commentID]
	if !ok || c.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) UpdateCommentContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error) {
	c, ok := m.comments[commentID]
	if !ok || c.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	c.Content = content
	return m.GetComment(ctx, commentID)
}

func (m *memStore) SoftDeleteComment(_ context.Context, commentID uuid.UUID, at time.Time) error {
	if c, ok := m.comments[commentID]; ok {
		c.IsDeleted = true
		c.DeletedAt = &at
	}
	return nil
}

func (m *memStore) ListComments(_ context.Context, postID uuid.UUID, q ListQuery) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return pageOf(out, q.PageRequest), int64(len(out)), nil
}

func pageOf[T any](rows []T, req PageRequest) []T {
	start := req.Offset()
	if start >= len(rows) {
		return nil
	}
	end := start + req.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func strPtr(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func timePtr(v interface{}) *time.Time {
	if v == nil {
		return nil
	}
	t := v.(time.Time)
	return &t
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(userID uuid.UUID, kind string, payload interface{}) {
	m.Called(userID, kind, payload)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Upload(ctx context.Context, bucket, folder, filename string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, bucket, folder, filename, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, storedURL, bucket string) error {
	return m.Called(ctx, storedURL, bucket).Error(0)
}

func (m *mockBlobStore) PresignURL(ctx context.Context, storedURL, bucket string) string {
	return m.Called(ctx, storedURL, bucket).String(0)
}
