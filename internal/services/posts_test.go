package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	store    *memStore
	notifier *mockNotifier
	svc      *PostService
	author   uuid.UUID
	friend   uuid.UUID
	contact  uuid.UUID
}

func newPostFixture(t *testing.T, blobs BlobStore) *postFixture {
	t.Helper()
	store := newMemStore()
	notifier := &mockNotifier{}
	f := &postFixture{
		store:    store,
		notifier: notifier,
		svc:      NewPostService(store, blobs, "media", notifier, slog.Default()),
		author:   store.addUser("Author"),
		friend:   store.addUser("Friend"),
	}
	f.contact = store.addContact(f.author, "Ann", "Lee", "1")
	return f
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("writes post and edges and notifies registered targets", func(t *testing.T) {
		f := newPostFixture(t, nil)
		f.notifier.On("Notify", f.friend, EventPostMention, mock.AnythingOfType("services.PostEvent")).Once()

		view, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{
			Content:  "hello",
			Mentions: []string{f.friend.String(), f.contact.String()},
			Shares:   []string{f.contact.String()},
		})
		require.NoError(t, err)

		assert.Equal(t, "hello", view.Content)
		require.Len(t, view.Mentions, 2)
		assert.Equal(t, EdgeRegistered, view.Mentions[0].Type)
		assert.Equal(t, "Friend", *view.Mentions[0].DisplayName)
		assert.Equal(t, EdgeContact, view.Mentions[1].Type)
		assert.Equal(t, "Ann Lee", *view.Mentions[1].DisplayName)
		require.Len(t, view.Shares, 1)
		assert.Equal(t, f.contact, view.Shares[0].ID)

		f.notifier.AssertExpectations(t)
	})

	t.Run("unresolved share leaves no trace", func(t *testing.T) {
		f := newPostFixture(t, nil)
		bogus := uuid.NewString()

		_, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{
			Content:  "hello",
			Mentions: []string{f.friend.String()},
			Shares:   []string{bogus},
		})
		require.Error(t, err)
		assert.Equal(t, "Shared ID "+bogus+" is neither a registered user nor a contact of the posting user.", err.Error())
		assert.Empty(t, f.store.posts)
		assert.Empty(t, f.store.mentions)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("edge write failure rolls back the post", func(t *testing.T) {
		f := newPostFixture(t, nil)
		f.store.failInsert = errors.New("deadlock detected")

		_, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{Content: "x", Mentions: []string{f.contact.String()}})
		require.Error(t, err)
		assert.True(t, IsStorageError(err))
		assert.Empty(t, f.store.posts)
	})

	t.Run("content is required", func(t *testing.T) {
		f := newPostFixture(t, nil)
		_, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{})
		assert.EqualError(t, err, "content is required")
	})

	t.Run("failed post removes its upload", func(t *testing.T) {
		blobs := &mockBlobStore{}
		f := newPostFixture(t, blobs)
		f.store.failInsert = errors.New("deadlock detected")
		stored := "http://s3/media/posts/" + f.author.String() + "/x-a.txt"

		blobs.On("Upload", mock.Anything, "media", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(stored, nil).Once()
		blobs.On("Delete", mock.Anything, stored, "media").Return(nil).Once()

		_, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{
			Content:    "x",
			Mentions:   []string{f.contact.String()},
			Attachment: &Attachment{Filename: "a.txt", Body: strings.NewReader("a")},
		})
		require.Error(t, err)
		assert.True(t, IsStorageError(err))
		blobs.AssertExpectations(t)
	})

	t.Run("attachment is uploaded and presigned", func(t *testing.T) {
		blobs := &mockBlobStore{}
		f := newPostFixture(t, blobs)
		folder := "posts/" + f.author.String()

		blobs.On("Upload", mock.Anything, "media", folder, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, "-photo.png")
		}), mock.Anything, "image/png").Return("http://s3/media/"+folder+"/x-photo.png", nil).Once()
		blobs.On("PresignURL", mock.Anything, "http://s3/media/"+folder+"/x-photo.png", "media").Return("http://signed").Once()

		view, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{
			Content:    "pic",
			Attachment: &Attachment{Filename: "../../photo.png", ContentType: "image/png", Body: strings.NewReader("png")},
		})
		require.NoError(t, err)
		require.NotNil(t, view.AttachmentURL)
		assert.Equal(t, "http://signed", *view.AttachmentURL)
		blobs.AssertExpectations(t)
	})
}

func TestPostService_AuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, nil)

	view, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{Content: "v1"})
	require.NoError(t, err)
	postID := view.PostID.String()

	content := "v2"
	_, err = f.svc.Update(ctx, postID, f.friend.String(), PostUpdate{Content: &content})
	require.Error(t, err)
	assert.Equal(t, "Post not found or unauthorized", err.Error())

	updated, err := f.svc.Update(ctx, postID, f.author.String(), PostUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	assert.Error(t, f.svc.Delete(ctx, postID, f.friend.String()))
	require.NoError(t, f.svc.Delete(ctx, postID, f.author.String()))

	_, err = f.svc.Get(ctx, postID)
	require.Error(t, err)
	assert.Equal(t, "Post not found", err.Error())

	var nf *NotFoundOrUnauthorizedError
	require.ErrorAs(t, err, &nf)
	assert.False(t, nf.Forbidden)

	posts, pagination, err := f.svc.ListByUser(ctx, f.author.String(), ListQuery{PageRequest: PageRequest{Page: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, pagination.Total)
}

func TestPostService_Feed(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything)

	_, err := f.svc.Create(ctx, f.author.String(), CreatePostInput{Content: "for you", Shares: []string{f.friend.String()}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.author.String(), CreatePostInput{Content: "not for you"})
	require.NoError(t, err)

	posts, pagination, err := f.svc.Feed(ctx, f.friend.String(), ListQuery{PageRequest: PageRequest{Page: 1, PerPage: 10}})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "for you", posts[0].Content)
	assert.Equal(t, int64(1), pagination.Total)
}
