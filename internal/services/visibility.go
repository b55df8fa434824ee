package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/thereayou/relyexchange/internal/models"
)

// EdgeKind says what a mention or share points at.
type EdgeKind string

const (
	EdgeRegistered EdgeKind = "registered"
	EdgeContact    EdgeKind = "contact"
)

type Relation string

const (
	RelationMention Relation = "mention"
	RelationShare   Relation = "share"
)

type Target struct {
	ID   uuid.UUID
	Kind EdgeKind
}

// VisibilityResolver classifies mention and share identifiers as registered
// users or as contacts of the post author.
type VisibilityResolver struct {
	store TargetStore
}

func NewVisibilityResolver(store TargetStore) *VisibilityResolver {
	return &VisibilityResolver{store: store}
}

// Classify checks users first, then the author's contacts. An id present in
// both resolves as registered.
func (r *VisibilityResolver) Classify(ctx context.Context, authorID uuid.UUID, raw string, rel Relation) (Target, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return Target{}, unresolvedTarget(raw, rel)
	}

	isUser, err := r.store.UserExists(ctx, id)
	if err != nil {
		return Target{}, NewStorageError("classify target", err)
	}
	if isUser {
		return Target{ID: id, Kind: EdgeRegistered}, nil
	}

	isContact, err := r.store.ContactOwnedBy(ctx, id, authorID)
	if err != nil {
		return Target{}, NewStorageError("classify target", err)
	}
	if isContact {
		return Target{ID: id, Kind: EdgeContact}, nil
	}

	return Target{}, unresolvedTarget(raw, rel)
}

// Resolve classifies ids in order and stops at the first one that is
// neither a user nor an owned contact. Repeated ids collapse to one target.
func (r *VisibilityResolver) Resolve(ctx context.Context, authorID uuid.UUID, ids []string, rel Relation) ([]Target, error) {
	targets := make([]Target, 0, len(ids))
	for _, raw := range ids {
		t, err := r.Classify(ctx, authorID, raw, rel)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return lo.Uniq(targets), nil
}

func unresolvedTarget(raw string, rel Relation) error {
	label := "Mentioned"
	field := "mentions"
	if rel == RelationShare {
		label = "Shared"
		field = "shares"
	}
	return NewValidationError(field, fmt.Sprintf("%s ID %s is neither a registered user nor a contact of the posting user.", label, raw))
}

func MentionEdges(postID uuid.UUID, targets []Target) []models.PostMention {
	return lo.Map(targets, func(t Target, _ int) models.PostMention {
		edge := models.PostMention{PostID: postID}
		id := t.ID
		if t.Kind == EdgeRegistered {
			edge.MentionedUserID = &id
		} else {
			edge.MentionedContactID = &id
		}
		return edge
	})
}

func ShareEdges(postID uuid.UUID, targets []Target) []models.PostShare {
	return lo.Map(targets, func(t Target, _ int) models.PostShare {
		edge := models.PostShare{PostID: postID}
		id := t.ID
		if t.Kind == EdgeRegistered {
			edge.SharedWithUserID = &id
		} else {
			edge.SharedContactID = &id
		}
		return edge
	})
}

// EdgeView is the read-side shape of a mention or share.
type EdgeView struct {
	Type        EdgeKind  `json:"type"`
	ID          uuid.UUID `json:"id"`
	DisplayName *string   `json:"display_name"`
}

func edgeView(userID *uuid.UUID, user *models.User, contactID *uuid.UUID, contact *models.Contact) EdgeView {
	if userID != nil {
		view := EdgeView{Type: EdgeRegistered, ID: *userID}
		if user != nil {
			name := user.Name
			view.DisplayName = &name
		}
		return view
	}

	view := EdgeView{Type: EdgeContact, ID: lo.FromPtr(contactID)}
	if contact != nil {
		view.DisplayName = contact.DisplayName()
	}
	return view
}

func MentionViews(edges []models.PostMention) []EdgeView {
	return lo.Map(edges, func(m models.PostMention, _ int) EdgeView {
		return edgeView(m.MentionedUserID, m.MentionedUser, m.MentionedContactID, m.MentionedContact)
	})
}

func ShareViews(edges []models.PostShare) []EdgeView {
	return lo.Map(edges, func(s models.PostShare, _ int) EdgeView {
		return edgeView(s.SharedWithUserID, s.SharedWithUser, s.SharedContactID, s.SharedContact)
	})
}
