package models

import "time"

// Group is a fishing club. Members and Admins hold user ids; the owner is
// always both.
type Group struct {
	ID          string    `json:"$id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	Members     []string  `json:"members"`
	Admins      []string  `json:"admins"`
	IsPrivate   bool      `json:"isPrivate"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type GroupInput struct {
	OwnerID     string
	Name        string
	Description string
	IsPrivate   bool
}

// NewGroup builds a group owned, joined and administered by in.OwnerID.
func NewGroup(in GroupInput, createdAt time.Time) *Group {
	return &Group{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Members:     []string{in.OwnerID},
		Admins:      []string{in.OwnerID},
		IsPrivate:   in.IsPrivate,
		CreatedAt:   createdAt,
	}
}

func (g *Group) Document() map[string]any {
	doc := map[string]any{
		"name":        g.Name,
		"description": g.Description,
		"ownerId":     g.OwnerID,
		"members":     orEmpty(g.Members),
		"admins":      orEmpty(g.Admins),
		"isPrivate":   g.IsPrivate,
		"avatar":      g.Avatar,
		"createdAt":   timestamp(g.CreatedAt),
	}
	if !g.UpdatedAt.IsZero() {
		doc["updatedAt"] = timestamp(g.UpdatedAt)
	}
	return doc
}

func (g Group) HasMember(userID string) bool {
	return containsID(g.Members, userID)
}

// WithMember returns g with userID added to the members.
func (g Group) WithMember(userID string) Group {
	g.Members = withID(g.Members, userID)
	return g
}

// WithoutMember returns g with userID dropped from members and admins.
func (g Group) WithoutMember(userID string) Group {
	g.Members = withoutID(g.Members, userID)
	g.Admins = withoutID(g.Admins, userID)
	return g
}

// MembershipDocument is the partial update sent when membership changes.
func (g *Group) MembershipDocument() map[string]any {
	return map[string]any{
		"members": orEmpty(g.Members),
		"admins":  orEmpty(g.Admins),
	}
}
