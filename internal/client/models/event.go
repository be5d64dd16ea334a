package models

import "time"

// Event is a scheduled outing, optionally tied to a group.
type Event struct {
	ID           string    `json:"$id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location,omitempty"`
	GroupID      string    `json:"groupId,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type EventInput struct {
	CreatedBy   string
	Title       string
	Description string
	Date        time.Time
	Location    string
	GroupID     string
}

// NewEvent builds an event with its creator as the first participant.
func NewEvent(in EventInput, createdAt time.Time) *Event {
	return &Event{
		Title:        in.Title,
		Description:  in.Description,
		Date:         in.Date,
		Location:     in.Location,
		GroupID:      in.GroupID,
		CreatedBy:    in.CreatedBy,
		Participants: []string{in.CreatedBy},
		CreatedAt:    createdAt,
	}
}

func (e *Event) Document() map[string]any {
	doc := map[string]any{
		"title":        e.Title,
		"description":  e.Description,
		"date":         timestamp(e.Date),
		"location":     e.Location,
		"groupId":      e.GroupID,
		"createdBy":    e.CreatedBy,
		"participants": orEmpty(e.Participants),
		"createdAt":    timestamp(e.CreatedAt),
	}
	if !e.UpdatedAt.IsZero() {
		doc["updatedAt"] = timestamp(e.UpdatedAt)
	}
	return doc
}

func (e Event) HasParticipant(userID string) bool {
	return containsID(e.Participants, userID)
}

func (e Event) WithParticipant(userID string) Event {
	e.Participants = withID(e.Participants, userID)
	return e
}

func (e Event) WithoutParticipant(userID string) Event {
	e.Participants = withoutID(e.Participants, userID)
	return e
}

// ParticipantsDocument is the partial update sent when attendance changes.
func (e *Event) ParticipantsDocument() map[string]any {
	return map[string]any{"participants": orEmpty(e.Participants)}
}
