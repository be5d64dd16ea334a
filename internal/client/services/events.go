package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/common"
)

const (
	MsgEventCreated       = "Event created successfully!"
	MsgEventUpdated       = "Event updated successfully!"
	MsgEventDeleted       = "Event deleted successfully!"
	MsgParticipantAdded   = "Participant added successfully!"
	MsgParticipantRemoved = "Participant removed successfully!"
)

// EventService manages scheduled outings. Attendance changes need the event
// listed or created in this session.
type EventService interface {
	Create(ctx context.Context, in models.EventInput) (*models.Event, error)
	Update(ctx context.Context, e models.Event) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Event, error)
	AddParticipant(ctx context.Context, eventID, userID string) (*models.Event, error)
	RemoveParticipant(ctx context.Context, eventID, userID string) (*models.Event, error)
	Events() []models.Event
	Event(id string) (models.Event, bool)
}

type eventService struct {
	collection
	cache *docCache[models.Event]
}

func NewEventService(docs client.Documents, name string, opts ...Option) EventService {
	return &eventService{
		collection: newCollection(docs, name, "events", buildOptions(opts)),
		cache:      newDocCache(func(e models.Event) string { return e.ID }),
	}
}

func (s *eventService) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.CreatedBy == "":
		return nil, s.fail(ctx, "create event", autherr.Validation(MsgNoUser))
	case in.Title == "":
		return nil, s.fail(ctx, "create event", autherr.Validation("Event title is required"))
	case in.Date.IsZero():
		return nil, s.fail(ctx, "create event", autherr.Validation("Event date is required"))
	}

	e := models.NewEvent(in, s.now())
	e.ID = common.NewID()

	var created models.Event
	if err := s.docs.CreateDocument(ctx, s.name, e.ID, e.Document(), &created); err != nil {
		return nil, s.fail(ctx, "create event", err)
	}
	if created.ID == "" {
		created = *e
	}

	s.cache.prepend(created)

	s.logger.Info(ctx, "event created", "event_id", created.ID, "group_id", created.GroupID)
	s.notifier.Success(ctx, MsgEventCreated)
	return &created, nil
}

func (s *eventService) Update(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.ID == "" {
		return nil, s.fail(ctx, "update event", autherr.Validation("Event id is required"))
	}
	e.UpdatedAt = s.now()

	var updated models.Event
	if err := s.docs.UpdateDocument(ctx, s.name, e.ID, e.Document(), &updated); err != nil {
		return nil, s.fail(ctx, "update event", err)
	}
	if updated.ID == "" {
		updated = e
	}

	s.cache.replace(updated)

	s.notifier.Success(ctx, MsgEventUpdated)
	return &updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.docs.DeleteDocument(ctx, s.name, id); err != nil {
		return s.fail(ctx, "delete event", err)
	}
	s.cache.remove(id)

	s.notifier.Success(ctx, MsgEventDeleted)
	return nil
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	return s.load(ctx, "fetch events", client.OrderDesc("date"))
}

func (s *eventService) ListByParticipant(ctx context.Context, userID string) ([]models.Event, error) {
	return s.load(ctx, "fetch user events", client.Search("participants", userID), client.OrderDesc("date"))
}

func (s *eventService) load(ctx context.Context, action string, queries ...client.Query) ([]models.Event, error) {
	var out []models.Event
	if err := s.list(ctx, action, &out, queries...); err != nil {
		return nil, err
	}
	s.cache.reset(out)
	return out, nil
}

// AddParticipant is a no-op when userID already attends.
func (s *eventService) AddParticipant(ctx context.Context, eventID, userID string) (*models.Event, error) {
	e, err := s.attendee(eventID, userID)
	if err != nil {
		return nil, s.fail(ctx, "add participant", err)
	}
	if e.HasParticipant(userID) {
		return &e, nil
	}
	return s.saveParticipants(ctx, "add participant", e.WithParticipant(userID), MsgParticipantAdded)
}

// RemoveParticipant is a no-op when userID does not attend.
func (s *eventService) RemoveParticipant(ctx context.Context, eventID, userID string) (*models.Event, error) {
	e, err := s.attendee(eventID, userID)
	if err != nil {
		return nil, s.fail(ctx, "remove participant", err)
	}
	if !e.HasParticipant(userID) {
		return &e, nil
	}
	return s.saveParticipants(ctx, "remove participant", e.WithoutParticipant(userID), MsgParticipantRemoved)
}

func (s *eventService) attendee(eventID, userID string) (models.Event, error) {
	if userID == "" {
		return models.Event{}, autherr.Validation(msgUserRequired)
	}
	e, ok := s.cache.get(eventID)
	if !ok {
		return models.Event{}, autherr.Validation("Event not found")
	}
	return e, nil
}

func (s *eventService) saveParticipants(ctx context.Context, action string, e models.Event, msg string) (*models.Event, error) {
	var updated models.Event
	if err := s.docs.UpdateDocument(ctx, s.name, e.ID, e.ParticipantsDocument(), &updated); err != nil {
		return nil, s.fail(ctx, action, err)
	}
	if updated.ID == "" {
		updated = e
	}

	s.cache.replace(updated)

	s.notifier.Success(ctx, msg)
	return &updated, nil
}

func (s *eventService) Events() []models.Event {
	return s.cache.snapshot()
}

func (s *eventService) Event(id string) (models.Event, bool) {
	return s.cache.get(id)
}
