package service

import (
	"context"
	"errors"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func parseEventDate(raw string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkg.BadRequest("Invalid event date")
}

type EventService struct {
	events  EventRepository
	uploads uploadCleaner
	now     func() time.Time
}

func NewEventService(events EventRepository, files storage.Store, log logrus.FieldLogger) *EventService {
	return &EventService{events: events, uploads: uploadCleaner{files: files, log: log}, now: time.Now}
}

// List upcoming=true 时只返回未开始的活动
func (s *EventService) List(ctx context.Context, upcoming bool, page pkg.Page) ([]model.Event, pkg.Pagination, error) {
	var f model.EventFilter
	if upcoming {
		now := s.now()
		f.From = &now
	}
	list, total, err := s.events.List(ctx, f, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch events", err)
	}
	if list == nil {
		list = []model.Event{}
	}
	return list, page.Result(total), nil
}

func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Event not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to fetch event", err)
	}
	return e, nil
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	title, rawDate := value(in.Title), value(in.EventDate)
	if title == "" || rawDate == "" {
		return nil, pkg.BadRequest("Missing required fields")
	}
	date, err := parseEventDate(rawDate)
	if err != nil {
		return nil, err
	}
	e := &model.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: nonEmpty(in.Description),
		EventDate:   date,
		Location:    nonEmpty(in.Location),
		ImagePath:   nonEmpty(in.ImagePath),
		IsFeatured:  in.IsFeatured != nil && *in.IsFeatured,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, pkg.Internal("Failed to create event", err)
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, id string, in EventInput) (*model.Event, error) {
	patch := model.EventPatch{
		Title:       nonEmpty(in.Title),
		Description: in.Description,
		Location:    in.Location,
		ImagePath:   in.ImagePath,
		IsFeatured:  in.IsFeatured,
	}
	if raw := value(in.EventDate); raw != "" {
		date, err := parseEventDate(raw)
		if err != nil {
			return nil, err
		}
		patch.EventDate = &date
	}
	var prev *model.Event
	if in.ImagePath != nil {
		prev, _ = s.events.FindByID(ctx, id)
	}
	e, err := s.events.Update(ctx, id, patch)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Event not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update event", err)
	}
	if prev != nil {
		s.uploads.release(ctx, eventFiles(prev), eventFiles(e))
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	prev, err := s.events.FindByID(ctx, id)
	if err == nil {
		err = s.events.Delete(ctx, id)
	}
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("Event not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete event", err)
	}
	s.uploads.release(ctx, eventFiles(prev), nil)
	return nil
}
