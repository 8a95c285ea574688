package service

import (
	"context"
	"time"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/repository"
)

type eventService struct {
	events repository.EventRepository
	loc    *time.Location
}

// NewEventService builds the event service. loc is the operator time zone
// used for the late-night check-in default.
func NewEventService(events repository.EventRepository, loc *time.Location) EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &eventService{events: events, loc: loc}
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput, createdBy *int32) (*domain.Event, error) {
	logger.EnterMethod(ctx, "eventService.CreateEvent", "title", in.Title)

	if err := domain.ValidateStruct(in); err != nil {
		logger.ExitMethodWithError(ctx, "eventService.CreateEvent", err, true)
		return nil, err
	}
	event := in.Event()
	event.CreatedBy = createdBy
	if err := event.Validate(); err != nil {
		logger.ExitMethodWithError(ctx, "eventService.CreateEvent", err, true)
		return nil, err
	}

	if err := s.events.Create(ctx, &event); err != nil {
		logger.ExitMethodWithError(ctx, "eventService.CreateEvent", err, expected(err))
		return nil, err
	}

	logger.ExitMethod(ctx, "eventService.CreateEvent", "eventID", event.ID, "reference", event.Reference)
	return s.GetEvent(ctx, event.ID)
}

func (s *eventService) GetEvent(ctx context.Context, id int32) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Decorate()
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int32, patch domain.EventPatch) (*domain.Event, error) {
	logger.EnterMethod(ctx, "eventService.UpdateEvent", "eventID", id)

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(ctx, "eventService.UpdateEvent", err, expected(err), "eventID", id)
		return nil, err
	}
	if err := patch.Apply(event); err != nil {
		logger.ExitMethodWithError(ctx, "eventService.UpdateEvent", err, true, "eventID", id)
		return nil, err
	}
	if err := s.events.Update(ctx, event); err != nil {
		logger.ExitMethodWithError(ctx, "eventService.UpdateEvent", err, expected(err), "eventID", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "eventService.UpdateEvent", "eventID", id, "status", event.Status.Label())
	return s.GetEvent(ctx, id)
}

func (s *eventService) DeleteEvent(ctx context.Context, id int32) error {
	if err := s.events.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Event delete failed", "eventID", id, "error", err)
		return err
	}
	logger.InfoContext(ctx, "Event deleted", "eventID", id)
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error) {
	events, count, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range events {
		events[i].Decorate()
	}
	return events, count, nil
}

func (s *eventService) DefaultAssignmentDates(ctx context.Context, eventID int32) (domain.AssignmentDates, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.AssignmentDates{}, err
	}
	return domain.DefaultAssignmentDates(*event, s.loc), nil
}
