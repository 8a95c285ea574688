package service

import (
	"context"
	"errors"
	"time"

	"tracklet-backend/internal/domain"
)

// Clock returns the current time. Services take one so that overdue and
// check-in stamping can be pinned in tests.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

type CatalogService[T any] interface {
	Create(ctx context.Context, item *T) error
	Get(ctx context.Context, id int32) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error)
}

// LookupService serves read-only reference data owned by other modules.
type LookupService[T any] interface {
	Get(ctx context.Context, id int32) (*T, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, in domain.EventInput, createdBy *int32) (*domain.Event, error)
	GetEvent(ctx context.Context, id int32) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id int32, patch domain.EventPatch) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int32) error
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error)
	// DefaultAssignmentDates suggests the check-out and check-in window for a
	// new assignment on the event.
	DefaultAssignmentDates(ctx context.Context, eventID int32) (domain.AssignmentDates, error)
}

type FurnitureService interface {
	// CreateAssignment merges into an existing (event, part) row when there
	// is one; the result then has UpdatedExisting set.
	CreateAssignment(ctx context.Context, in domain.AssignmentInput) (*domain.FurnitureAssignment, error)
	GetAssignment(ctx context.Context, id int32) (*domain.FurnitureAssignment, error)
	UpdateAssignment(ctx context.Context, id int32, patch domain.AssignmentPatch) (*domain.FurnitureAssignment, error)
	DeleteAssignment(ctx context.Context, id int32) error
	ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error)
	// PartUsage counts the active assignments of a part across all events.
	PartUsage(ctx context.Context, partID int32) (int, error)
}

type RentalService interface {
	CreateOrder(ctx context.Context, in domain.RentalOrderInput) (*domain.RentalOrder, error)
	GetOrder(ctx context.Context, id int32) (*domain.RentalOrder, error)
	UpdateOrder(ctx context.Context, id int32, patch domain.RentalOrderPatch) (*domain.RentalOrder, error)
	DeleteOrder(ctx context.Context, id int32) error
	ListOrders(ctx context.Context, filter domain.RentalOrderFilter) ([]domain.RentalOrder, int, error)

	CreateLine(ctx context.Context, in domain.RentalLineInput) (*domain.RentalLineItem, error)
	GetLine(ctx context.Context, id int32) (*domain.RentalLineItem, error)
	UpdateLine(ctx context.Context, id int32, patch domain.RentalLinePatch) (*domain.RentalLineItem, error)
	DeleteLine(ctx context.Context, id int32) error
	ListLines(ctx context.Context, filter domain.RentalLineFilter) ([]domain.RentalLineItem, int, error)

	MarkOverdue(ctx context.Context) ([]int32, error)
	OverdueOrders(ctx context.Context) ([]domain.RentalOrder, error)
}

// Notifier delivers operator reminders.
type Notifier interface {
	SendOverdueReminder(ctx context.Context, order domain.RentalOrder) error
}

// expected reports client-side failures that are logged at warn level.
func expected(err error) bool {
	return domain.IsValidationError(err) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidTransition)
}
