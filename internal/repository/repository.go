package repository

import (
	"context"
	"time"

	"tracklet-backend/internal/domain"
)

// CatalogRepository covers the simple reference tables that are soft-disabled
// through their active flag.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id int32) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error)
}

type (
	EventTypeRepository     = CatalogRepository[domain.EventType]
	VenueRepository         = CatalogRepository[domain.Venue]
	PlannerRepository       = CatalogRepository[domain.Planner]
	FurnitureItemRepository = CatalogRepository[domain.FurnitureItem]
	RentalAssetRepository   = CatalogRepository[domain.RentalAsset]
)

type EventRepository interface {
	// Create generates a reference when the event has none.
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int32) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.FurnitureAssignment) error
	// CreateOrMerge inserts a, or when a row for the same (event, part) pair
	// exists, locks it, hands it to merge and saves the result. The boolean
	// reports whether an existing row was updated.
	CreateOrMerge(ctx context.Context, a *domain.FurnitureAssignment, merge func(existing *domain.FurnitureAssignment) error) (*domain.FurnitureAssignment, bool, error)
	GetByID(ctx context.Context, id int32) (*domain.FurnitureAssignment, error)
	Update(ctx context.Context, a *domain.FurnitureAssignment) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error)
}

type RentalOrderRepository interface {
	Create(ctx context.Context, order *domain.RentalOrder) error
	GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error)
	Update(ctx context.Context, order *domain.RentalOrder) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.RentalOrderFilter, now time.Time) ([]domain.RentalOrder, int, error)
	// MarkOverdue promotes lapsed ACTIVE orders and returns their ids.
	MarkOverdue(ctx context.Context, now time.Time) ([]int32, error)
}

type RentalLineRepository interface {
	Create(ctx context.Context, line *domain.RentalLineItem) error
	GetByID(ctx context.Context, id int32) (*domain.RentalLineItem, error)
	Update(ctx context.Context, line *domain.RentalLineItem) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.RentalLineFilter) ([]domain.RentalLineItem, int, error)
	// FindOverlap returns the reference of an open order that books the asset
	// in a window overlapping [start, end), ignoring line excludeID.
	FindOverlap(ctx context.Context, assetID int32, start, end time.Time, excludeID int32) (string, bool, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]domain.Customer, int, error)
}

type OwnerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Owner, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]domain.Owner, int, error)
}
