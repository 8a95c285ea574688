package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

type Store struct {
	EventTypes     repository.EventTypeRepository
	Venues         repository.VenueRepository
	Planners       repository.PlannerRepository
	FurnitureItems repository.FurnitureItemRepository
	RentalAssets   repository.RentalAssetRepository
	Customers      repository.CustomerRepository
	Owners         repository.OwnerRepository
	Events         repository.EventRepository
	Assignments    repository.AssignmentRepository
	RentalOrders   repository.RentalOrderRepository
	RentalLines    repository.RentalLineRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		EventTypes:     NewEventTypeRepository(db),
		Venues:         NewVenueRepository(db),
		Planners:       NewPlannerRepository(db),
		FurnitureItems: NewFurnitureItemRepository(db),
		RentalAssets:   NewRentalAssetRepository(db),
		Customers:      NewCustomerRepository(db),
		Owners:         NewOwnerRepository(db),
		Events:         NewEventRepository(db),
		Assignments:    NewAssignmentRepository(db),
		RentalOrders:   NewRentalOrderRepository(db),
		RentalLines:    NewRentalLineRepository(db),
	}
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// mapError turns driver errors into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Detail)
	case pqForeignKeyViolation:
		return domain.NewValidationError(constraintField(pqErr), "Invalid pk - object does not exist.")
	case pqCheckViolation:
		return domain.NewValidationError("", pqErr.Message)
	}
	return err
}

// mapDeleteError reports rows that are still referenced as conflicts.
func mapDeleteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation {
		return fmt.Errorf("%w: record is still referenced by %s", domain.ErrConflict, pqErr.Table)
	}
	return mapError(err)
}

// constraintField recovers the API field name from a default foreign key
// name such as events_venue_id_fkey.
func constraintField(pqErr *pq.Error) string {
	name := strings.TrimSuffix(pqErr.Constraint, "_fkey")
	name = strings.TrimPrefix(name, pqErr.Table+"_")
	return strings.TrimSuffix(name, "_id")
}

// checkAffected reports ErrNotFound when a write touched no row.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
