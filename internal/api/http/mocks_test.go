package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tracklet-backend/internal/domain"
)

type MockCatalogService[T any] struct {
	mock.Mock
}

func (m *MockCatalogService[T]) Create(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogService[T]) Get(ctx context.Context, id int32) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCatalogService[T]) Update(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogService[T]) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]T), args.Int(1), args.Error(2)
}

type MockLookupService[T any] struct {
	mock.Mock
}

func (m *MockLookupService[T]) Get(ctx context.Context, id int32) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockLookupService[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]T), args.Int(1), args.Error(2)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, in domain.EventInput, createdBy *int32) (*domain.Event, error) {
	args := m.Called(ctx, in, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id int32) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, id int32, patch domain.EventPatch) (*domain.Event, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Event), args.Int(1), args.Error(2)
}

func (m *MockEventService) DefaultAssignmentDates(ctx context.Context, eventID int32) (domain.AssignmentDates, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.AssignmentDates), args.Error(1)
}

type MockFurnitureService struct {
	mock.Mock
}

func (m *MockFurnitureService) CreateAssignment(ctx context.Context, in domain.AssignmentInput) (*domain.FurnitureAssignment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FurnitureAssignment), args.Error(1)
}

func (m *MockFurnitureService) GetAssignment(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FurnitureAssignment), args.Error(1)
}

func (m *MockFurnitureService) UpdateAssignment(ctx context.Context, id int32, patch domain.AssignmentPatch) (*domain.FurnitureAssignment, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FurnitureAssignment), args.Error(1)
}

func (m *MockFurnitureService) DeleteAssignment(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFurnitureService) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FurnitureAssignment), args.Int(1), args.Error(2)
}

func (m *MockFurnitureService) PartUsage(ctx context.Context, partID int32) (int, error) {
	args := m.Called(ctx, partID)
	return args.Int(0), args.Error(1)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateOrder(ctx context.Context, in domain.RentalOrderInput) (*domain.RentalOrder, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

func (m *MockRentalService) GetOrder(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

func (m *MockRentalService) UpdateOrder(ctx context.Context, id int32, patch domain.RentalOrderPatch) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

func (m *MockRentalService) DeleteOrder(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalService) ListOrders(ctx context.Context, filter domain.RentalOrderFilter) ([]domain.RentalOrder, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RentalOrder), args.Int(1), args.Error(2)
}

func (m *MockRentalService) CreateLine(ctx context.Context, in domain.RentalLineInput) (*domain.RentalLineItem, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalLineItem), args.Error(1)
}

func (m *MockRentalService) GetLine(ctx context.Context, id int32) (*domain.RentalLineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalLineItem), args.Error(1)
}

func (m *MockRentalService) UpdateLine(ctx context.Context, id int32, patch domain.RentalLinePatch) (*domain.RentalLineItem, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalLineItem), args.Error(1)
}

func (m *MockRentalService) DeleteLine(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalService) ListLines(ctx context.Context, filter domain.RentalLineFilter) ([]domain.RentalLineItem, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RentalLineItem), args.Int(1), args.Error(2)
}

func (m *MockRentalService) MarkOverdue(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

func (m *MockRentalService) OverdueOrders(ctx context.Context) ([]domain.RentalOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalOrder), args.Error(1)
}
