package service_test

import (
	"context"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/mock"

	"tracklet-backend/internal/domain"
)

// MockCatalogRepo
type MockCatalogRepo[T any] struct {
	mock.Mock
}

func (m *MockCatalogRepo[T]) Create(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockCatalogRepo[T]) GetByID(ctx context.Context, id int32) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}
func (m *MockCatalogRepo[T]) Update(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockCatalogRepo[T]) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCatalogRepo[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]T), args.Int(1), args.Error(2)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Event), args.Int(1), args.Error(2)
}

// MockAssignmentRepo
type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.FurnitureAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// CreateOrMerge runs merge against the existing row registered as the first
// return value when the second is true.
func (m *MockAssignmentRepo) CreateOrMerge(ctx context.Context, a *domain.FurnitureAssignment, merge func(existing *domain.FurnitureAssignment) error) (*domain.FurnitureAssignment, bool, error) {
	args := m.Called(ctx, a)
	if err := args.Error(2); err != nil {
		return nil, false, err
	}
	if !args.Bool(1) {
		a.ID = args.Get(0).(*domain.FurnitureAssignment).ID
		return a, false, nil
	}
	existing := args.Get(0).(*domain.FurnitureAssignment)
	if err := merge(existing); err != nil {
		return nil, false, err
	}
	return existing, true, nil
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FurnitureAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) Update(ctx context.Context, a *domain.FurnitureAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAssignmentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAssignmentRepo) List(ctx context.Context, filter domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.FurnitureAssignment), args.Int(1), args.Error(2)
}

// MockRentalOrderRepo
type MockRentalOrderRepo struct {
	mock.Mock
}

func (m *MockRentalOrderRepo) Create(ctx context.Context, order *domain.RentalOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockRentalOrderRepo) GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockRentalOrderRepo) Update(ctx context.Context, order *domain.RentalOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockRentalOrderRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalOrderRepo) List(ctx context.Context, filter domain.RentalOrderFilter, now time.Time) ([]domain.RentalOrder, int, error) {
	args := m.Called(ctx, filter, now)
	return args.Get(0).([]domain.RentalOrder), args.Int(1), args.Error(2)
}
func (m *MockRentalOrderRepo) MarkOverdue(ctx context.Context, now time.Time) ([]int32, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]int32), args.Error(1)
}

// MockRentalLineRepo
type MockRentalLineRepo struct {
	mock.Mock
}

func (m *MockRentalLineRepo) Create(ctx context.Context, line *domain.RentalLineItem) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}
func (m *MockRentalLineRepo) GetByID(ctx context.Context, id int32) (*domain.RentalLineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalLineItem), args.Error(1)
}
func (m *MockRentalLineRepo) Update(ctx context.Context, line *domain.RentalLineItem) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}
func (m *MockRentalLineRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalLineRepo) List(ctx context.Context, filter domain.RentalLineFilter) ([]domain.RentalLineItem, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalLineItem), args.Int(1), args.Error(2)
}
func (m *MockRentalLineRepo) FindOverlap(ctx context.Context, assetID int32, start, end time.Time, excludeID int32) (string, bool, error) {
	args := m.Called(ctx, assetID, start, end, excludeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockMailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}
