package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/service"
)

func TestRentalService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		in := domain.RentalOrderInput{Customer: 5, RentalStart: now, RentalEnd: now.Add(48 * time.Hour)}
		orders.On("Create", ctx, mock.AnythingOfType("*domain.RentalOrder")).
			Run(func(args mock.Arguments) {
				o := args.Get(1).(*domain.RentalOrder)
				o.ID = 1
				o.Reference = "RN0001"
			}).
			Return(nil)
		orders.On("GetByID", ctx, int32(1)).Return(&domain.RentalOrder{
			ID: 1, Reference: "RN0001", CustomerID: 5, RentalStart: in.RentalStart, RentalEnd: in.RentalEnd,
			Status: domain.RentalOrderStatusDraft, LineItems: 0,
		}, nil)

		res, err := svc.CreateOrder(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "RN0001", res.Reference)
		assert.Equal(t, "Draft", res.StatusName)
		assert.False(t, res.Overdue)
	})

	t.Run("RejectsOverdueStatus", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		overdue := domain.RentalOrderStatusOverdue
		_, err := svc.CreateOrder(ctx, domain.RentalOrderInput{
			Customer: 5, RentalStart: now, RentalEnd: now.Add(time.Hour), Status: &overdue,
		})
		assert.True(t, domain.IsValidationError(err))
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsReturnedDateOnDraft", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		returned := now.Add(time.Hour)
		_, err := svc.CreateOrder(ctx, domain.RentalOrderInput{
			Customer: 5, RentalStart: now, RentalEnd: now.Add(48 * time.Hour), ReturnedDate: &returned,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "returned_date")
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsInvertedRange", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		_, err := svc.CreateOrder(ctx, domain.RentalOrderInput{Customer: 5, RentalStart: now, RentalEnd: now.Add(-time.Hour)})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"Rental end must be after rental start"}, verr.Fields["rental_end"])
	})
}

func TestRentalService_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)

	t.Run("MarkReturnedStampsDate", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		order := &domain.RentalOrder{
			ID: 4, CustomerID: 5, RentalStart: now.Add(-72 * time.Hour), RentalEnd: now.Add(-24 * time.Hour),
			Status: domain.RentalOrderStatusOverdue, LineItems: 3,
		}
		orders.On("GetByID", ctx, int32(4)).Return(order, nil)
		orders.On("Update", ctx, mock.MatchedBy(func(o *domain.RentalOrder) bool {
			return o.Status == domain.RentalOrderStatusReturned && o.ReturnedDate != nil && o.ReturnedDate.Equal(now)
		})).Return(nil)

		res, err := svc.UpdateOrder(ctx, 4, domain.RentalOrderPatch{Status: domain.Some(domain.RentalOrderStatusReturned)})
		require.NoError(t, err)
		assert.Equal(t, 3, res.ReturnedLines)
		assert.False(t, res.Overdue)
		assert.Equal(t, "3/3", res.Progress().String())
	})

	t.Run("ExtendOverdueBackToActive", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		order := &domain.RentalOrder{
			ID: 4, CustomerID: 5, RentalStart: now.Add(-72 * time.Hour), RentalEnd: now.Add(-24 * time.Hour),
			Status: domain.RentalOrderStatusOverdue,
		}
		orders.On("GetByID", ctx, int32(4)).Return(order, nil)
		orders.On("Update", ctx, mock.AnythingOfType("*domain.RentalOrder")).Return(nil)

		res, err := svc.UpdateOrder(ctx, 4, domain.RentalOrderPatch{RentalEnd: domain.Some(now.Add(48 * time.Hour))})
		require.NoError(t, err)
		assert.Equal(t, domain.RentalOrderStatusActive, res.Status)
		assert.False(t, res.Overdue)
	})

	t.Run("CancelledIsTerminal", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

		order := &domain.RentalOrder{
			ID: 4, CustomerID: 5, RentalStart: now, RentalEnd: now.Add(time.Hour), Status: domain.RentalOrderStatusCancelled,
		}
		orders.On("GetByID", ctx, int32(4)).Return(order, nil)

		_, err := svc.UpdateOrder(ctx, 4, domain.RentalOrderPatch{Status: domain.Some(domain.RentalOrderStatusActive)})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestRentalService_CreateLine(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	order := &domain.RentalOrder{
		ID: 1, Reference: "RN0001", CustomerID: 5, RentalStart: now, RentalEnd: now.Add(48 * time.Hour),
		Status: domain.RentalOrderStatusActive,
	}

	t.Run("Success", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		lines := new(MockRentalLineRepo)
		svc := service.NewRentalService(orders, lines, fixedClock(now))

		orders.On("GetByID", ctx, int32(1)).Return(order, nil)
		lines.On("FindOverlap", ctx, int32(8), order.RentalStart, order.RentalEnd, int32(0)).Return("", false, nil)
		lines.On("Create", ctx, mock.AnythingOfType("*domain.RentalLineItem")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.RentalLineItem).ID = 2 }).
			Return(nil)
		lines.On("GetByID", ctx, int32(2)).Return(&domain.RentalLineItem{
			ID: 2, OrderID: 1, AssetID: 8, Quantity: 1, OrderDetail: &domain.RentalOrder{ID: 1, Status: domain.RentalOrderStatusActive},
		}, nil)

		res, err := svc.CreateLine(ctx, domain.RentalLineInput{Order: 1, Asset: 8})
		require.NoError(t, err)
		assert.Equal(t, int32(2), res.ID)
		assert.Equal(t, "Active", res.OrderDetail.StatusName)
	})

	t.Run("OverlappingBooking", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		lines := new(MockRentalLineRepo)
		svc := service.NewRentalService(orders, lines, fixedClock(now))

		orders.On("GetByID", ctx, int32(1)).Return(order, nil)
		lines.On("FindOverlap", ctx, int32(8), order.RentalStart, order.RentalEnd, int32(0)).Return("RN0002", true, nil)

		_, err := svc.CreateLine(ctx, domain.RentalLineInput{Order: 1, Asset: 8})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"Asset is already booked for an overlapping period (RN0002)"}, verr.Fields["asset"])
		lines.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		orders := new(MockRentalOrderRepo)
		lines := new(MockRentalLineRepo)
		svc := service.NewRentalService(orders, lines, fixedClock(now))

		orders.On("GetByID", ctx, int32(7)).Return(nil, domain.ErrNotFound)

		_, err := svc.CreateLine(ctx, domain.RentalLineInput{Order: 7, Asset: 8})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "order")
	})
}

func TestRentalService_UpdateLineExcludesItself(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	orders := new(MockRentalOrderRepo)
	lines := new(MockRentalLineRepo)
	svc := service.NewRentalService(orders, lines, fixedClock(now))

	order := &domain.RentalOrder{ID: 1, CustomerID: 5, RentalStart: now, RentalEnd: now.Add(time.Hour), Status: domain.RentalOrderStatusDraft}
	line := &domain.RentalLineItem{ID: 2, OrderID: 1, AssetID: 8, Quantity: 1}

	orders.On("GetByID", ctx, int32(1)).Return(order, nil)
	lines.On("GetByID", ctx, int32(2)).Return(line, nil)
	lines.On("FindOverlap", ctx, int32(8), order.RentalStart, order.RentalEnd, int32(2)).Return("", false, nil)
	lines.On("Update", ctx, line).Return(nil)

	res, err := svc.UpdateLine(ctx, 2, domain.RentalLinePatch{Quantity: domain.Some(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Quantity)
	lines.AssertExpectations(t)
}

func TestRentalService_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	orders := new(MockRentalOrderRepo)
	svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

	orders.On("MarkOverdue", ctx, now).Return([]int32{3, 4}, nil)

	ids, err := svc.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4}, ids)
}

func TestRentalService_OverdueOrders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	orders := new(MockRentalOrderRepo)
	svc := service.NewRentalService(orders, new(MockRentalLineRepo), fixedClock(now))

	orders.On("List", ctx, mock.MatchedBy(func(f domain.RentalOrderFilter) bool {
		return f.Overdue != nil && *f.Overdue && f.Limit == nil
	}), now).Return([]domain.RentalOrder{{
		ID: 4, RentalStart: now.Add(-72 * time.Hour), RentalEnd: now.Add(-time.Hour), Status: domain.RentalOrderStatusOverdue,
	}}, 1, nil)

	res, err := svc.OverdueOrders(ctx)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.True(t, res[0].Overdue)
}
