package service

import (
	"context"
	"errors"
	"fmt"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/repository"
)

type rentalService struct {
	orders repository.RentalOrderRepository
	lines  repository.RentalLineRepository
	clock  Clock
}

func NewRentalService(orders repository.RentalOrderRepository, lines repository.RentalLineRepository, clock Clock) RentalService {
	return &rentalService{orders: orders, lines: lines, clock: clock}
}

func (s *rentalService) CreateOrder(ctx context.Context, in domain.RentalOrderInput) (*domain.RentalOrder, error) {
	logger.EnterMethod(ctx, "rentalService.CreateOrder", "customerID", in.Customer)

	if err := domain.ValidateStruct(in); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateOrder", err, true)
		return nil, err
	}
	order, err := in.Order()
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateOrder", err, true)
		return nil, err
	}
	order.ApplySaveRules(s.clock.now())
	if err := order.Validate(); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateOrder", err, true)
		return nil, err
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateOrder", err, expected(err))
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.CreateOrder", "orderID", order.ID, "reference", order.Reference)
	return s.GetOrder(ctx, order.ID)
}

func (s *rentalService) GetOrder(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Decorate(s.clock.now())
	return order, nil
}

func (s *rentalService) UpdateOrder(ctx context.Context, id int32, patch domain.RentalOrderPatch) (*domain.RentalOrder, error) {
	logger.EnterMethod(ctx, "rentalService.UpdateOrder", "orderID", id)

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateOrder", err, expected(err), "orderID", id)
		return nil, err
	}
	previous := order.Status
	if err := patch.Apply(order, s.clock.now()); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateOrder", err, true, "orderID", id)
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateOrder", err, expected(err), "orderID", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.UpdateOrder", "orderID", id,
		"from", previous.Label(), "to", order.Status.Label())
	return s.GetOrder(ctx, id)
}

func (s *rentalService) DeleteOrder(ctx context.Context, id int32) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Rental order delete failed", "orderID", id, "error", err)
		return err
	}
	logger.InfoContext(ctx, "Rental order deleted", "orderID", id)
	return nil
}

func (s *rentalService) ListOrders(ctx context.Context, filter domain.RentalOrderFilter) ([]domain.RentalOrder, int, error) {
	now := s.clock.now()
	orders, count, err := s.orders.List(ctx, filter, now)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Decorate(now)
	}
	return orders, count, nil
}

func (s *rentalService) CreateLine(ctx context.Context, in domain.RentalLineInput) (*domain.RentalLineItem, error) {
	logger.EnterMethod(ctx, "rentalService.CreateLine", "orderID", in.Order, "assetID", in.Asset)

	if err := domain.ValidateStruct(in); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateLine", err, true)
		return nil, err
	}
	line := in.Line()
	if err := s.checkLine(ctx, &line); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateLine", err, expected(err))
		return nil, err
	}
	if err := s.lines.Create(ctx, &line); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.CreateLine", err, expected(err))
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.CreateLine", "lineID", line.ID)
	return s.GetLine(ctx, line.ID)
}

func (s *rentalService) GetLine(ctx context.Context, id int32) (*domain.RentalLineItem, error) {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorateLine(line)
	return line, nil
}

func (s *rentalService) UpdateLine(ctx context.Context, id int32, patch domain.RentalLinePatch) (*domain.RentalLineItem, error) {
	logger.EnterMethod(ctx, "rentalService.UpdateLine", "lineID", id)

	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateLine", err, expected(err), "lineID", id)
		return nil, err
	}
	if err := patch.Apply(line); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateLine", err, true, "lineID", id)
		return nil, err
	}
	if err := s.checkLine(ctx, line); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateLine", err, expected(err), "lineID", id)
		return nil, err
	}
	if err := s.lines.Update(ctx, line); err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.UpdateLine", err, expected(err), "lineID", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.UpdateLine", "lineID", id)
	return s.GetLine(ctx, id)
}

func (s *rentalService) DeleteLine(ctx context.Context, id int32) error {
	if err := s.lines.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Rental line delete failed", "lineID", id, "error", err)
		return err
	}
	return nil
}

func (s *rentalService) ListLines(ctx context.Context, filter domain.RentalLineFilter) ([]domain.RentalLineItem, int, error) {
	lines, count, err := s.lines.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range lines {
		s.decorateLine(&lines[i])
	}
	return lines, count, nil
}

func (s *rentalService) decorateLine(line *domain.RentalLineItem) {
	if line.OrderDetail != nil {
		line.OrderDetail.Decorate(s.clock.now())
	}
}

// checkLine validates a line and rejects assets that are already booked on
// another open order in an overlapping window. The check and the write are
// separate statements, so two concurrent bookings can both pass.
func (s *rentalService) checkLine(ctx context.Context, line *domain.RentalLineItem) error {
	if err := line.Validate(); err != nil {
		return err
	}

	order, err := s.orders.GetByID(ctx, line.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("order", "Invalid pk - object does not exist.")
	}
	if err != nil {
		return err
	}
	if !order.ValidRange() {
		return domain.NewValidationError("order", "Rental order has an invalid date range")
	}

	reference, found, err := s.lines.FindOverlap(ctx, line.AssetID, order.RentalStart, order.RentalEnd, line.ID)
	if err != nil {
		return err
	}
	if found {
		return domain.NewValidationError("asset",
			fmt.Sprintf("Asset is already booked for an overlapping period (%s)", reference))
	}
	return nil
}

func (s *rentalService) MarkOverdue(ctx context.Context) ([]int32, error) {
	logger.DatabaseCall(ctx, "MarkOverdue")
	ids, err := s.orders.MarkOverdue(ctx, s.clock.now())
	logger.DatabaseResult(ctx, "MarkOverdue", int64(len(ids)), err)
	return ids, err
}

func (s *rentalService) OverdueOrders(ctx context.Context) ([]domain.RentalOrder, error) {
	overdue := true
	orders, _, err := s.ListOrders(ctx, domain.RentalOrderFilter{
		Overdue:     &overdue,
		ListOptions: domain.ListOptions{Ordering: "rental_end"},
	})
	return orders, err
}
