package service

import (
	"context"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/repository"
)

type furnitureService struct {
	assignments repository.AssignmentRepository
	clock       Clock
}

func NewFurnitureService(assignments repository.AssignmentRepository, clock Clock) FurnitureService {
	return &furnitureService{assignments: assignments, clock: clock}
}

func (s *furnitureService) CreateAssignment(ctx context.Context, in domain.AssignmentInput) (*domain.FurnitureAssignment, error) {
	logger.EnterMethod(ctx, "furnitureService.CreateAssignment", "eventID", in.Event, "partID", in.Part, "itemID", in.Item)

	if err := domain.ValidateStruct(in); err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.CreateAssignment", err, true)
		return nil, err
	}
	assignment := in.Assignment()
	if err := assignment.Validate(); err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.CreateAssignment", err, true)
		return nil, err
	}

	saved, merged, err := s.assignments.CreateOrMerge(ctx, &assignment, func(existing *domain.FurnitureAssignment) error {
		in.MergeInto(existing)
		return existing.Validate()
	})
	if err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.CreateAssignment", err, expected(err))
		return nil, err
	}

	result, err := s.GetAssignment(ctx, saved.ID)
	if err != nil {
		return nil, err
	}
	result.UpdatedExisting = merged

	logger.ExitMethod(ctx, "furnitureService.CreateAssignment", "assignmentID", result.ID, "updatedExisting", merged)
	return result, nil
}

func (s *furnitureService) GetAssignment(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Decorate()
	return a, nil
}

func (s *furnitureService) UpdateAssignment(ctx context.Context, id int32, patch domain.AssignmentPatch) (*domain.FurnitureAssignment, error) {
	logger.EnterMethod(ctx, "furnitureService.UpdateAssignment", "assignmentID", id)

	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.UpdateAssignment", err, expected(err), "assignmentID", id)
		return nil, err
	}
	if err := patch.Apply(a, s.clock.now()); err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.UpdateAssignment", err, true, "assignmentID", id)
		return nil, err
	}
	if err := s.assignments.Update(ctx, a); err != nil {
		logger.ExitMethodWithError(ctx, "furnitureService.UpdateAssignment", err, expected(err), "assignmentID", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "furnitureService.UpdateAssignment", "assignmentID", id, "status", a.Status.Label())
	return s.GetAssignment(ctx, id)
}

func (s *furnitureService) DeleteAssignment(ctx context.Context, id int32) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Assignment delete failed", "assignmentID", id, "error", err)
		return err
	}
	return nil
}

func (s *furnitureService) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error) {
	rows, count, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Decorate()
	}
	return rows, count, nil
}

func (s *furnitureService) PartUsage(ctx context.Context, partID int32) (int, error) {
	active := true
	limit := 1
	_, count, err := s.assignments.List(ctx, domain.AssignmentFilter{
		Part:        &partID,
		Active:      &active,
		ListOptions: domain.ListOptions{Limit: &limit},
	})
	return count, err
}
