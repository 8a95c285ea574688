package service

import (
	"context"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/repository"
)

type catalogService[T any] struct {
	name string
	repo repository.CatalogRepository[T]
}

// NewCatalogService validates items against their struct tags before they
// reach the repository. name labels log lines.
func NewCatalogService[T any](name string, repo repository.CatalogRepository[T]) CatalogService[T] {
	return &catalogService[T]{name: name, repo: repo}
}

func (s *catalogService[T]) Create(ctx context.Context, item *T) error {
	method := s.name + ".Create"
	logger.EnterMethod(ctx, method)

	if err := domain.ValidateStruct(item); err != nil {
		logger.ExitMethodWithError(ctx, method, err, true)
		return err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError(ctx, method, err, expected(err))
		return err
	}

	logger.ExitMethod(ctx, method)
	return nil
}

func (s *catalogService[T]) Get(ctx context.Context, id int32) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService[T]) Update(ctx context.Context, item *T) error {
	method := s.name + ".Update"
	logger.EnterMethod(ctx, method)

	if err := domain.ValidateStruct(item); err != nil {
		logger.ExitMethodWithError(ctx, method, err, true)
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		logger.ExitMethodWithError(ctx, method, err, expected(err))
		return err
	}

	logger.ExitMethod(ctx, method)
	return nil
}

func (s *catalogService[T]) Delete(ctx context.Context, id int32) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Delete failed", "catalog", s.name, "id", id, "error", err)
		return err
	}
	return nil
}

func (s *catalogService[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	return s.repo.List(ctx, filter)
}

type lookupReader[T any] interface {
	GetByID(ctx context.Context, id int32) (*T, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error)
}

type lookupService[T any] struct {
	repo lookupReader[T]
}

func NewCustomerLookup(repo repository.CustomerRepository) LookupService[domain.Customer] {
	return &lookupService[domain.Customer]{repo: repo}
}

func NewOwnerLookup(repo repository.OwnerRepository) LookupService[domain.Owner] {
	return &lookupService[domain.Owner]{repo: repo}
}

func (s *lookupService[T]) Get(ctx context.Context, id int32) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *lookupService[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	return s.repo.List(ctx, filter)
}
