package service

import (
	"context"
	"fmt"

	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/repository"
)

// CatalogService manages the two admin-maintained reference sets:
// plumbers and the service catalog.
type CatalogService interface {
	CreatePlumber(ctx context.Context, req *domain.PlumberCreateReq) (*domain.Plumber, error)
	GetPlumber(ctx context.Context, id string) (*domain.Plumber, error)
	ListPlumbers(ctx context.Context) ([]domain.Plumber, error)
	ListAvailablePlumbers(ctx context.Context) ([]domain.Plumber, error)
	UpdatePlumber(ctx context.Context, id string, patch domain.PlumberPatch) (*domain.Plumber, error)
	DeletePlumber(ctx context.Context, id string) error

	CreateService(ctx context.Context, req *domain.ServiceCreateReq) (*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListActiveServices(ctx context.Context) ([]domain.Service, error)
	ListServicesByCategory(ctx context.Context, category string) ([]domain.Service, error)
	UpdateService(ctx context.Context, id int64, patch domain.ServicePatch) (*domain.Service, error)
	DeleteService(ctx context.Context, id int64) error
}

type catalogService struct {
	plumberRepo repository.PlumberRepository
	serviceRepo repository.ServiceRepository
}

func NewCatalogService(plumberRepo repository.PlumberRepository, serviceRepo repository.ServiceRepository) CatalogService {
	return &catalogService{
		plumberRepo: plumberRepo,
		serviceRepo: serviceRepo,
	}
}

func (s *catalogService) CreatePlumber(ctx context.Context, req *domain.PlumberCreateReq) (*domain.Plumber, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.plumberRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing plumber: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	return s.plumberRepo.Create(ctx, req)
}

func (s *catalogService) GetPlumber(ctx context.Context, id string) (*domain.Plumber, error) {
	plumber, err := s.plumberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get plumber: %w", err)
	}
	if plumber == nil {
		return nil, domain.ErrNotFound
	}
	return plumber, nil
}

func (s *catalogService) ListPlumbers(ctx context.Context) ([]domain.Plumber, error) {
	return s.plumberRepo.List(ctx)
}

func (s *catalogService) ListAvailablePlumbers(ctx context.Context) ([]domain.Plumber, error) {
	return s.plumberRepo.ListAvailable(ctx)
}

func (s *catalogService) UpdatePlumber(ctx context.Context, id string, patch domain.PlumberPatch) (*domain.Plumber, error) {
	plumber, err := s.plumberRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update plumber: %w", err)
	}
	if plumber == nil {
		return nil, domain.ErrNotFound
	}
	return plumber, nil
}

func (s *catalogService) DeletePlumber(ctx context.Context, id string) error {
	deleted, err := s.plumberRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete plumber: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, req *domain.ServiceCreateReq) (*domain.Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.serviceRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing service: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	return s.serviceRepo.Create(ctx, req)
}

func (s *catalogService) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *catalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.List(ctx)
}

func (s *catalogService) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.ListActive(ctx)
}

func (s *catalogService) ListServicesByCategory(ctx context.Context, category string) ([]domain.Service, error) {
	return s.serviceRepo.ListByCategory(ctx, category)
}

func (s *catalogService) UpdateService(ctx context.Context, id int64, patch domain.ServicePatch) (*domain.Service, error) {
	svc, err := s.serviceRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id int64) error {
	deleted, err := s.serviceRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
