package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rmendiola/belleza/internal/models"
)

// CatalogRepository defines the interface for catalog reads
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]*models.Service, error)
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	ListProfessionals(ctx context.Context) ([]*models.Professional, error)
	GetProfessionalByID(ctx context.Context, id string) (*models.Professional, error)
	GetProfessionalByUserID(ctx context.Context, userID string) (*models.Professional, error)
}

// CatalogService serves the public service and professional listings.
type CatalogService struct {
	repo   CatalogRepository
	logger *slog.Logger
}

func NewCatalogService(repo CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		s.logger.Error("failed to list services", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return services, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get service", slog.String("service_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return svc, nil
}

func (s *CatalogService) ListProfessionals(ctx context.Context) ([]*models.Professional, error) {
	professionals, err := s.repo.ListProfessionals(ctx)
	if err != nil {
		s.logger.Error("failed to list professionals", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return professionals, nil
}

func (s *CatalogService) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	pro, err := s.repo.GetProfessionalByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get professional", slog.String("professional_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return pro, nil
}
