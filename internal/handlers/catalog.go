package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rmendiola/belleza/internal/models"
	pkghttp "github.com/rmendiola/belleza/pkg/http"
)

// CatalogServiceInterface defines the interface for catalog reads
type CatalogServiceInterface interface {
	ListServices(ctx context.Context) ([]*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListProfessionals(ctx context.Context) ([]*models.Professional, error)
	GetProfessional(ctx context.Context, id string) (*models.Professional, error)
}

// CatalogHandler serves the public service and professional listings
type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ServiceResponse represents a bookable service in HTTP responses
type ServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int    `json:"priceCents"`
	DurationMin int    `json:"durationMin"`
}

// ProfessionalResponse represents a professional in HTTP responses
type ProfessionalResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Specialty   string `json:"specialty"`
	CreatedAt   string `json:"createdAt"`
}

func toServiceResponse(svc *models.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Category:    svc.Category,
		PriceCents:  svc.PriceCents,
		DurationMin: svc.DurationMin,
	}
}

func toProfessionalResponse(pro *models.Professional) *ProfessionalResponse {
	return &ProfessionalResponse{
		ID:          pro.ID,
		DisplayName: pro.DisplayName,
		Bio:         pro.Bio,
		Specialty:   pro.Specialty,
		CreatedAt:   pro.CreatedAt.Format(time.RFC3339),
	}
}

// ListServices returns all active services
// @Router /services [get]
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	out := make([]*ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, toServiceResponse(svc))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"services": out,
	})
}

// GetService returns one service by id
// @Router /services/{id} [get]
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.service.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Service not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"service": toServiceResponse(svc),
	})
}

// ListProfessionals returns all active professionals
// @Router /professionals [get]
func (h *CatalogHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	professionals, err := h.service.ListProfessionals(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	out := make([]*ProfessionalResponse, 0, len(professionals))
	for _, pro := range professionals {
		out = append(out, toProfessionalResponse(pro))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"professionals": out,
	})
}

// GetProfessional returns one professional by id
// @Router /professionals/{id} [get]
func (h *CatalogHandler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pro, err := h.service.GetProfessional(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Professional not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"professional": toProfessionalResponse(pro),
	})
}
