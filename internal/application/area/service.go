package area

import (
	"context"
	"fmt"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/pkg/id"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/pkg/validate"
)

// Service manages the incident-area catalog users are assigned to.
type Service interface {
	List(ctx context.Context) ([]domain.IncidentArea, error)
	Get(ctx context.Context, areaID string) (*domain.IncidentArea, error)
	Create(ctx context.Context, in domain.IncidentAreaInput) (*domain.IncidentArea, error)
	Update(ctx context.Context, areaID string, in domain.IncidentAreaInput) (*domain.IncidentArea, error)
	Delete(ctx context.Context, areaID string) error
}

type areaStore interface {
	Put(ctx context.Context, a *domain.IncidentArea) error
	Get(ctx context.Context, areaID string) (*domain.IncidentArea, error)
	List(ctx context.Context) ([]domain.IncidentArea, error)
	Update(ctx context.Context, areaID string, updates map[string]interface{}) error
	Delete(ctx context.Context, areaID string) error
}

type service struct {
	repo areaStore
}

func NewService(repo areaStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.IncidentArea, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, areaID string) (*domain.IncidentArea, error) {
	return s.repo.Get(ctx, areaID)
}

func (s *service) Create(ctx context.Context, in domain.IncidentAreaInput) (*domain.IncidentArea, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	a := &domain.IncidentArea{
		AreaID: id.New(),
		Name:   in.Name,
		Enable: true,
	}
	if in.Enable != nil {
		a.Enable = *in.Enable
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, areaID string, in domain.IncidentAreaInput) (*domain.IncidentArea, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	updates := map[string]interface{}{"name": in.Name}
	if in.Enable != nil {
		updates["enable"] = *in.Enable
	}
	if err := s.repo.Update(ctx, areaID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, areaID)
}

func (s *service) Delete(ctx context.Context, areaID string) error {
	return s.repo.Delete(ctx, areaID)
}
