package service

import (
	"context"
	"time"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

type PermissionService struct {
	perms    ports.PermissionRepository
	resolver *PermissionResolver
}

func NewPermissionService(perms ports.PermissionRepository, resolver *PermissionResolver) *PermissionService {
	return &PermissionService{perms: perms, resolver: resolver}
}

func (s *PermissionService) Create(ctx context.Context, name, description string) (*domain.Permission, error) {
	return s.perms.Create(ctx, &domain.Permission{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.perms.List(ctx)
}

// FindByNames fails with a *domain.NotFoundError naming every unknown permission.
func (s *PermissionService) FindByNames(ctx context.Context, names []string) ([]domain.Permission, error) {
	return s.resolver.ByNames(ctx, names)
}
