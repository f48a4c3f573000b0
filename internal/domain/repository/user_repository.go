package repository

import (
	"context"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// UserRepository puerto de usuarios y restaurantes (tenants).
type UserRepository interface {
	CreateRestaurant(ctx context.Context, r *entity.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*entity.Restaurant, error)
	CreateUser(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
