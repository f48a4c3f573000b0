package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios y restaurantes sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// CreateRestaurant persiste un restaurante (tenant).
func (r *UserRepo) CreateRestaurant(ctx context.Context, rest *entity.Restaurant) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO restaurants (id, name, created_at) VALUES ($1, $2, $3)`,
		rest.ID, rest.Name, rest.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

// GetRestaurant devuelve el restaurante o nil si no existe.
func (r *UserRepo) GetRestaurant(ctx context.Context, id string) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	err := r.q.QueryRow(ctx,
		`SELECT id, name, created_at FROM restaurants WHERE id = $1`, id,
	).Scan(&rest.ID, &rest.Name, &rest.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &rest, nil
}

// CreateUser persiste un usuario. Email duplicado -> ErrEmailAlreadyExists.
func (r *UserRepo) CreateUser(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, restaurant_id, email, password_hash, name, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.RestaurantID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail devuelve el usuario o nil si el email no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, restaurant_id, email, password_hash, name, role, is_active, created_at
		FROM users WHERE email = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.RestaurantID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}
