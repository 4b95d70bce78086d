package user

import (
	"context"

	domain "user-crud-console/internal/domain/user"
)

// Repository defines the storage the mock API serves /users from.
// Lookups of an absent id return *errors.NotFoundError.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error // assigns u.ID
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// Usecase defines the /users operations exposed by the mock API transports.
type Usecase interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.Fields) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in domain.Fields) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
