package userlist

import (
	"context"

	domain "user-crud-console/internal/domain/user"
)

// Remote is the /users data source the controller reconciles against.
// Every failure is reported as a *errors.TransportError.
type Remote interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// CreateUser submits u (carrying a client-assigned ID). The returned record
	// may carry a different identifier.
	CreateUser(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, f domain.Fields) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Notifier raises blocking, user-visible notices.
type Notifier interface {
	Notify(message string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
