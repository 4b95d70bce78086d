package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-crud-console/internal/domain/user"
	apperrors "user-crud-console/pkg/errors"
	"user-crud-console/pkg/logger"
)

const resourceUser = "user"

var _ Usecase = (*Service)(nil)

// Service implements the mock API's /users operations. Like the public
// JSONPlaceholder API it accepts any payload: no field is validated.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new Service over the given repository.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

// ListUsers returns every stored user ordered by id.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewNotFoundError(resourceUser, id)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to get user", id, err)
		return nil, err
	}
	return u, nil
}

// CreateUser stores a new user and returns it with the server-assigned id.
func (s *Service) CreateUser(ctx context.Context, in domain.Fields) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	u := in.WithID(0)
	if err := s.repo.Create(ctx, &u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the editable fields of user id.
func (s *Service) UpdateUser(ctx context.Context, id int64, in domain.Fields) (*domain.User, error) {
	logger.WithContext(ctx, s.log).Info("updating user", zap.Int64("id", id), zap.String("name", in.Name), zap.String("email", in.Email))

	if id <= 0 {
		return nil, apperrors.NewNotFoundError(resourceUser, id)
	}

	u := in.WithID(id)
	if err := s.repo.Update(ctx, &u); err != nil {
		s.logFailure(ctx, "failed to update user", id, err)
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes user id.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	logger.WithContext(ctx, s.log).Info("deleting user", zap.Int64("id", id))

	if id <= 0 {
		return apperrors.NewNotFoundError(resourceUser, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure(ctx, "failed to delete user", id, err)
		return err
	}
	return nil
}

// logFailure logs misses at warn level and everything else at error level.
func (s *Service) logFailure(ctx context.Context, msg string, id int64, err error) {
	log := logger.WithContext(ctx, s.log)
	if apperrors.IsNotFound(err) {
		log.Warn(msg, zap.Int64("id", id), zap.Error(err))
		return
	}
	log.Error(msg, zap.Int64("id", id), zap.Error(err))
}
