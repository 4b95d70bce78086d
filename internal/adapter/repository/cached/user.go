package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-crud-console/internal/adapter/cache"
	domain "user-crud-console/internal/domain/user"
	"user-crud-console/internal/usecase/user"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository with cache-aside reads.
// Writes go to the wrapped repository and then invalidate the cache.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository wraps dbRepo. A nil cache turns every call into a pass-through.
func NewUserRepository(dbRepo user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// List returns the cached collection, loading it once per miss.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	if r.cache == nil {
		return r.dbRepo.List(ctx)
	}

	if users, err := r.cache.GetList(ctx); err != nil {
		r.log.Warn("cache list error, falling back to database", zap.Error(err))
	} else if users != nil {
		return users, nil
	}

	result, err, _ := r.group.Do("users", func() (any, error) {
		users, err := r.dbRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := r.cache.SetList(ctx, users); err != nil {
			r.log.Warn("failed to cache user list", zap.Error(err))
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.User), nil
}

// GetByID retrieves a user by id using the cache-aside pattern.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache == nil {
		return r.dbRepo.GetByID(ctx, id)
	}

	if u, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
	} else if u != nil {
		return u, nil
	}

	// one database hit per key while a miss is being filled
	result, err, _ := r.group.Do(fmt.Sprintf("user:%d", id), func() (any, error) {
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := *result.(*domain.User)
	return &u, nil
}

// Create inserts u and drops the cached collection.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Create(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

// Update updates u and invalidates its cached copies.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

// Delete removes user id and invalidates its cached copies.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *UserRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.Int64("id", id), zap.Error(err))
	}
}
