package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-crud-console/internal/domain/user"
	apperrors "user-crud-console/pkg/errors"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if id, ok := args.Get(0).(int64); ok {
		u.ID = id
	}
	return args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	return New(mockRepo, zaptest.NewLogger(t)), mockRepo
}

// ==================== LIST / GET ====================

func TestListUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{
		{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442"},
		{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv", Phone: "010-692-6593 x09125"},
	}
	mockRepo.On("List", ctx).Return(users, nil)

	got, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, users, got)
	mockRepo.AssertExpectations(t)
}

func TestListUsers_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("database is locked"))

	got, err := svc.ListUsers(ctx)

	assert.Nil(t, got)
	assert.EqualError(t, err, "database is locked")
}

func TestGetUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	want := &domain.User{ID: 3, Name: "Clementine Bauch", Email: "Nathan@yesenia.net", Phone: "1-463-123-4447"}
	mockRepo.On("GetByID", ctx, int64(3)).Return(want, nil)

	got, err := svc.GetUser(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, apperrors.NewNotFoundError("user", 42))

	_, err := svc.GetUser(ctx, 42)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetUser_InvalidIDIsNotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	_, err := svc.GetUser(context.Background(), 0)

	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ==================== CREATE ====================

func TestCreateUser_AssignsID(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	in := domain.Fields{Name: "Ann", Email: "ann@example.com", Phone: "555"}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 0 && u.Fields() == in
	})).Return(int64(11), nil)

	got, err := svc.CreateUser(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: 11, Name: "Ann", Email: "ann@example.com", Phone: "555"}, got)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_AcceptsEmptyFields(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(int64(11), nil)

	got, err := svc.CreateUser(ctx, domain.Fields{})

	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
}

func TestCreateUser_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("disk full"))

	got, err := svc.CreateUser(ctx, domain.Fields{Name: "Ann"})

	assert.Nil(t, got)
	assert.EqualError(t, err, "disk full")
}

// ==================== UPDATE ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	in := domain.Fields{Name: "Ann", Email: "ann@example.com", Phone: "555-0100"}
	mockRepo.On("Update", ctx, &domain.User{ID: 1, Name: "Ann", Email: "ann@example.com", Phone: "555-0100"}).Return(nil)

	got, err := svc.UpdateUser(ctx, 1, in)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, in, got.Fields())
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, mock.Anything).Return(apperrors.NewNotFoundError("user", 99))

	_, err := svc.UpdateUser(ctx, 99, domain.Fields{Name: "x"})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	_, err := svc.UpdateUser(context.Background(), -1, domain.Fields{})

	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ==================== DELETE ====================

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(5)).Return(nil)

	require.NoError(t, svc.DeleteUser(ctx, 5))
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	err := svc.DeleteUser(context.Background(), 0)

	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(77)).Return(apperrors.NewNotFoundError("user", 77))

	err := svc.DeleteUser(ctx, 77)

	assert.Equal(t, 404, apperrors.StatusOf(err))
}
