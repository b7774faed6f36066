package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// UserService provides user-related operations.
type UserService interface {
	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// CreateUser validates the name and persists a new user.
	CreateUser(ctx context.Context, name string) (*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if users is nil.
func NewUserService(users store.UserStore, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "users store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_users", "failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name)
	if err != nil {
		log.Debug("user validation failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, NewServiceError("create_user", "failed to save user", err)
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}
