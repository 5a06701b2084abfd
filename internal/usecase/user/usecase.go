package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "usuarios-api/internal/domain/user"
	pkgerrors "usuarios-api/pkg/errors"
	"usuarios-api/pkg/logger"
)

// Repository defines the interface for user data access operations.
// Implementations translate store failures into pkg/errors domain errors:
// ErrUserNotFound for a missing row and ErrEmailAlreadyRegistered for a
// duplicate email.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error) // Insert and return the stored row
	GetByID(ctx context.Context, id int64) (*domain.User, error)      // Retrieve user by ID
	Delete(ctx context.Context, id int64) (*domain.User, error)       // Delete and return the removed row
	List(ctx context.Context) ([]domain.User, error)                  // All users, id descending
}

// userUsecase implements the business logic for user management operations.
type userUsecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new Usecase backed by the given repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &userUsecase{repo: r, log: log, validate: validator.New()}
}

// CreateUser validates presence of name and email before touching the store.
func (uc *userUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.ErrMissingFields
	}

	u, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		return nil, err
	}
	return &CreateUserResponse{User: toDTO(u)}, nil
}

// DeleteUser removes a user and returns the deleted row.
func (uc *userUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		log.Warn("delete user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, pkgerrors.ErrInvalidID
	}

	u, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &DeleteUserResponse{User: toDTO(u)}, nil
}

// GetUser retrieves a user by ID.
func (uc *userUsecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	if in.ID <= 0 {
		logger.WithContext(ctx, uc.log).Warn("get user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, pkgerrors.ErrInvalidID
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &GetUserResponse{User: toDTO(u)}, nil
}

// ListUsers returns every user, newest first.
func (uc *userUsecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{
		Total: len(users),
		Users: users,
	}, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
