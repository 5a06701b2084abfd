package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usuarios-api/internal/domain/user"
	pkgerrors "usuarios-api/pkg/errors"
)

// UserRepoPG implements the user Repository using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // shared connection pool
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the usuarios table.
// created_at is filled by the database default, never by the application.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "usuarios"
}

func (m UserSchema) toDomain() *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

// Create inserts a new user and returns the stored row.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	db := r.db.WithContext(ctx)
	if err := db.Create(&model).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, pkgerrors.ErrEmailAlreadyRegistered) {
			r.log.Warn("email already registered", zap.String("email", u.Email))
			return nil, err
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	// Drivers without RETURNING support leave the default column unset
	if model.CreatedAt.IsZero() {
		if err := db.First(&model, model.ID).Error; err != nil {
			r.log.Error("failed to reload created user", zap.Error(err), zap.Int64("id", model.ID))
			return nil, pkgerrors.NewInternalError("failed to reload user", err)
		}
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, err
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return model.toDomain(), nil
}

// Delete removes a user by ID and returns the row as it was before deletion.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&UserSchema{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Removed by a concurrent request between the read and the delete
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		err = translateError(err)
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			r.log.Debug("user to delete not found", zap.Int64("id", id))
			return nil, err
		}
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return nil, pkgerrors.NewInternalError("failed to delete user", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return model.toDomain(), nil
}

// List returns every user, newest id first.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = *model.toDomain()
	}

	return users, nil
}
