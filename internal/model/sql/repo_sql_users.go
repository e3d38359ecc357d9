package sql

import (
	"blog/internal/entity/common"
	"blog/internal/entity/db"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CreateUser persists a new user record. A taken username or email surfaces as
// gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateUser(ctx context.Context, user *db.User) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*db.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUsersByUsername returns every user with the exact username.
func (r *GormRepository) FindUsersByUsername(ctx context.Context, username string) ([]db.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindUsersByEmail returns every user with the exact email.
func (r *GormRepository) FindUsersByEmail(ctx context.Context, email string) ([]db.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserPermission changes the account level of a user.
func (r *GormRepository) UpdateUserPermission(ctx context.Context, id uint, level common.AccountLevel) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	result := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Update("permission", level)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListUsersByPermission returns users holding the given level, oldest first.
func (r *GormRepository) ListUsersByPermission(ctx context.Context, level common.AccountLevel) ([]db.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("permission = ?", level).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
