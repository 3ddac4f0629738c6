package repo

import (
	"context"

	"github.com/mvolkova/taskboard/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken overwrites the stored refresh token, invalidating whatever
// session held the previous value.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID uint, token string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// ClearRefreshToken nulls the stored token only while it still equals the
// presented value, so a session rotated in the meantime stays untouched.
func (r *GormRepo) ClearRefreshToken(ctx context.Context, userID uint, token string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, token).
		Update("refresh_token", nil).Error
}
