package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/auth-server/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func (r *GormStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser relies on the unique index on username as the real
// duplicate guard; the FirstOrCreate lookup only gives a clean error
// for the common case.
func (r *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormStore) AppendLoginAttempt(ctx context.Context, username string, success bool, at time.Time) error {
	attempt := models.LoginAttempt{
		Username:    username,
		Success:     success,
		AttemptTime: at,
	}
	return r.DB.WithContext(ctx).Create(&attempt).Error
}

func (r *GormStore) CountRecentFailures(ctx context.Context, username string, window time.Duration) (int64, error) {
	var n int64
	cutoff := time.Now().Add(-window)
	err := r.DB.WithContext(ctx).Model(&models.LoginAttempt{}).
		Where("username = ? AND success = ? AND attempt_time > ?", username, false, cutoff).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormStore) SetLocked(ctx context.Context, username string, locked bool) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("locked", locked).Error
}
