package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if stderrors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return errors.New(errors.ErrCodeAlreadyExists, "user already exists")
	}
	if stderrors.Is(result.Error, gorm.ErrInvalidData) {
		return errors.Wrap(result.Error, errors.ErrCodeValidation, "invalid user data")
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByTelegramID retrieves a user by Telegram ID
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// SetTelegramLinkCode stores a one-time code the user can send to the bot
func (r *UserRepository) SetTelegramLinkCode(ctx context.Context, userID uint, code string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"telegram_link_code":       code,
			"telegram_link_expires_at": expiresAt,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to store link code")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// LinkTelegram binds a Telegram account to the user holding a valid code
func (r *UserRepository) LinkTelegram(ctx context.Context, code string, telegramID int64, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("telegram_link_code = ? AND telegram_link_expires_at > ?", code, now).First(&user)
		if result.Error == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "link code is invalid or expired")
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up link code")
		}

		// Unbind the Telegram account from any previous user first
		if err := tx.Model(&models.User{}).
			Where("telegram_id = ? AND id <> ?", telegramID, user.ID).
			Update("telegram_id", nil).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to release telegram account")
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"telegram_id":              telegramID,
			"telegram_link_code":       "",
			"telegram_link_expires_at": nil,
		}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to link telegram account")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.TelegramID = &telegramID
	return &user, nil
}
