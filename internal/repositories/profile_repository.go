package repositories

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile owned by a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "profile not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get profile")
	}

	return &profile, nil
}

// SaveProfile creates the user's profile or overwrites every mutable field
// of the existing one
func (r *ProfileRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Profile
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", profile.UserID).
			First(&existing)

		switch {
		case result.Error == nil:
			profile.ID = existing.ID
			profile.CreatedAt = existing.CreatedAt
		case result.Error == gorm.ErrRecordNotFound:
			profile.ID = 0
		default:
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load profile")
		}

		if err := tx.Save(profile).Error; err != nil {
			if stderrors.Is(err, gorm.ErrInvalidData) {
				return errors.Wrap(err, errors.ErrCodeValidation, "invalid profile data")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save profile")
		}
		return nil
	})
}

// ListCompleteExcluding returns every complete profile not owned by userID
func (r *ProfileRepository) ListCompleteExcluding(ctx context.Context, userID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id <> ? AND is_complete = ?", userID, true).
		Order("user_id ASC").
		Find(&profiles).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list candidate profiles")
	}

	return profiles, nil
}
