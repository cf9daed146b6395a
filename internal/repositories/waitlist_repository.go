package repositories

import (
	"context"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Add stores the email; joining twice is not an error
func (r *WaitlistRepository) Add(ctx context.Context, email string) error {
	entry := &models.WaitlistEntry{Email: email}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(entry).Error

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to join waitlist")
	}
	return nil
}
