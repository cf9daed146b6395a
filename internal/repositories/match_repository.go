package repositories

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// FindByPair returns the match linking two users in either order, or nil
func (r *MatchRepository) FindByPair(ctx context.Context, userID, otherID uint) (*models.Match, error) {
	low, high := models.PairKey(userID, otherID)

	var match models.Match
	result := r.db.WithContext(ctx).
		Where("pair_low_id = ? AND pair_high_id = ?", low, high).
		First(&match)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing match")
	}

	return &match, nil
}

// CreateIfAbsent inserts the match unless one already exists for the pair.
// It reports whether a row was written; a lost race is not an error.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, match *models.Match) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_low_id"}, {Name: "pair_high_id"}},
			DoNothing: true,
		}).
		Create(match)

	if stderrors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create match")
	}

	return result.RowsAffected > 0, nil
}

// ListForUser retrieves every match the user takes part in, newest first
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list matches")
	}

	return matches, nil
}

// GetMatchByID retrieves a match by ID
func (r *MatchRepository) GetMatchByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	result := r.db.WithContext(ctx).First(&match, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "match not found")
		}
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get match from db")
	}
	return &match, nil
}

// UpdateStatus sets the match status unconditionally
func (r *MatchRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update match status")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "match not found")
	}

	return nil
}

// UpdateStatusIfPending answers a match only while it is still pending
func (r *MatchRepository) UpdateStatusIfPending(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND status = ?", id, models.MatchStatusPending).
		Update("status", status)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update match status")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "match already answered")
	}

	return nil
}
