package services

import (
	"context"
	"time"

	"github.com/mroshb/roommatch/internal/models"
)

// UserStore is the subset of user persistence the services rely on.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	SetTelegramLinkCode(ctx context.Context, userID uint, code string, expiresAt time.Time) error
	LinkTelegram(ctx context.Context, code string, telegramID int64, now time.Time) (*models.User, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error
	ListCompleteExcluding(ctx context.Context, userID uint) ([]models.Profile, error)
}

// MatchStore persists matches. CreateIfAbsent must enforce one match per
// unordered pair and report false instead of failing when it loses.
type MatchStore interface {
	FindByPair(ctx context.Context, userID, otherID uint) (*models.Match, error)
	CreateIfAbsent(ctx context.Context, match *models.Match) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Match, error)
	GetMatchByID(ctx context.Context, id uint) (*models.Match, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateStatusIfPending(ctx context.Context, id uint, status string) error
}

type WaitlistStore interface {
	Add(ctx context.Context, email string) error
}
