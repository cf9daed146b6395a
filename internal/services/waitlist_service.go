package services

import (
	"context"
	"strings"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/security"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

type WaitlistService struct {
	entries WaitlistStore
}

func NewWaitlistService(entries WaitlistStore) *WaitlistService {
	return &WaitlistService{entries: entries}
}

// Join adds an email to the launch waitlist and returns it normalized.
// Joining twice succeeds.
func (s *WaitlistService) Join(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New(errors.ErrCodeValidation, "Email is required")
	}

	email = models.NormalizeEmail(email)
	if !security.ValidateEmail(email) {
		return "", errors.New(errors.ErrCodeValidation, "invalid email address")
	}

	if err := s.entries.Add(ctx, email); err != nil {
		return "", err
	}

	logger.Debug("Waitlist joined", "email", email)
	return email, nil
}
