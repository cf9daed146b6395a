package handlers

import (
	"context"
	"time"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/services"
)

type AuthAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(token string) (uint, error)
	IssueTelegramLinkCode(ctx context.Context, userID uint) (string, time.Time, error)
}

type ProfileAPI interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, *models.Profile, error)
	SaveProfile(ctx context.Context, userID uint, input services.ProfileInput) (*models.Profile, error)
}

type MatchAPI interface {
	GenerateMatches(ctx context.Context, userID uint) ([]services.GeneratedMatch, error)
	Respond(ctx context.Context, matchID, userID uint, decision string) (*models.Match, error)
	ListMatches(ctx context.Context, userID uint) ([]services.MatchView, error)
}

type WaitlistAPI interface {
	Join(ctx context.Context, email string) (string, error)
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// HandlerManager groups the services the HTTP API is built on
type HandlerManager struct {
	Auth     AuthAPI
	Profiles ProfileAPI
	Matches  MatchAPI
	Waitlist WaitlistAPI
	Checks   map[string]HealthCheck
}

func NewHandlerManager(
	auth AuthAPI,
	profiles ProfileAPI,
	matches MatchAPI,
	waitlist WaitlistAPI,
	checks map[string]HealthCheck,
) *HandlerManager {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &HandlerManager{
		Auth:     auth,
		Profiles: profiles,
		Matches:  matches,
		Waitlist: waitlist,
		Checks:   checks,
	}
}
