package services

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mroshb/roommatch/internal/matching"
	"github.com/mroshb/roommatch/internal/metrics"
	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

type MatchService struct {
	profiles ProfileStore
	matches  MatchStore
	users    UserStore

	// strictResponses makes a response a one-shot transition out of pending
	strictResponses bool
}

func NewMatchService(profiles ProfileStore, matches MatchStore, users UserStore, strictResponses bool) *MatchService {
	return &MatchService{
		profiles:        profiles,
		matches:         matches,
		users:           users,
		strictResponses: strictResponses,
	}
}

// requireCompleteProfile loads the user's profile and rejects missing or
// incomplete ones with a validation error carrying msg
func (s *MatchService) requireCompleteProfile(ctx context.Context, userID uint, msg string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, errors.New(errors.ErrCodeValidation, msg)
	}
	if err != nil {
		return nil, err
	}
	if !profile.Complete() {
		return nil, errors.New(errors.ErrCodeValidation, msg)
	}
	return profile, nil
}

// GenerateMatches scores every complete candidate against the requester and
// stores a pending match for each one above the threshold. Pairs that
// already have a match, including ones written concurrently, are skipped.
func (s *MatchService) GenerateMatches(ctx context.Context, userID uint) ([]GeneratedMatch, error) {
	timer := prometheus.NewTimer(metrics.GenerationDuration)
	defer timer.ObserveDuration()

	profile, err := s.requireCompleteProfile(ctx, userID, "Complete your profile to generate matches")
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.ListCompleteExcluding(ctx, userID)
	if err != nil {
		return nil, err
	}

	created := make([]GeneratedMatch, 0)
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.UserID == userID {
			continue
		}

		existing, err := s.matches.FindByPair(ctx, userID, candidate.UserID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		score, reason := matching.Evaluate(profile, candidate)
		metrics.CandidatesScored.Inc()
		if !matching.Qualifies(score) {
			continue
		}

		match := models.NewMatch(userID, candidate.UserID, score, reason)
		ok, err := s.matches.CreateIfAbsent(ctx, match)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.MatchConflicts.Inc()
			logger.Debug("Match already exists for pair", "user_id", userID, "candidate_id", candidate.UserID)
			continue
		}

		metrics.MatchesCreated.Inc()
		created = append(created, GeneratedMatch{
			MatchID:            match.ID,
			UserID:             candidate.UserID,
			CompatibilityScore: score,
			MatchReason:        reason,
		})
	}

	logger.Info("Matches generated",
		"user_id", userID,
		"candidates", len(candidates),
		"created", len(created),
	)

	return created, nil
}

// Respond records a participant's decision on a match
func (s *MatchService) Respond(ctx context.Context, matchID, userID uint, decision string) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !match.HasParticipant(userID) {
		return nil, errors.New(errors.ErrCodeForbidden, "Unauthorized")
	}

	status, ok := models.StatusForDecision(decision)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "Invalid response")
	}

	if s.strictResponses {
		err = s.matches.UpdateStatusIfPending(ctx, matchID, status)
	} else {
		err = s.matches.UpdateStatus(ctx, matchID, status)
	}
	if err != nil {
		return nil, err
	}

	match.Status = status
	metrics.MatchResponses.WithLabelValues(decision).Inc()
	logger.Info("Match answered", "match_id", matchID, "user_id", userID, "status", status)

	return match, nil
}

// ListMatches returns the user's matches with the counterpart's public
// details. Matches whose counterpart has no profile are left out.
func (s *MatchService) ListMatches(ctx context.Context, userID uint) ([]MatchView, error) {
	if _, err := s.requireCompleteProfile(ctx, userID, "Complete your profile to see matches"); err != nil {
		return nil, err
	}

	matches, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		otherID := m.Counterpart(userID)

		other, err := s.users.GetUserByID(ctx, otherID)
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		otherProfile, err := s.profiles.GetByUserID(ctx, otherID)
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		views = append(views, MatchView{
			ID: m.ID,
			User: CounterpartView{
				ID:         other.ID,
				FirstName:  other.FirstName,
				LastName:   other.LastName,
				Age:        otherProfile.Age,
				Occupation: otherProfile.Occupation,
				Bio:        otherProfile.Bio,
			},
			CompatibilityScore: m.CompatibilityScore,
			MatchReason:        m.MatchReason,
			Status:             m.Status,
			CreatedAt:          m.CreatedAt,
		})
	}

	return views, nil
}

// ResponseMessage is the confirmation shown after a decision
func ResponseMessage(status string) string {
	return fmt.Sprintf("Match %s successfully", status)
}
