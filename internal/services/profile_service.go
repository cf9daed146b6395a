package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/security"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
	"github.com/mroshb/roommatch/pkg/utils"
)

// ProfileInput is the full profile as submitted by its owner. Omitted
// fields clear the stored value.
type ProfileInput struct {
	Age                  int            `json:"age"`
	Gender               string         `json:"gender"`
	Occupation           string         `json:"occupation"`
	Education            string         `json:"education"`
	BudgetMin            int            `json:"budget_min"`
	BudgetMax            int            `json:"budget_max"`
	LocationPreference   string         `json:"location_preference"`
	RoomType             string         `json:"room_type"`
	CleanlinessLevel     int            `json:"cleanliness_level"`
	SocialLevel          int            `json:"social_level"`
	NoiseTolerance       int            `json:"noise_tolerance"`
	PetPreference        string         `json:"pet_preference"`
	SmokingPreference    string         `json:"smoking_preference"`
	Bio                  string         `json:"bio"`
	LifestylePreferences datatypes.JSON `json:"lifestyle_preferences"`
	Interests            []string       `json:"interests"`
	DealBreakers         []string       `json:"deal_breakers"`
}

type ProfileService struct {
	profiles ProfileStore
	users    UserStore
}

func NewProfileService(profiles ProfileStore, users UserStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
	}
}

// GetProfile returns the user and their profile; the profile is nil when
// none was saved yet
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, *models.Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}

// SaveProfile replaces the user's profile with input and returns the stored
// record with its completeness recomputed
func (s *ProfileService) SaveProfile(ctx context.Context, userID uint, input ProfileInput) (*models.Profile, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := buildProfile(userID, input)
	if err != nil {
		return nil, err
	}

	if err := profile.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, err.Error())
	}
	profile.IsComplete = profile.Complete()

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	logger.Info("Profile saved", "user_id", userID, "is_complete", profile.IsComplete)
	return profile, nil
}

func buildProfile(userID uint, in ProfileInput) (*models.Profile, error) {
	lifestyle, err := normalizeJSONObject(in.LifestylePreferences)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		UserID:               userID,
		Age:                  in.Age,
		Gender:               security.SanitizeText(strings.ToLower(in.Gender), 20),
		Occupation:           security.SanitizeText(in.Occupation, 100),
		Education:            security.SanitizeText(in.Education, 100),
		BudgetMin:            in.BudgetMin,
		BudgetMax:            in.BudgetMax,
		LocationPreference:   security.SanitizeText(in.LocationPreference, security.MaxShortText),
		RoomType:             strings.ToLower(strings.TrimSpace(in.RoomType)),
		CleanlinessLevel:     in.CleanlinessLevel,
		SocialLevel:          in.SocialLevel,
		NoiseTolerance:       in.NoiseTolerance,
		PetPreference:        strings.ToLower(strings.TrimSpace(in.PetPreference)),
		SmokingPreference:    strings.ToLower(strings.TrimSpace(in.SmokingPreference)),
		Bio:                  security.SanitizeText(in.Bio, security.MaxBioText),
		LifestylePreferences: lifestyle,
		Interests:            sanitizeTags(in.Interests),
		DealBreakers:         sanitizeTags(in.DealBreakers),
	}, nil
}

func sanitizeTags(tags []string) datatypes.JSONSlice[string] {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		clean = append(clean, security.SanitizeText(t, 50))
	}
	return datatypes.JSONSlice[string](utils.NormalizeTagSet(clean))
}

// normalizeJSONObject accepts an absent value, null or a JSON object
func normalizeJSONObject(raw datatypes.JSON) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, errors.New(errors.ErrCodeValidation, "lifestyle_preferences must be a JSON object")
	}
	return datatypes.JSON(trimmed), nil
}
