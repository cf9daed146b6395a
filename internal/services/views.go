package services

import (
	"time"

	"gorm.io/datatypes"

	"github.com/mroshb/roommatch/internal/models"
)

// UserView is the account data returned to its owner.
type UserView struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	IsVerified bool   `json:"is_verified"`
	Telegram   bool   `json:"telegram_linked"`
}

func NewUserView(u *models.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		Telegram:   u.TelegramID != nil,
	}
}

type ProfileView struct {
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
	IsComplete           bool           `json:"is_complete"`
	LifestylePreferences datatypes.JSON `json:"lifestyle_preferences"`
	Interests            []string       `json:"interests"`
	DealBreakers         []string       `json:"deal_breakers"`
}

func NewProfileView(p *models.Profile) ProfileView {
	lifestyle := p.LifestylePreferences
	if len(lifestyle) == 0 {
		lifestyle = datatypes.JSON("null")
	}
	return ProfileView{
		Age:                  p.Age,
		Gender:               p.Gender,
		Occupation:           p.Occupation,
		Education:            p.Education,
		BudgetMin:            p.BudgetMin,
		BudgetMax:            p.BudgetMax,
		LocationPreference:   p.LocationPreference,
		RoomType:             p.RoomType,
		CleanlinessLevel:     p.CleanlinessLevel,
		SocialLevel:          p.SocialLevel,
		NoiseTolerance:       p.NoiseTolerance,
		PetPreference:        p.PetPreference,
		SmokingPreference:    p.SmokingPreference,
		Bio:                  p.Bio,
		IsComplete:           p.IsComplete,
		LifestylePreferences: lifestyle,
		Interests:            p.Interests,
		DealBreakers:         p.DealBreakers,
	}
}

// CounterpartView is what a user may see of the other side of a match.
type CounterpartView struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Age        int    `json:"age"`
	Occupation string `json:"occupation"`
	Bio        string `json:"bio"`
}

type MatchView struct {
	ID                 uint            `json:"id"`
	User               CounterpartView `json:"user"`
	CompatibilityScore float64         `json:"compatibility_score"`
	MatchReason        string          `json:"match_reason"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
}

// GeneratedMatch describes a match created by one generation run.
type GeneratedMatch struct {
	MatchID            uint    `json:"match_id"`
	UserID             uint    `json:"user_id"`
	CompatibilityScore float64 `json:"compatibility_score"`
	MatchReason        string  `json:"match_reason"`
}
