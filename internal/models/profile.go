package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is a user's lifestyle and preference record, the input of the
// compatibility scorer. Zero values mean "not provided".
type Profile struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`

	// Basic info
	Age        int    `gorm:"default:0"`
	Gender     string `gorm:"type:varchar(20)"`
	Occupation string `gorm:"type:varchar(100)"`
	Education  string `gorm:"type:varchar(100)"`

	// Living preferences
	BudgetMin          int    `gorm:"default:0"`
	BudgetMax          int    `gorm:"default:0"`
	LocationPreference string `gorm:"type:varchar(200)"`
	RoomType           string `gorm:"type:varchar(50)"`

	LifestylePreferences datatypes.JSON `gorm:"type:jsonb"`

	// Compatibility factors, 1-5 scale
	CleanlinessLevel  int    `gorm:"default:0"`
	SocialLevel       int    `gorm:"default:0"`
	NoiseTolerance    int    `gorm:"default:0"`
	PetPreference     string `gorm:"type:varchar(20)"`
	SmokingPreference string `gorm:"type:varchar(20)"`

	Bio          string                      `gorm:"type:text"`
	Interests    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	DealBreakers datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	IsComplete bool      `gorm:"default:false;not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Preference values shared by pet and smoking preferences
const (
	PreferenceYes   = "yes"
	PreferenceNo    = "no"
	PreferenceMaybe = "maybe"
)

// Room types
const (
	RoomTypeSingle = "single"
	RoomTypeShared = "shared"
	RoomTypeStudio = "studio"
)

const (
	MinLevel = 1
	MaxLevel = 5
	MinAge   = 16
	MaxAge   = 120
)

// Complete reports whether every field required for matching is present.
func (p *Profile) Complete() bool {
	return p.Age != 0 &&
		p.Gender != "" &&
		p.BudgetMin != 0 &&
		p.BudgetMax != 0 &&
		p.LocationPreference != "" &&
		p.CleanlinessLevel != 0 &&
		p.SocialLevel != 0 &&
		p.NoiseTolerance != 0
}

// HasBudget reports whether both ends of the budget range are set.
func (p *Profile) HasBudget() bool {
	return p.BudgetMin != 0 && p.BudgetMax != 0
}

// Validate checks the ranges and enumerations of the provided fields.
// Missing fields are allowed; they only make the profile incomplete.
func (p *Profile) Validate() error {
	if p.Age != 0 && (p.Age < MinAge || p.Age > MaxAge) {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}
	if p.BudgetMin < 0 || p.BudgetMax < 0 {
		return fmt.Errorf("budget must not be negative")
	}
	if p.HasBudget() && p.BudgetMin > p.BudgetMax {
		return fmt.Errorf("budget_min must not exceed budget_max")
	}

	levels := []struct {
		field string
		value int
	}{
		{"cleanliness_level", p.CleanlinessLevel},
		{"social_level", p.SocialLevel},
		{"noise_tolerance", p.NoiseTolerance},
	}
	for _, l := range levels {
		if l.value != 0 && (l.value < MinLevel || l.value > MaxLevel) {
			return fmt.Errorf("%s must be between %d and %d", l.field, MinLevel, MaxLevel)
		}
	}

	if !validPreference(p.PetPreference) {
		return fmt.Errorf("pet_preference must be one of yes, no, maybe")
	}
	if !validPreference(p.SmokingPreference) {
		return fmt.Errorf("smoking_preference must be one of yes, no, maybe")
	}

	switch p.RoomType {
	case "", RoomTypeSingle, RoomTypeShared, RoomTypeStudio:
	default:
		return fmt.Errorf("room_type must be one of single, shared, studio")
	}

	return nil
}

func validPreference(v string) bool {
	switch v {
	case "", PreferenceYes, PreferenceNo, PreferenceMaybe:
		return true
	}
	return false
}

// BeforeSave hook for validation and completeness
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if p.UserID == 0 {
		return gorm.ErrInvalidData
	}
	if err := p.Validate(); err != nil {
		return gorm.ErrInvalidData
	}
	p.IsComplete = p.Complete()
	return nil
}

// TableName specifies the table name
func (Profile) TableName() string {
	return "user_profiles"
}
