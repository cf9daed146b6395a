package models

import (
	"time"

	"gorm.io/gorm"
)

// Match is one scored pairing between two users. The pair is unordered for
// uniqueness: PairLowID/PairHighID carry the sorted ids and are covered by a
// unique index.
type Match struct {
	ID                 uint      `gorm:"primaryKey"`
	UserAID            uint      `gorm:"not null;index"`
	UserA              *User     `gorm:"foreignKey:UserAID;constraint:OnDelete:CASCADE"`
	UserBID            uint      `gorm:"not null;index"`
	UserB              *User     `gorm:"foreignKey:UserBID;constraint:OnDelete:CASCADE"`
	PairLowID          uint      `gorm:"not null;uniqueIndex:idx_match_pair"`
	PairHighID         uint      `gorm:"not null;uniqueIndex:idx_match_pair"`
	CompatibilityScore float64   `gorm:"not null"`
	MatchReason        string    `gorm:"type:text"`
	Status             string    `gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt          time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// Match status constants
const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
	MatchStatusRejected = "rejected"
)

// Decisions a participant can send
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// StatusForDecision maps a decision to the status it produces.
func StatusForDecision(decision string) (string, bool) {
	switch decision {
	case DecisionAccept:
		return MatchStatusAccepted, true
	case DecisionReject:
		return MatchStatusRejected, true
	}
	return "", false
}

// PairKey returns the two ids sorted ascending.
func PairKey(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewMatch builds a pending match from requester to candidate.
func NewMatch(requesterID, candidateID uint, score float64, reason string) *Match {
	low, high := PairKey(requesterID, candidateID)
	return &Match{
		UserAID:            requesterID,
		UserBID:            candidateID,
		PairLowID:          low,
		PairHighID:         high,
		CompatibilityScore: score,
		MatchReason:        reason,
		Status:             MatchStatusPending,
	}
}

// HasParticipant reports whether userID is one of the two users.
func (m *Match) HasParticipant(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// Counterpart returns the other participant's id.
func (m *Match) Counterpart(userID uint) uint {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// IsTerminal reports whether the match has been answered.
func (m *Match) IsTerminal() bool {
	return m.Status == MatchStatusAccepted || m.Status == MatchStatusRejected
}

// BeforeCreate hook keeps the pair key in sync and rejects self matches
func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.UserAID == 0 || m.UserBID == 0 || m.UserAID == m.UserBID {
		return gorm.ErrInvalidData
	}
	m.PairLowID, m.PairHighID = PairKey(m.UserAID, m.UserBID)
	if m.Status == "" {
		m.Status = MatchStatusPending
	}
	if m.CompatibilityScore < 0 || m.CompatibilityScore > 1 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Match) TableName() string {
	return "matches"
}
