package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                    uint       `gorm:"primaryKey"`
	Email                 string     `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash          string     `gorm:"type:varchar(128);not null"`
	FirstName             string     `gorm:"type:varchar(50);not null"`
	LastName              string     `gorm:"type:varchar(50);not null"`
	Phone                 string     `gorm:"type:varchar(20)"`
	IsVerified            bool       `gorm:"default:false;not null"`
	TelegramID            *int64     `gorm:"uniqueIndex"`
	TelegramLinkCode      string     `gorm:"type:varchar(16);index"`
	TelegramLinkExpiresAt *time.Time `gorm:"default:NULL"`
	Profile               *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time  `gorm:"autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave hook for validation and normalization
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return gorm.ErrInvalidData
	}
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return gorm.ErrInvalidData
	}
	if u.PasswordHash == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
