package models

import "time"

type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
