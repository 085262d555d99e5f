package models

import "time"

// RefreshToken is a long-lived, DB-backed token exchanged for fresh
// JWTs. Username stores the account email.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;type:varchar(128);not null" json:"-"`
	Username  string    `gorm:"type:varchar(180);index;not null" json:"username"`
	Valid     time.Time `gorm:"not null" json:"valid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Expired reports whether the token is past its validity window.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.Valid.Before(now)
}
