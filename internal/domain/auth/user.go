package auth

import "time"

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleOwner || r == RoleAdmin
}

type User struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:120;not null" json:"name"`
	Email           string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Phone           string     `gorm:"size:32" json:"phone,omitempty"`
	Role            Role       `gorm:"size:16;not null;index" json:"role"`
	EmailVerified   bool       `gorm:"not null;default:false" json:"emailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	IsBanned        bool       `gorm:"not null;default:false;index" json:"isBanned"`
	BannedAt        *time.Time `json:"bannedAt,omitempty"`
	BanReason       string     `gorm:"size:500" json:"banReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
