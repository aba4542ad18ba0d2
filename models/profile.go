package models

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Profile links an Auth0 identity to a back-office role
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Auth0ID   string    `gorm:"uniqueIndex;not null" json:"auth0_id"` // 'sub' claim
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"not null;default:'staff'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// IsAdmin reports whether the profile may use the admin console
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
