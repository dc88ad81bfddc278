package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// User is a storefront account. Deleting a user only sets DeletedAt.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Phone     string         `gorm:"size:30" json:"phone"`
	Birthdate string         `gorm:"size:10" json:"birthdate"`
	Gender    Gender         `gorm:"size:10" json:"gender"`
	Role      Role           `gorm:"size:10;not null;default:USER" json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the author/customer block embedded in admin listings.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
