package models

import (
	"gorm.io/gorm"
)

// Roles are fixed at registration and never change afterwards.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

type User struct {
	gorm.Model
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
	// IsApproved is only meaningful for teachers: they cannot create
	// courses until an admin signs them off.
	IsApproved bool `gorm:"default:false" json:"is_approved"`
}

type Admin struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type Teacher struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName      string `gorm:"not null" json:"first_name"`
	LastName       string `gorm:"not null" json:"last_name"`
	PhoneNumber    string `gorm:"not null" json:"phone_number"`
	LinkedInAcc    string `gorm:"not null" json:"linked_in_acc"`
	ProfilePicture string `gorm:"default:''" json:"profile_picture"`
	User           User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type Student struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName      string `gorm:"not null" json:"first_name"`
	LastName       string `gorm:"not null" json:"last_name"`
	ProfilePicture string `gorm:"default:''" json:"profile_picture"`
	User           User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
