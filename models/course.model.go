package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string `gorm:"unique;not null" json:"title"`
	Description string `json:"description"`
	Objectives  string `json:"objectives"`
	// OwnerID is the user id of the owning teacher.
	OwnerID   uint   `gorm:"index;not null" json:"owner_id"`
	IsPremium bool   `gorm:"default:false" json:"is_premium"`
	IsHidden  bool   `gorm:"default:false" json:"is_hidden"`
	Picture   string `gorm:"default:''" json:"picture"`
	// Rating is the mean of all non-null enrollment scores, 0 when unrated.
	Rating float64 `gorm:"default:0" json:"rating"`
	Owner  User    `gorm:"foreignKey:OwnerID" json:"-"`
}

type Section struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"course_id"`
	Title       string `gorm:"not null" json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Information string `json:"information"`
	Link        string `json:"link"`
	Course      Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
