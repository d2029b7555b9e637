package models

import "gorm.io/gorm"

type Tag struct {
	gorm.Model
	Name string `gorm:"unique;not null" json:"name"`
}

type CourseTag struct {
	gorm.Model
	CourseID uint   `gorm:"uniqueIndex:idx_course_tag;not null" json:"course_id"`
	TagID    uint   `gorm:"uniqueIndex:idx_course_tag;not null" json:"tag_id"`
	Course   Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Tag      Tag    `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}
