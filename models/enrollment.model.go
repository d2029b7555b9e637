package models

import "gorm.io/gorm"

// StudentCourse links a student to a course. The composite unique index is
// the storage-level guard against two concurrent subscribe calls creating
// duplicate rows for the same pair.
type StudentCourse struct {
	gorm.Model
	StudentID  uint     `gorm:"uniqueIndex:idx_student_course;not null" json:"student_id"`
	CourseID   uint     `gorm:"uniqueIndex:idx_student_course;not null" json:"course_id"`
	IsApproved bool     `gorm:"default:false" json:"is_approved"`
	Progress   float64  `gorm:"default:0" json:"progress"`
	Score      *float64 `json:"score"`
	IsFavorite bool     `gorm:"default:false" json:"is_favorite"`
	Student    User     `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course     Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// SectionVisit records a student's first visit of a section. Progress is
// derived from distinct rows here, so revisits can never double-count.
type SectionVisit struct {
	gorm.Model
	StudentID uint    `gorm:"uniqueIndex:idx_student_section;not null" json:"student_id"`
	SectionID uint    `gorm:"uniqueIndex:idx_student_section;not null" json:"section_id"`
	Section   Section `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
}
