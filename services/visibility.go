package services

import (
	"learnhub/models"

	"gorm.io/gorm"
)

// CourseView is the projection of a course a given viewer is allowed to see.
// Teaser views deliberately omit the ID so unapproved students cannot
// enumerate premium course identifiers.
type CourseView struct {
	ID          uint    `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Objectives  string  `json:"objectives,omitempty"`
	OwnerID     uint    `json:"owner_id,omitempty"`
	IsPremium   bool    `json:"is_premium,omitempty"`
	IsHidden    bool    `json:"is_hidden,omitempty"`
	Picture     string  `json:"picture,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Teaser      bool    `json:"teaser,omitempty"`
}

func fullView(course models.Course) CourseView {
	return CourseView{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Objectives:  course.Objectives,
		OwnerID:     course.OwnerID,
		IsPremium:   course.IsPremium,
		IsHidden:    course.IsHidden,
		Picture:     course.Picture,
		Rating:      course.Rating,
	}
}

// teaserView keeps enough to advertise a premium course without exposing its
// identifier or content.
func teaserView(course models.Course) CourseView {
	return CourseView{
		Title:       course.Title,
		Description: course.Description,
		Objectives:  course.Objectives,
		Picture:     course.Picture,
		IsPremium:   true,
		Teaser:      true,
	}
}

// anonymousView is the minimal projection for unauthenticated viewers: title
// and description, nothing else.
func anonymousView(course models.Course) CourseView {
	return CourseView{
		Title:       course.Title,
		Description: course.Description,
		Teaser:      true,
	}
}

// HasApprovedEnrollment reports whether the student holds an APPROVED
// enrollment row for the course.
func HasApprovedEnrollment(db *gorm.DB, studentID, courseID uint) bool {
	var count int64
	db.Model(&models.StudentCourse{}).
		Where("student_id = ? AND course_id = ? AND is_approved = ?", studentID, courseID, true).
		Count(&count)
	return count > 0
}

// ListCourses returns the catalog as seen by the viewer (nil for anonymous).
// titleFilter and tagFilter narrow the result when non-empty.
func ListCourses(db *gorm.DB, viewer *models.User, titleFilter, tagFilter string) ([]CourseView, error) {
	query := db.Model(&models.Course{})
	if titleFilter != "" {
		query = query.Where("title LIKE ?", "%"+titleFilter+"%")
	}
	if tagFilter != "" {
		query = query.
			Joins("JOIN course_tags ON course_tags.course_id = courses.id").
			Joins("JOIN tags ON tags.id = course_tags.tag_id").
			Where("tags.name = ?", tagFilter)
	}

	var courses []models.Course
	if err := query.Order("courses.created_at desc").Find(&courses).Error; err != nil {
		return nil, err
	}

	views := make([]CourseView, 0, len(courses))
	for _, course := range courses {
		view, visible := projectCourse(db, course, viewer)
		if visible {
			views = append(views, view)
		}
	}
	return views, nil
}

// projectCourse applies the per-role visibility rules to a single course.
// The second return value is false when the course must not appear at all.
func projectCourse(db *gorm.DB, course models.Course, viewer *models.User) (CourseView, bool) {
	if viewer == nil {
		if course.IsHidden {
			return CourseView{}, false
		}
		return anonymousView(course), true
	}

	switch viewer.Role {
	case models.RoleAdmin:
		return fullView(course), true

	case models.RoleTeacher:
		if course.OwnerID == viewer.ID {
			return fullView(course), true
		}
		if course.IsHidden {
			return CourseView{}, false
		}
		return fullView(course), true

	case models.RoleStudent:
		if course.IsHidden {
			return CourseView{}, false
		}
		if course.IsPremium && !HasApprovedEnrollment(db, viewer.ID, course.ID) {
			return teaserView(course), true
		}
		return fullView(course), true
	}

	return CourseView{}, false
}

// GetCourseByID returns the full record when the viewer may see it. An absent
// course and a course hidden from this viewer are indistinguishable from the
// outside: both are a 404.
func GetCourseByID(db *gorm.DB, courseID uint, viewer *models.User) (*CourseView, error) {
	var course models.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}

	denied := NotFound("Course not found")

	if viewer == nil {
		if course.IsHidden || course.IsPremium {
			return nil, denied
		}
		view := fullView(course)
		return &view, nil
	}

	switch viewer.Role {
	case models.RoleAdmin:
		view := fullView(course)
		return &view, nil

	case models.RoleTeacher:
		if course.IsHidden && course.OwnerID != viewer.ID {
			return nil, denied
		}
		view := fullView(course)
		return &view, nil

	case models.RoleStudent:
		if course.IsHidden {
			return nil, denied
		}
		if course.IsPremium && !HasApprovedEnrollment(db, viewer.ID, course.ID) {
			return nil, denied
		}
		view := fullView(course)
		return &view, nil
	}

	return nil, denied
}

// CourseUpdate carries the optional fields of a partial course update. A nil
// field means "leave unchanged".
type CourseUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Objectives  *string `json:"objectives"`
	IsPremium   *bool   `json:"is_premium"`
}

// UpdateCourse applies a partial update. Only the owning teacher or an admin
// may mutate; a rename re-checks title uniqueness excluding the course itself.
func UpdateCourse(tx *gorm.DB, caller *models.User, courseID uint, payload CourseUpdate) (*models.Course, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}

	if caller.Role != models.RoleAdmin && course.OwnerID != caller.ID {
		return nil, Forbidden("You are not the owner of this course.")
	}

	if payload.Title != nil && *payload.Title != course.Title {
		var count int64
		tx.Model(&models.Course{}).
			Where("title = ? AND id <> ?", *payload.Title, course.ID).
			Count(&count)
		if count > 0 {
			return nil, BadRequest("Title already exists")
		}
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.Objectives != nil {
		course.Objectives = *payload.Objectives
	}
	if payload.IsPremium != nil {
		course.IsPremium = *payload.IsPremium
	}

	if err := tx.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course owned by an approved teacher.
func CreateCourse(tx *gorm.DB, owner *models.User, title, description, objectives string, isPremium bool) (*models.Course, error) {
	if owner.Role != models.RoleTeacher {
		return nil, Forbidden("Only teachers can create courses")
	}
	if !owner.IsApproved {
		return nil, Forbidden("Your teacher account is awaiting admin approval")
	}

	var count int64
	tx.Model(&models.Course{}).Where("title = ?", title).Count(&count)
	if count > 0 {
		return nil, BadRequest("Title already exists")
	}

	course := models.Course{
		Title:       title,
		Description: description,
		Objectives:  objectives,
		OwnerID:     owner.ID,
		IsPremium:   isPremium,
	}
	if err := tx.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}
