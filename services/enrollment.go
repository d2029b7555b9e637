package services

import (
	"learnhub/models"

	"gorm.io/gorm"
)

// The enrollment lifecycle per (student, course) pair:
//
//	NONE -> PENDING  (Subscribe)
//	PENDING -> APPROVED (owner action or approval token)
//	any state -> NONE (Unsubscribe / RemoveStudent)
//
// Every transition runs inside the caller's transaction and fails fast with a
// typed rejection; there is no compensation logic. The composite unique index
// on student_courses backs up the duplicate checks under concurrency.

// Subscribe creates a PENDING enrollment request for a premium course. The
// returned course lets the caller notify the owner; the notification is
// best-effort and never rolls the row back.
func Subscribe(tx *gorm.DB, student *models.User, courseID uint) (*models.StudentCourse, *models.Course, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, nil, NotFound("Course not found")
	}
	if course.IsHidden {
		return nil, nil, NotFound("Course not found")
	}
	if !course.IsPremium {
		return nil, nil, BadRequest("No need to subscribe to a public course")
	}

	var existing models.StudentCourse
	err := tx.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&existing).Error
	if err == nil {
		if existing.IsApproved {
			return nil, nil, BadRequest("Already subscribed to this course")
		}
		return nil, nil, BadRequest("Approval for this course is already pending")
	}

	enrollment := models.StudentCourse{
		StudentID: student.ID,
		CourseID:  course.ID,
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		return nil, nil, err
	}
	return &enrollment, &course, nil
}

// ApproveStudent flips a PENDING row to APPROVED, or creates the row directly
// as APPROVED when none exists. Calling it on an already approved enrollment
// is a no-op, so approval links can be clicked twice without harm.
func ApproveStudent(tx *gorm.DB, studentID, courseID uint) (*models.Course, error) {
	var student models.User
	if err := tx.Where("id = ? AND role = ?", studentID, models.RoleStudent).First(&student).Error; err != nil {
		return nil, NotFound("Student not found")
	}

	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}

	var enrollment models.StudentCourse
	err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
	if err != nil {
		enrollment = models.StudentCourse{
			StudentID:  studentID,
			CourseID:   courseID,
			IsApproved: true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return nil, err
		}
		return &course, nil
	}

	if !enrollment.IsApproved {
		enrollment.IsApproved = true
		if err := tx.Save(&enrollment).Error; err != nil {
			return nil, err
		}
	}
	return &course, nil
}

// ApproveStudentByOwner is the authenticated approval path: the caller must
// own the course.
func ApproveStudentByOwner(tx *gorm.DB, teacher *models.User, studentID, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}
	if course.OwnerID != teacher.ID {
		return nil, Forbidden("You are not the owner of this course.")
	}
	return ApproveStudent(tx, studentID, courseID)
}

// Unsubscribe deletes the enrollment row in whatever state it is in. No
// history is kept.
func Unsubscribe(tx *gorm.DB, studentID, courseID uint) error {
	var enrollment models.StudentCourse
	if err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error; err != nil {
		return NotFound("You are not subscribed to this course")
	}
	return tx.Unscoped().Delete(&enrollment).Error
}

// RemoveStudent lets the owning teacher or an admin drop a student from a
// course.
func RemoveStudent(tx *gorm.DB, caller *models.User, courseID, studentID uint) error {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return NotFound("Course not found")
	}
	if caller.Role != models.RoleAdmin && course.OwnerID != caller.ID {
		return Forbidden("You are not the owner of this course.")
	}

	var enrollment models.StudentCourse
	if err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error; err != nil {
		return NotFound("Student is not enrolled in this course")
	}
	return tx.Unscoped().Delete(&enrollment).Error
}

// PendingStudents lists the pending enrollment requests of a course for its
// owner.
func PendingStudents(tx *gorm.DB, teacher *models.User, courseID uint) ([]models.StudentCourse, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}
	if course.OwnerID != teacher.ID {
		return nil, Forbidden("You are not the owner of this course.")
	}

	var pending []models.StudentCourse
	if err := tx.Where("course_id = ? AND is_approved = ?", courseID, false).Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// ToggleVisibility hides or unhides a course. Only the owner may toggle;
// unhiding is always allowed, hiding is rejected while the course still has
// approved students.
func ToggleVisibility(tx *gorm.DB, caller *models.User, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}
	if course.OwnerID != caller.ID {
		return nil, Forbidden("You are not the owner of this course.")
	}

	if course.IsHidden {
		course.IsHidden = false
	} else {
		var enrolled int64
		tx.Model(&models.StudentCourse{}).
			Where("course_id = ? AND is_approved = ?", courseID, true).
			Count(&enrolled)
		if enrolled > 0 {
			return nil, BadRequest("You cannot hide a course that has enrolled students.")
		}
		course.IsHidden = true
	}

	if err := tx.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// MarkSectionCompleted records a student's first visit of a section. Progress
// is always recomputed as visited/total of the course's sections, so visiting
// all N sections lands on exactly 100 regardless of N, and a stale stored
// value heals on the next visit. Public courses auto-enroll on first visit so
// free content can be tracked without a subscribe step; premium courses
// require an APPROVED enrollment. Revisits are no-ops.
func MarkSectionCompleted(tx *gorm.DB, student *models.User, sectionID uint) (*models.StudentCourse, error) {
	var section models.Section
	if err := tx.First(&section, sectionID).Error; err != nil {
		return nil, NotFound("Section not found")
	}

	var course models.Course
	if err := tx.First(&course, section.CourseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}
	if course.IsHidden {
		return nil, NotFound("Section not found")
	}

	var enrollment models.StudentCourse
	err := tx.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error
	if err != nil {
		if course.IsPremium {
			return nil, Forbidden("You are not subscribed to this course")
		}
		enrollment = models.StudentCourse{
			StudentID:  student.ID,
			CourseID:   course.ID,
			IsApproved: true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return nil, err
		}
	} else if course.IsPremium && !enrollment.IsApproved {
		return nil, Forbidden("You are not subscribed to this course")
	}

	var visited int64
	tx.Model(&models.SectionVisit{}).
		Where("student_id = ? AND section_id = ?", student.ID, sectionID).
		Count(&visited)
	if visited > 0 {
		// Already counted towards progress.
		return &enrollment, nil
	}

	visit := models.SectionVisit{StudentID: student.ID, SectionID: sectionID}
	if err := tx.Create(&visit).Error; err != nil {
		return nil, err
	}

	var total int64
	tx.Model(&models.Section{}).Where("course_id = ?", course.ID).Count(&total)
	if total > 0 {
		var visitedTotal int64
		tx.Model(&models.SectionVisit{}).
			Joins("JOIN sections ON sections.id = section_visits.section_id").
			Where("section_visits.student_id = ? AND sections.course_id = ?", student.ID, course.ID).
			Count(&visitedTotal)
		if visitedTotal >= total {
			enrollment.Progress = 100
		} else {
			enrollment.Progress = float64(visitedTotal) * 100 / float64(total)
		}
	}
	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// RateCourse stores the student's score on the enrollment row and eagerly
// recomputes the course mean. Rating requires an approved enrollment with
// some progress.
func RateCourse(tx *gorm.DB, student *models.User, courseID uint, score float64) (*models.Course, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}

	if score < 0 || score > 10 {
		return nil, BadRequest("Score must be between 0 and 10")
	}

	var enrollment models.StudentCourse
	err := tx.Where("student_id = ? AND course_id = ? AND is_approved = ?", student.ID, courseID, true).
		First(&enrollment).Error
	if err != nil {
		return nil, Forbidden("You are not subscribed to this course")
	}
	if enrollment.Progress <= 0 {
		return nil, BadRequest("You must view the course before rating it")
	}

	enrollment.Score = &score
	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	rating, err := RecomputeCourseRating(tx, courseID)
	if err != nil {
		return nil, err
	}
	course.Rating = rating
	return &course, nil
}

// RecomputeCourseRating recalculates the mean of all non-null scores for the
// course and persists it. A full scan per write is fine at this scale; the
// nightly scheduler re-runs it as a reconciliation pass.
func RecomputeCourseRating(tx *gorm.DB, courseID uint) (float64, error) {
	var scores []float64
	if err := tx.Model(&models.StudentCourse{}).
		Where("course_id = ? AND score IS NOT NULL", courseID).
		Pluck("score", &scores).Error; err != nil {
		return 0, err
	}

	var rating float64
	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		rating = sum / float64(len(scores))
	}

	if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
		Update("rating", rating).Error; err != nil {
		return 0, err
	}
	return rating, nil
}

// ToggleFavorite flips the favorite flag. Favoriting a course without an
// enrollment row records intent as a PENDING favorite; it never grants
// access.
func ToggleFavorite(tx *gorm.DB, student *models.User, courseID uint) (*models.StudentCourse, error) {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, NotFound("Course not found")
	}
	if course.IsHidden {
		return nil, NotFound("Course not found")
	}

	var enrollment models.StudentCourse
	err := tx.Where("student_id = ? AND course_id = ?", student.ID, courseID).First(&enrollment).Error
	if err != nil {
		enrollment = models.StudentCourse{
			StudentID:  student.ID,
			CourseID:   courseID,
			IsFavorite: true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return nil, err
		}
		return &enrollment, nil
	}

	enrollment.IsFavorite = !enrollment.IsFavorite
	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}
