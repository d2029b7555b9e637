package services

import (
	"fmt"
	"strings"
	"testing"

	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Each test gets its own named in-memory database; cache=shared keeps it
	// alive across the pooled connections gorm opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, approved bool) *models.User {
	t.Helper()
	user := models.User{
		Email:      email,
		Password:   "hashed",
		Role:       role,
		IsActive:   true,
		IsApproved: approved,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, owner *models.User, title string, premium, hidden bool) *models.Course {
	t.Helper()
	course := models.Course{
		Title:       title,
		Description: "about " + title,
		OwnerID:     owner.ID,
		IsPremium:   premium,
		IsHidden:    hidden,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func seedSection(t *testing.T, db *gorm.DB, course *models.Course, title string) *models.Section {
	t.Helper()
	section := models.Section{CourseID: course.ID, Title: title, Content: "content of " + title}
	require.NoError(t, db.Create(&section).Error)
	return &section
}

func TestSubscribeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Go Basics", true, false)

	enrollment, got, err := Subscribe(db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
	assert.False(t, enrollment.IsApproved)

	// A second request while the first is pending is rejected.
	_, _, err = Subscribe(db, student, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "Approval for this course is already pending", MessageOf(err))

	_, err = ApproveStudent(db, student.ID, course.ID)
	require.NoError(t, err)

	_, _, err = Subscribe(db, student, course.ID)
	require.Error(t, err)
	assert.Equal(t, "Already subscribed to this course", MessageOf(err))

	require.NoError(t, Unsubscribe(db, student.ID, course.ID))

	var count int64
	db.Model(&models.StudentCourse{}).Where("student_id = ?", student.ID).Count(&count)
	assert.Zero(t, count)

	err = Unsubscribe(db, student.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestSubscribePublicCourse(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Free Course", false, false)

	_, _, err := Subscribe(db, student, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "No need to subscribe to a public course", MessageOf(err))
}

func TestSubscribeHiddenCourse(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Hidden Course", true, true)

	// Hidden courses are indistinguishable from missing ones.
	_, _, err := Subscribe(db, student, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
	assert.Equal(t, "Course not found", MessageOf(err))
}

func TestApproveStudentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Go Basics", true, false)

	_, _, err := Subscribe(db, student, course.ID)
	require.NoError(t, err)

	// Approval links may be clicked more than once.
	for i := 0; i < 2; i++ {
		_, err = ApproveStudent(db, student.ID, course.ID)
		require.NoError(t, err)
	}

	var rows []models.StudentCourse
	db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).Find(&rows)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsApproved)
}

func TestApproveStudentWithoutPendingRow(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Go Basics", true, false)

	_, err := ApproveStudent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, HasApprovedEnrollment(db, student.ID, course.ID))
}

func TestApproveStudentRejectsNonStudents(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	course := seedCourse(t, db, teacher, "Go Basics", true, false)

	_, err := ApproveStudent(db, teacher.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestApproveStudentByOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, owner, "Go Basics", true, false)

	_, _, err := Subscribe(db, student, course.ID)
	require.NoError(t, err)

	_, err = ApproveStudentByOwner(db, other, student.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))
	assert.False(t, HasApprovedEnrollment(db, student.ID, course.ID))

	_, err = ApproveStudentByOwner(db, owner, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, HasApprovedEnrollment(db, student.ID, course.ID))
}

func TestRemoveStudent(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, owner, "Go Basics", true, false)

	_, err := ApproveStudent(db, student.ID, course.ID)
	require.NoError(t, err)

	err = RemoveStudent(db, other, course.ID, student.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	require.NoError(t, RemoveStudent(db, admin, course.ID, student.ID))
	assert.False(t, HasApprovedEnrollment(db, student.ID, course.ID))
}

func TestToggleVisibilityGuards(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, owner, "Go Basics", true, false)

	_, err := ToggleVisibility(db, other, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	_, err = ApproveStudent(db, student.ID, course.ID)
	require.NoError(t, err)

	// Hiding is blocked while the course still has enrolled students.
	_, err = ToggleVisibility(db, owner, course.ID)
	require.Error(t, err)
	assert.Equal(t, "You cannot hide a course that has enrolled students.", MessageOf(err))

	require.NoError(t, RemoveStudent(db, owner, course.ID, student.ID))

	updated, err := ToggleVisibility(db, owner, course.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsHidden)

	// Unhiding is always allowed.
	updated, err = ToggleVisibility(db, owner, course.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsHidden)
}

func TestMarkSectionCompletedProgress(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Free Course", false, false)

	sections := make([]*models.Section, 0, 4)
	for i := 1; i <= 4; i++ {
		sections = append(sections, seedSection(t, db, course, fmt.Sprintf("Part %d", i)))
	}

	// First visit of a public course auto-enrolls.
	enrollment, err := MarkSectionCompleted(db, student, sections[0].ID)
	require.NoError(t, err)
	assert.True(t, enrollment.IsApproved)
	assert.InDelta(t, 25.0, enrollment.Progress, 0.001)

	// Revisits never move progress.
	enrollment, err = MarkSectionCompleted(db, student, sections[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, enrollment.Progress, 0.001)

	for _, section := range sections[1:] {
		enrollment, err = MarkSectionCompleted(db, student, section.ID)
		require.NoError(t, err)
	}
	assert.InDelta(t, 100.0, enrollment.Progress, 0.001)
}

func TestMarkSectionCompletedReachesExactlyHundred(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Long Course", false, false)

	// 100/12 is not exactly representable, so summing the per-section share
	// would drift; the visited/total recompute must still land on 100.
	const total = 12
	sections := make([]*models.Section, 0, total)
	for i := 1; i <= total; i++ {
		sections = append(sections, seedSection(t, db, course, fmt.Sprintf("Part %d", i)))
	}

	var enrollment *models.StudentCourse
	for i, section := range sections {
		var err error
		enrollment, err = MarkSectionCompleted(db, student, section.ID)
		require.NoError(t, err)
		if i < total-1 {
			assert.InDelta(t, float64(i+1)*100/total, enrollment.Progress, 1e-9)
		}
	}
	assert.Equal(t, 100.0, enrollment.Progress)

	var stored models.StudentCourse
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	assert.Equal(t, 100.0, stored.Progress)
}

func TestMarkSectionCompletedPremiumRequiresApproval(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Premium Course", true, false)
	section := seedSection(t, db, course, "Part 1")

	_, err := MarkSectionCompleted(db, student, section.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	// A pending request does not grant access either.
	_, _, err = Subscribe(db, student, course.ID)
	require.NoError(t, err)
	_, err = MarkSectionCompleted(db, student, section.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	_, err = ApproveStudent(db, student.ID, course.ID)
	require.NoError(t, err)

	enrollment, err := MarkSectionCompleted(db, student, section.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, enrollment.Progress, 0.001)
}

func TestMarkSectionCompletedHiddenCourse(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Hidden Course", false, true)
	section := seedSection(t, db, course, "Part 1")

	_, err := MarkSectionCompleted(db, student, section.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestRateCourse(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent, false)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Premium Course", true, false)
	section := seedSection(t, db, course, "Part 1")

	_, err := RateCourse(db, alice, course.ID, 8)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	_, err = ApproveStudent(db, alice.ID, course.ID)
	require.NoError(t, err)

	// Rating requires having actually viewed something.
	_, err = RateCourse(db, alice, course.ID, 8)
	require.Error(t, err)
	assert.Equal(t, "You must view the course before rating it", MessageOf(err))

	_, err = MarkSectionCompleted(db, alice, section.ID)
	require.NoError(t, err)

	_, err = RateCourse(db, alice, course.ID, 11)
	require.Error(t, err)
	assert.Equal(t, "Score must be between 0 and 10", MessageOf(err))

	rated, err := RateCourse(db, alice, course.ID, 8)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, rated.Rating, 0.001)

	_, err = ApproveStudent(db, bob.ID, course.ID)
	require.NoError(t, err)
	_, err = MarkSectionCompleted(db, bob, section.ID)
	require.NoError(t, err)

	rated, err = RateCourse(db, bob, course.ID, 6)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, rated.Rating, 0.001)

	// Re-rating replaces the old score instead of adding a second one.
	rated, err = RateCourse(db, alice, course.ID, 10)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, rated.Rating, 0.001)
}

func TestRecomputeCourseRatingEmpty(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	course := seedCourse(t, db, teacher, "Unrated Course", false, false)

	rating, err := RecomputeCourseRating(db, course.ID)
	require.NoError(t, err)
	assert.Zero(t, rating)
}

func TestToggleFavorite(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, teacher, "Premium Course", true, false)

	// Favoriting before enrolling records intent as a pending row.
	enrollment, err := ToggleFavorite(db, student, course.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.IsFavorite)
	assert.False(t, enrollment.IsApproved)

	enrollment, err = ToggleFavorite(db, student, course.ID)
	require.NoError(t, err)
	assert.False(t, enrollment.IsFavorite)

	var count int64
	db.Model(&models.StudentCourse{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPendingStudents(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent, false)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent, false)
	course := seedCourse(t, db, owner, "Premium Course", true, false)

	_, _, err := Subscribe(db, alice, course.ID)
	require.NoError(t, err)
	_, _, err = Subscribe(db, bob, course.ID)
	require.NoError(t, err)
	_, err = ApproveStudent(db, bob.ID, course.ID)
	require.NoError(t, err)

	_, err = PendingStudents(db, other, course.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	pending, err := PendingStudents(db, owner, course.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].StudentID)
}
