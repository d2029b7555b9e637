package services

import (
	"testing"

	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titlesOf(views []CourseView) []string {
	titles := make([]string, 0, len(views))
	for _, view := range views {
		titles = append(titles, view.Title)
	}
	return titles
}

func TestListCoursesAnonymous(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	seedCourse(t, db, teacher, "Public Course", false, false)
	seedCourse(t, db, teacher, "Premium Course", true, false)
	seedCourse(t, db, teacher, "Hidden Course", false, true)

	views, err := ListCourses(db, nil, "", "")
	require.NoError(t, err)

	titles := titlesOf(views)
	assert.ElementsMatch(t, []string{"Public Course", "Premium Course"}, titles)

	// Anonymous projections carry title and description only: no id, no
	// premium flag, nothing to enumerate or price-discriminate with.
	for _, view := range views {
		assert.Zero(t, view.ID)
		assert.True(t, view.Teaser)
		assert.False(t, view.IsPremium)
		assert.Empty(t, view.Objectives)
		assert.Zero(t, view.OwnerID)
	}
}

func TestListCoursesStudent(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	public := seedCourse(t, db, teacher, "Public Course", false, false)
	premium := seedCourse(t, db, teacher, "Premium Course", true, false)
	enrolled := seedCourse(t, db, teacher, "Enrolled Course", true, false)
	seedCourse(t, db, teacher, "Hidden Course", false, true)

	_, err := ApproveStudent(db, student.ID, enrolled.ID)
	require.NoError(t, err)

	views, err := ListCourses(db, student, "", "")
	require.NoError(t, err)
	require.Len(t, views, 3)

	byTitle := map[string]CourseView{}
	for _, view := range views {
		byTitle[view.Title] = view
	}

	assert.Equal(t, public.ID, byTitle["Public Course"].ID)
	assert.Equal(t, enrolled.ID, byTitle["Enrolled Course"].ID)

	// Premium without approval comes back as a teaser without an id, so
	// students cannot enumerate premium course identifiers.
	teaser := byTitle["Premium Course"]
	assert.True(t, teaser.Teaser)
	assert.Zero(t, teaser.ID)
	_ = premium
}

func TestListCoursesTeacher(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	seedCourse(t, db, owner, "Own Hidden", false, true)
	seedCourse(t, db, other, "Their Hidden", false, true)
	seedCourse(t, db, other, "Their Visible", true, false)

	views, err := ListCourses(db, owner, "", "")
	require.NoError(t, err)

	titles := titlesOf(views)
	assert.ElementsMatch(t, []string{"Own Hidden", "Their Visible"}, titles)

	for _, view := range views {
		assert.NotZero(t, view.ID)
	}
}

func TestListCoursesAdmin(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	seedCourse(t, db, teacher, "Public Course", false, false)
	seedCourse(t, db, teacher, "Hidden Course", true, true)

	views, err := ListCourses(db, admin, "", "")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestListCoursesFilters(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	goCourse := seedCourse(t, db, teacher, "Go Basics", false, false)
	seedCourse(t, db, teacher, "Rust Basics", false, false)

	tag := models.Tag{Name: "programming"}
	require.NoError(t, db.Create(&tag).Error)
	require.NoError(t, db.Create(&models.CourseTag{CourseID: goCourse.ID, TagID: tag.ID}).Error)

	views, err := ListCourses(db, admin, "Go", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Basics"}, titlesOf(views))

	views, err = ListCourses(db, admin, "", "programming")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Basics"}, titlesOf(views))

	views, err = ListCourses(db, admin, "", "missing-tag")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetCourseByID(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	hidden := seedCourse(t, db, owner, "Hidden Course", false, true)
	premium := seedCourse(t, db, owner, "Premium Course", true, false)

	// Absent and denied are the same 404 from the outside.
	_, err := GetCourseByID(db, 9999, admin)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
	assert.Equal(t, "Course not found", MessageOf(err))

	_, err = GetCourseByID(db, hidden.ID, student)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
	assert.Equal(t, "Course not found", MessageOf(err))

	_, err = GetCourseByID(db, premium.ID, student)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))

	_, err = GetCourseByID(db, premium.ID, nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))

	_, err = GetCourseByID(db, hidden.ID, other)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))

	view, err := GetCourseByID(db, hidden.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, view.ID)

	view, err = GetCourseByID(db, hidden.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, view.ID)

	_, err = ApproveStudent(db, student.ID, premium.ID)
	require.NoError(t, err)

	view, err = GetCourseByID(db, premium.ID, student)
	require.NoError(t, err)
	assert.Equal(t, premium.ID, view.ID)
}

func TestCreateCourseRules(t *testing.T) {
	db := setupTestDB(t)
	approved := seedUser(t, db, "approved@example.com", models.RoleTeacher, true)
	pending := seedUser(t, db, "pending@example.com", models.RoleTeacher, false)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, false)

	_, err := CreateCourse(db, student, "Go Basics", "desc", "obj", false)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	_, err = CreateCourse(db, pending, "Go Basics", "desc", "obj", false)
	require.Error(t, err)
	assert.Equal(t, "Your teacher account is awaiting admin approval", MessageOf(err))

	course, err := CreateCourse(db, approved, "Go Basics", "desc", "obj", true)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, course.OwnerID)
	assert.True(t, course.IsPremium)

	_, err = CreateCourse(db, approved, "Go Basics", "other", "other", false)
	require.Error(t, err)
	assert.Equal(t, "Title already exists", MessageOf(err))
}

func TestUpdateCourseRules(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher, true)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher, true)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	course := seedCourse(t, db, owner, "Go Basics", false, false)
	seedCourse(t, db, owner, "Rust Basics", false, false)

	newTitle := "Go Advanced"
	_, err := UpdateCourse(db, other, course.ID, CourseUpdate{Title: &newTitle})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, StatusOf(err))

	takenTitle := "Rust Basics"
	_, err = UpdateCourse(db, owner, course.ID, CourseUpdate{Title: &takenTitle})
	require.Error(t, err)
	assert.Equal(t, "Title already exists", MessageOf(err))

	// Saving the unchanged title back is not a rename.
	sameTitle := "Go Basics"
	_, err = UpdateCourse(db, owner, course.ID, CourseUpdate{Title: &sameTitle})
	require.NoError(t, err)

	newDesc := "rewritten"
	premium := true
	updated, err := UpdateCourse(db, admin, course.ID, CourseUpdate{
		Title:       &newTitle,
		Description: &newDesc,
		IsPremium:   &premium,
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Advanced", updated.Title)
	assert.Equal(t, "rewritten", updated.Description)
	assert.True(t, updated.IsPremium)
}
