package services

import (
	"fmt"
	"testing"

	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The persisted rating is a full recompute on every write. This pins it to
// the incremental running average, so the write path can switch to the
// cheaper formula later without changing observable behavior.
func TestRatingRecomputeMatchesRunningAverage(t *testing.T) {
	db := setupTestDB(t)
	teacher := seedUser(t, db, "teacher@example.com", models.RoleTeacher, true)
	course := seedCourse(t, db, teacher, "Rated Course", false, false)
	section := seedSection(t, db, course, "Part 1")

	scores := []float64{9, 4, 7.5, 10, 0, 6}

	var mean float64
	for i, score := range scores {
		student := seedUser(t, db, fmt.Sprintf("student%d@example.com", i), models.RoleStudent, false)
		_, err := MarkSectionCompleted(db, student, section.ID)
		require.NoError(t, err)

		rated, err := RateCourse(db, student, course.ID, score)
		require.NoError(t, err)

		mean += (score - mean) / float64(i+1)
		assert.InDelta(t, mean, rated.Rating, 1e-9)

		var stored models.Course
		require.NoError(t, db.First(&stored, course.ID).Error)
		assert.InDelta(t, mean, stored.Rating, 1e-9)
	}
}
