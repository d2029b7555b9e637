package utils

import (
	"log"

	"learnhub/database"
	"learnhub/models"
	"learnhub/services"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// Pending requests whose approval token expired long ago are dead weight;
// 30 days leaves plenty of room for the owner to approve from the dashboard.
const stalePendingDays = 30

// InitializeEnrollmentScheduler starts the nightly maintenance job.
func InitializeEnrollmentScheduler() {
	log.Println("[ENROLLMENT-SCHEDULER] Initializing enrollment scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running daily maintenance...")
		PurgeStalePendingRequests()
		ReconcileCourseRatings()
	})

	c.Start()
	log.Println("[ENROLLMENT-SCHEDULER] Enrollment scheduler started - runs daily at 3 AM")
}

// PurgeStalePendingRequests deletes pending enrollment rows older than the
// retention window.
func PurgeStalePendingRequests() {
	db := database.Database.Db
	cutoff := now.BeginningOfDay().AddDate(0, 0, -stalePendingDays)

	result := db.Unscoped().
		Where("is_approved = ? AND created_at < ?", false, cutoff).
		Delete(&models.StudentCourse{})
	if result.Error != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error purging stale pending requests: %v", result.Error)
		return
	}
	log.Printf("[ENROLLMENT-SCHEDULER] Purged %d stale pending requests", result.RowsAffected)
}

// ReconcileCourseRatings recomputes every course's rating aggregate from its
// enrollment scores. Ratings are recomputed eagerly on every write already;
// this pass exists to repair any drift.
func ReconcileCourseRatings() {
	db := database.Database.Db

	var courses []models.Course
	if err := db.Find(&courses).Error; err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error fetching courses: %v", err)
		return
	}

	for _, course := range courses {
		if _, err := services.RecomputeCourseRating(db, course.ID); err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error reconciling rating for course %d: %v", course.ID, err)
		}
	}
	log.Printf("[ENROLLMENT-SCHEDULER] Reconciled ratings for %d courses", len(courses))
}
