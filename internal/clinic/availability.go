package clinic

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-app-server/internal/models"
)

// IsAvailable decides whether a new or rescheduled appointment may be placed
// at the candidate date-time: false when any scheduled appointment already
// occupies the slot for the doctor or for the patient. Pure query.
func IsAvailable(db *gorm.DB, patientID, doctorID string, at time.Time) (bool, error) {
	var ids []string
	err := db.Model(&models.Appointment{}).
		Where("state = ? AND full_time = ?", models.StateScheduled, at).
		Where("doctor_id = ? OR patient_id = ?", doctorID, patientID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) == 0, nil
}

// lockConflicts makes the availability check safe against concurrent bookings
// by locking the conflicting rows (and, on InnoDB, the index gap) inside the
// caller's transaction. SQLite serializes writers on its own and rejects the
// FOR UPDATE syntax, so the clause is only applied on MySQL.
func lockConflicts(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
