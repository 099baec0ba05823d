package clinic

import (
	"errors"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// Principal is the authenticated actor performing an operation, resolved once
// per request and passed into every lifecycle call. PatientID and DoctorID are
// set only for the matching role; staff carry neither.
type Principal struct {
	UserID    string
	Role      models.Role
	PatientID string
	DoctorID  string
}

// IsStaff reports whether the principal may act on any appointment.
func (p Principal) IsStaff() bool {
	return p.Role == models.RoleStaff
}

// ParticipatesIn reports whether the principal is one of the appointment's
// two participants.
func (p Principal) ParticipatesIn(a *models.Appointment) bool {
	if p.PatientID != "" && p.PatientID == a.PatientID {
		return true
	}
	if p.DoctorID != "" && p.DoctorID == a.DoctorID {
		return true
	}
	return false
}

// ResolvePrincipal builds the principal for an authenticated user id, loading
// the patient or doctor profile row the role implies.
func ResolvePrincipal(db *gorm.DB, userID string, role models.Role) (Principal, error) {
	p := Principal{UserID: userID, Role: role}
	switch role {
	case models.RolePatient:
		var patient models.Patient
		if err := db.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Principal{}, ErrPatientNotFound
			}
			return Principal{}, err
		}
		p.PatientID = patient.ID
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Principal{}, ErrDoctorNotFound
			}
			return Principal{}, err
		}
		p.DoctorID = doctor.ID
	}
	return p, nil
}
