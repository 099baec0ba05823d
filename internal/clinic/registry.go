package clinic

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// RegisterPatientInput bundles the account, profile and medical record
// fields collected at patient signup.
type RegisterPatientInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string

	PhoneNumber      string
	Address          string
	DateOfBirth      time.Time
	EmergencyContact string
	Gender           models.Gender

	InsuranceProvider     string
	InsurancePolicyNumber string
	InsuranceExpiryDate   time.Time
	FamilyMedicalHistory  string
	PastIllnesses         string
	Surgeries             string
	Allergies             string
}

// RegisterPatient creates the account, patient profile and medical record in
// one transaction and sends the welcome mail.
func (s *Service) RegisterPatient(in RegisterPatientInput) (*models.Patient, error) {
	if err := s.ensureEmailFree(in.Email); err != nil {
		return nil, err
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      models.RolePatient,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	patient := models.Patient{
		PhoneNumber:      in.PhoneNumber,
		Address:          in.Address,
		DateOfBirth:      in.DateOfBirth,
		EmergencyContact: in.EmergencyContact,
		Gender:           in.Gender,
	}
	record := models.MedicalRecord{
		InsuranceProvider:     in.InsuranceProvider,
		InsurancePolicyNumber: in.InsurancePolicyNumber,
		InsuranceExpiryDate:   in.InsuranceExpiryDate,
		FamilyMedicalHistory:  in.FamilyMedicalHistory,
		PastIllnesses:         in.PastIllnesses,
		Surgeries:             in.Surgeries,
		Allergies:             in.Allergies,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		patient.UserID = user.ID
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}
		record.PatientID = patient.ID
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	patient.User = user
	patient.MedicalRecord = &record
	s.notify.Enqueue(s.compose.Welcome(user.FullName(), user.Email))
	s.log.Info().Str("patient_id", patient.ID).Msg("patient registered")
	return &patient, nil
}

// RegisterDoctorInput bundles the account and profile fields staff submit
// when recruiting a doctor.
type RegisterDoctorInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string

	PhoneNumber     string
	Address         string
	DateRecruitment time.Time
	Speciality      models.Speciality
}

// RegisterDoctor creates the account and doctor profile in one transaction
// and sends the welcome mail. Staff only; the route guards the role.
func (s *Service) RegisterDoctor(in RegisterDoctorInput) (*models.Doctor, error) {
	if !in.Speciality.Valid() {
		return nil, ErrInvalidSpeciality
	}
	if err := s.ensureEmailFree(in.Email); err != nil {
		return nil, err
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      models.RoleDoctor,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	doctor := models.Doctor{
		PhoneNumber:     in.PhoneNumber,
		Address:         in.Address,
		DateRecruitment: in.DateRecruitment,
		Speciality:      in.Speciality,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		return tx.Create(&doctor).Error
	})
	if err != nil {
		return nil, err
	}

	doctor.User = user
	s.notify.Enqueue(s.compose.Welcome(user.FullName(), user.Email))
	s.log.Info().Str("doctor_id", doctor.ID).Msg("doctor registered")
	return &doctor, nil
}

// DeletePatient removes a patient and everything hanging off it, in a fixed
// order: diagnoses of the patient's appointments are detached (kept as
// orphaned records), then appointments, medical record, refresh tokens,
// patient and account are deleted. The account-deleted mail goes out after
// the commit.
func (s *Service) DeletePatient(patientID string) error {
	var patient models.Patient
	if err := s.db.Preload("User").First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatientNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := detachDiagnoses(tx, "patient_id = ?", patient.ID); err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", patient.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", patient.ID).Delete(&models.MedicalRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", patient.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Patient{}, "id = ?", patient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", patient.UserID).Error
	})
	if err != nil {
		return err
	}

	s.notify.Enqueue(s.compose.AccountDeleted(patient.User.Email, patient.User.FullName()))
	s.log.Info().Str("patient_id", patient.ID).Msg("patient deleted")
	return nil
}

// DeleteDoctor removes a doctor the same way: detach diagnoses, delete
// appointments, tasks, refresh tokens, doctor and account.
func (s *Service) DeleteDoctor(doctorID string) error {
	var doctor models.Doctor
	if err := s.db.Preload("User").First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := detachDiagnoses(tx, "doctor_id = ?", doctor.ID); err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", doctor.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Doctor{}, "id = ?", doctor.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", doctor.UserID).Error
	})
	if err != nil {
		return err
	}

	s.notify.Enqueue(s.compose.AccountDeleted(doctor.User.Email, doctor.User.FullName()))
	s.log.Info().Str("doctor_id", doctor.ID).Msg("doctor deleted")
	return nil
}

// detachDiagnoses nulls the appointment reference on diagnoses attached to
// the appointments matched by the condition.
func detachDiagnoses(tx *gorm.DB, query string, arg interface{}) error {
	var ids []string
	if err := tx.Model(&models.Appointment{}).Where(query, arg).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.Diagnosis{}).
		Where("appointment_id IN ?", ids).
		Update("appointment_id", nil).Error
}

func (s *Service) ensureEmailFree(email string) error {
	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
