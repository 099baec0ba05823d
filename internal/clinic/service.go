package clinic

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
)

// Service owns the appointment lifecycle: booking, cancellation,
// rescheduling and completion via diagnosis. Every mutation runs in a single
// transaction and emits its notifications only after the commit.
type Service struct {
	db      *gorm.DB
	notify  notify.Enqueuer
	compose notify.Composer
	log     zerolog.Logger
	now     func() time.Time
}

// NewService wires the lifecycle manager.
func NewService(db *gorm.DB, enq notify.Enqueuer, compose notify.Composer, log zerolog.Logger) *Service {
	return &Service{
		db:      db,
		notify:  enq,
		compose: compose,
		log:     log,
		now:     time.Now,
	}
}

// Book creates a scheduled appointment for the principal's patient with the
// chosen doctor, date and time slot. The availability check and the insert
// run in one transaction with the conflicting rows locked, so two concurrent
// bookings cannot both claim the slot.
func (s *Service) Book(p Principal, doctorID string, date time.Time, slot models.TimeSlot) (*models.Appointment, error) {
	if p.PatientID == "" {
		return nil, ErrNotFoundOrUnauthorized
	}

	at, err := validateChoice(s.now(), date, slot)
	if err != nil {
		return nil, err
	}

	var doctor models.Doctor
	if err := s.db.Preload("User").First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	var patient models.Patient
	if err := s.db.Preload("User").First(&patient, "id = ?", p.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		TimeSlot:  slot,
		FullTime:  at,
		State:     models.StateScheduled,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		free, err := IsAvailable(lockConflicts(tx), patient.ID, doctor.ID, at)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotUnavailable
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	formatted := appointment.FormattedTime()
	s.notify.Enqueue(s.compose.AppointmentScheduled(
		patient.User.Email, "Dr. "+doctor.FullNameWithSpeciality(), formatted))
	s.notify.Enqueue(s.compose.AppointmentScheduled(
		doctor.User.Email, patient.User.FullName(), formatted))

	s.log.Info().
		Str("appointment_id", appointment.ID).
		Str("patient_id", patient.ID).
		Str("doctor_id", doctor.ID).
		Time("full_time", at).
		Msg("appointment scheduled")

	return &appointment, nil
}

// Cancel transitions a scheduled appointment to canceled. Patients and
// doctors may only cancel appointments they participate in; staff may cancel
// any. Completed and already-canceled appointments are rejected.
func (s *Service) Cancel(p Principal, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.loadForPrincipal(p, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.State.Terminal() {
		return nil, ErrAlreadyFinalized
	}

	if err := s.db.Model(appointment).Update("state", models.StateCanceled).Error; err != nil {
		return nil, err
	}
	appointment.State = models.StateCanceled

	formatted := appointment.FormattedTime()
	patientUser := appointment.Patient.User
	doctor := appointment.Doctor
	if p.IsStaff() {
		// Staff cancellations inform both parties with one shared message.
		s.notify.Enqueue(s.compose.AppointmentCanceledByStaff(formatted, patientUser.Email, doctor.User.Email))
	} else {
		s.notify.Enqueue(s.compose.AppointmentCanceled(
			patientUser.Email, patientUser.FullName(), "Dr. "+doctor.FullNameWithSpeciality(), formatted))
		s.notify.Enqueue(s.compose.AppointmentCanceled(
			doctor.User.Email, doctor.User.FullName(), patientUser.FullName(), formatted))
	}

	s.log.Info().
		Str("appointment_id", appointment.ID).
		Str("by_user", p.UserID).
		Msg("appointment canceled")

	return appointment, nil
}

// Reschedule moves a scheduled appointment to a new date and slot. The
// availability check always runs against the appointment's own patient and
// doctor, whichever participant initiates. On conflict nothing mutates.
func (s *Service) Reschedule(p Principal, appointmentID string, date time.Time, slot models.TimeSlot) (*models.Appointment, error) {
	if p.PatientID == "" && p.DoctorID == "" {
		return nil, ErrNotFoundOrUnauthorized
	}

	appointment, err := s.loadForPrincipal(p, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.State != models.StateScheduled {
		return nil, ErrAlreadyFinalized
	}

	at, err := validateChoice(s.now(), date, slot)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		free, err := IsAvailable(lockConflicts(tx), appointment.PatientID, appointment.DoctorID, at)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotUnavailable
		}
		return tx.Model(appointment).Updates(map[string]interface{}{
			"full_time": at,
			"time_slot": slot,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	appointment.FullTime = at
	appointment.TimeSlot = slot

	formatted := appointment.FormattedTime()
	patientUser := appointment.Patient.User
	doctor := appointment.Doctor
	s.notify.Enqueue(s.compose.AppointmentRescheduled(
		patientUser.Email, patientUser.FullName(), "Dr. "+doctor.User.FullName(), formatted))
	s.notify.Enqueue(s.compose.AppointmentRescheduled(
		doctor.User.Email, doctor.User.FullName(), patientUser.FullName(), formatted))

	s.log.Info().
		Str("appointment_id", appointment.ID).
		Time("full_time", at).
		Msg("appointment rescheduled")

	return appointment, nil
}

// DiagnosisInput carries the fields a doctor fills in to complete an
// appointment.
type DiagnosisInput struct {
	Condition      string
	Classification string
	Symptoms       string
	Treatment      string
	MedicalAdvice  string
}

// CompleteWithDiagnosis attaches a diagnosis to a scheduled appointment and
// transitions it to completed, in one transaction. Only the assigned doctor
// may complete. No notification is sent for this transition.
func (s *Service) CompleteWithDiagnosis(p Principal, appointmentID string, in DiagnosisInput) (*models.Diagnosis, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrUnauthorized
		}
		return nil, err
	}
	if p.DoctorID == "" || p.DoctorID != appointment.DoctorID {
		return nil, ErrNotFoundOrUnauthorized
	}
	if appointment.State != models.StateScheduled {
		return nil, ErrAlreadyFinalized
	}

	diagnosis := models.Diagnosis{
		Condition:      in.Condition,
		Classification: in.Classification,
		Symptoms:       in.Symptoms,
		Treatment:      in.Treatment,
		MedicalAdvice:  in.MedicalAdvice,
		AppointmentID:  &appointment.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&diagnosis).Error; err != nil {
			return err
		}
		return tx.Model(&appointment).Update("state", models.StateCompleted).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appointment.ID).
		Str("diagnosis_id", diagnosis.ID).
		Msg("appointment completed with diagnosis")

	return &diagnosis, nil
}

// loadForPrincipal fetches an appointment with both participants preloaded
// and enforces the participant rule. Missing rows and foreign appointments
// surface the same error.
func (s *Service) loadForPrincipal(p Principal, appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.
		Preload("Patient.User").
		Preload("Doctor.User").
		First(&appointment, "id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrUnauthorized
		}
		return nil, err
	}
	if !p.IsStaff() && !p.ParticipatesIn(&appointment) {
		return nil, ErrNotFoundOrUnauthorized
	}
	return &appointment, nil
}
