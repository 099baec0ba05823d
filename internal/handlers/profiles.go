package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// ProfileHandler serves the patient and doctor profile views: the profile
// row, the medical record for patients, completed appointments and their
// diagnoses.
type ProfileHandler struct {
	DB *gorm.DB
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// PatientProfile is the payload of the patient profile views.
type PatientProfile struct {
	Patient       models.Patient       `json:"patient"`
	MedicalRecord models.MedicalRecord `json:"medicalRecord"`
	Appointments  []models.Appointment `json:"appointments"`
	Diagnoses     []models.Diagnosis   `json:"diagnoses"`
}

// DoctorProfile is the payload of the doctor profile view.
type DoctorProfile struct {
	Doctor       models.Doctor        `json:"doctor"`
	Appointments []models.Appointment `json:"appointments"`
	Diagnoses    []models.Diagnosis   `json:"diagnoses"`
}

// GetPatientProfile returns the authenticated patient's own profile with
// their completed appointments and diagnoses.
func (h *ProfileHandler) GetPatientProfile(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}
	if principal.PatientID == "" {
		utils.Forbidden(c, "Only patients have a patient profile")
		return
	}

	profile, err := h.buildPatientProfile(principal.PatientID, models.StateCompleted)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch profile: "+err.Error())
		return
	}

	utils.Success(c, "Patient profile fetched successfully", profile)
}

// GetDoctorProfile returns the authenticated doctor's profile with their
// completed appointments and diagnoses.
func (h *ProfileHandler) GetDoctorProfile(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}
	if principal.DoctorID == "" {
		utils.Forbidden(c, "Only doctors have a doctor profile")
		return
	}

	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", principal.DoctorID).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctor: "+err.Error())
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient.User").
		Where("doctor_id = ? AND state = ?", doctor.ID, models.StateCompleted).
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	diagnoses, err := h.diagnosesFor(appointments)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch diagnoses: "+err.Error())
		return
	}

	utils.Success(c, "Doctor profile fetched successfully", DoctorProfile{
		Doctor:       doctor,
		Appointments: appointments,
		Diagnoses:    diagnoses,
	})
}

// GetPatientProfileForAppointment lets the assigned doctor review the
// patient behind one of their appointments, including the full appointment
// history and medical record.
func (h *ProfileHandler) GetPatientProfileForAppointment(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found or unauthorized")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if principal.DoctorID == "" || principal.DoctorID != appointment.DoctorID {
		utils.NotFound(c, "Appointment not found or unauthorized")
		return
	}

	// The doctor sees the patient's whole history, not only completed visits.
	profile, err := h.buildPatientProfile(appointment.PatientID, "")
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch profile: "+err.Error())
		return
	}

	utils.Success(c, "Patient profile fetched successfully", profile)
}

// buildPatientProfile assembles a patient's profile; state filters the
// appointment list when non-empty.
func (h *ProfileHandler) buildPatientProfile(patientID string, state models.AppointmentState) (*PatientProfile, error) {
	var patient models.Patient
	if err := h.DB.Preload("User").First(&patient, "id = ?", patientID).Error; err != nil {
		return nil, err
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "patient_id = ?", patient.ID).Error; err != nil {
		return nil, err
	}

	query := h.DB.Preload("Doctor.User").Where("patient_id = ?", patient.ID)
	if state != "" {
		query = query.Where("state = ?", state)
	}
	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}

	diagnoses, err := h.diagnosesFor(appointments)
	if err != nil {
		return nil, err
	}

	return &PatientProfile{
		Patient:       patient,
		MedicalRecord: record,
		Appointments:  appointments,
		Diagnoses:     diagnoses,
	}, nil
}

func (h *ProfileHandler) diagnosesFor(appointments []models.Appointment) ([]models.Diagnosis, error) {
	if len(appointments) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(appointments))
	for i := range appointments {
		ids = append(ids, appointments[i].ID)
	}
	var diagnoses []models.Diagnosis
	if err := h.DB.Where("appointment_id IN ?", ids).Find(&diagnoses).Error; err != nil {
		return nil, err
	}
	return diagnoses, nil
}
