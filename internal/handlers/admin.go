package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/clinic"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// AdminHandler backs the staff panel: patient, doctor and appointment
// administration. Every route here is staff-only (guarded in routes).
type AdminHandler struct {
	DB  *gorm.DB
	Svc *clinic.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB, svc *clinic.Service) *AdminHandler {
	return &AdminHandler{DB: db, Svc: svc}
}

// ListPatients returns every patient with their account data.
func (h *AdminHandler) ListPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Preload("User").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	utils.Success(c, "Patients fetched successfully", gin.H{
		"patients": patients,
		"total":    len(patients),
	})
}

// DeletePatient removes a patient, cascading to their appointments and
// medical record; attached diagnoses are detached and kept.
func (h *AdminHandler) DeletePatient(c *gin.Context) {
	if err := h.Svc.DeletePatient(c.Param("id")); err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) {
			utils.NotFound(c, "Patient not found")
			return
		}
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}

// ListDoctors returns every doctor with their account data.
func (h *AdminHandler) ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("User").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", gin.H{
		"doctors": doctors,
		"total":   len(doctors),
	})
}

// CreateDoctorRequest represents the doctor signup form staff submit.
type CreateDoctorRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`

	PhoneNumber     string `json:"phoneNumber" binding:"required,max=15"`
	Address         string `json:"address" binding:"required"`
	DateRecruitment string `json:"dateRecruitment" binding:"required"`
	Speciality      string `json:"speciality" binding:"required"`
}

// CreateDoctor registers a doctor account and profile.
func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	recruited, err := time.Parse(dateLayout, req.DateRecruitment)
	if err != nil {
		utils.BadRequest(c, "Invalid dateRecruitment, expected YYYY-MM-DD")
		return
	}

	doctor, err := h.Svc.RegisterDoctor(clinic.RegisterDoctorInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		DateRecruitment: recruited,
		Speciality:      models.Speciality(req.Speciality),
	})
	if err != nil {
		switch {
		case errors.Is(err, clinic.ErrEmailTaken):
			utils.BadRequest(c, "User with this email already exists")
		case errors.Is(err, clinic.ErrInvalidSpeciality):
			utils.BadRequest(c, "Invalid speciality")
		default:
			utils.InternalServerError(c, "Failed to register doctor: "+err.Error())
		}
		return
	}

	utils.Created(c, "Doctor registered successfully", doctor)
}

// DeleteDoctor removes a doctor, cascading to their appointments and tasks;
// attached diagnoses are detached and kept.
func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	if err := h.Svc.DeleteDoctor(c.Param("id")); err != nil {
		if errors.Is(err, clinic.ErrDoctorNotFound) {
			utils.NotFound(c, "Doctor not found")
			return
		}
		utils.InternalServerError(c, "Failed to delete doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor deleted successfully", nil)
}

// ListAppointments returns every appointment with both participants.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	var appointments []models.Appointment
	if err := h.DB.
		Preload("Patient.User").
		Preload("Doctor.User").
		Order("full_time asc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", gin.H{
		"appointments": appointments,
		"total":        len(appointments),
	})
}
