package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/clinic"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler exposes the appointment lifecycle over HTTP. All state
// transitions go through the clinic service; the handler only binds input,
// resolves the principal and maps errors.
type AppointmentHandler struct {
	DB  *gorm.DB
	Svc *clinic.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, svc *clinic.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Svc: svc}
}

// principalFromContext resolves the acting principal for the authenticated
// user. It writes the error response itself when resolution fails.
func principalFromContext(c *gin.Context, db *gorm.DB) (clinic.Principal, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return clinic.Principal{}, false
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	principal, err := clinic.ResolvePrincipal(db, userID, role)
	if err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) || errors.Is(err, clinic.ErrDoctorNotFound) {
			utils.Forbidden(c, "No clinic profile linked to this account")
		} else {
			utils.InternalServerError(c, "Failed to resolve principal: "+err.Error())
		}
		return clinic.Principal{}, false
	}
	return principal, true
}

// mapLifecycleError translates clinic service errors onto the HTTP surface.
func mapLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clinic.ErrNotFoundOrUnauthorized):
		utils.NotFound(c, "Appointment not found or unauthorized")
	case errors.Is(err, clinic.ErrDoctorNotFound):
		utils.NotFound(c, "Selected doctor not found")
	case errors.Is(err, clinic.ErrSlotUnavailable):
		utils.Conflict(c, "Selected time slot is not available")
	case errors.Is(err, clinic.ErrAlreadyFinalized):
		utils.Conflict(c, "Appointment is already completed or canceled")
	case errors.Is(err, clinic.ErrInvalidDate):
		utils.BadRequest(c, "Date must be one of the next 10 days starting tomorrow")
	case errors.Is(err, clinic.ErrInvalidSlot):
		utils.BadRequest(c, "Invalid time slot")
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// ListAppointments returns the caller's scheduled appointments; staff see
// every appointment regardless of state.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	query := h.DB.
		Preload("Patient.User").
		Preload("Doctor.User").
		Order("full_time asc")

	var appointments []models.Appointment
	var err error
	switch {
	case principal.PatientID != "":
		err = query.Where("patient_id = ? AND state = ?", principal.PatientID, models.StateScheduled).Find(&appointments).Error
	case principal.DoctorID != "":
		err = query.Where("doctor_id = ? AND state = ?", principal.DoctorID, models.StateScheduled).Find(&appointments).Error
	case principal.IsStaff():
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// doctorChoice is one entry of the booking form's doctor list.
type doctorChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingOptions mirrors the dynamic choice lists the booking form offers:
// every doctor with speciality, the bookable dates and the fixed slots.
type BookingOptions struct {
	Doctors   []doctorChoice    `json:"doctors"`
	Dates     []string          `json:"dates"`
	TimeSlots []models.TimeSlot `json:"timeSlots"`
}

// GetBookingOptions returns the choice lists for the booking form.
func (h *AppointmentHandler) GetBookingOptions(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("User").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	options := BookingOptions{
		Doctors:   make([]doctorChoice, 0, len(doctors)),
		TimeSlots: models.TimeSlots,
	}
	for i := range doctors {
		options.Doctors = append(options.Doctors, doctorChoice{
			ID:   doctors[i].ID,
			Name: doctors[i].FullNameWithSpeciality(),
		})
	}
	for _, d := range clinic.AvailableDates(time.Now()) {
		options.Dates = append(options.Dates, d.Format(dateLayout))
	}

	utils.Success(c, "Booking options fetched successfully", options)
}

// CreateAppointmentRequest represents the booking form submission.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"timeSlot" binding:"required"`
}

// CreateAppointment books an appointment for the authenticated patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	appointment, err := h.Svc.Book(principal, req.DoctorID, date, models.TimeSlot(req.TimeSlot))
	if err != nil {
		mapLifecycleError(c, err)
		return
	}

	utils.Created(c, "Appointment successfully scheduled", appointment)
}

// CancelAppointment cancels an appointment on behalf of a participant or
// staff.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	appointment, err := h.Svc.Cancel(principal, c.Param("id"))
	if err != nil {
		mapLifecycleError(c, err)
		return
	}

	utils.Success(c, "Appointment canceled", appointment)
}

// RescheduleAppointmentRequest represents the reschedule form submission.
type RescheduleAppointmentRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"timeSlot" binding:"required"`
}

// RescheduleAppointment moves an appointment to a new date and slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	appointment, err := h.Svc.Reschedule(principal, c.Param("id"), date, models.TimeSlot(req.TimeSlot))
	if err != nil {
		mapLifecycleError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled", appointment)
}

// DiagnosisRequest represents the diagnosis form a doctor fills to complete
// an appointment.
type DiagnosisRequest struct {
	Condition      string `json:"condition" binding:"required,max=300"`
	Classification string `json:"classification" binding:"required,max=300"`
	Symptoms       string `json:"symptoms" binding:"required"`
	Treatment      string `json:"treatment" binding:"required"`
	MedicalAdvice  string `json:"medicalAdvice" binding:"required"`
}

// FillDiagnosis records a diagnosis and completes the appointment.
func (h *AppointmentHandler) FillDiagnosis(c *gin.Context) {
	var req DiagnosisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	diagnosis, err := h.Svc.CompleteWithDiagnosis(principal, c.Param("id"), clinic.DiagnosisInput{
		Condition:      req.Condition,
		Classification: req.Classification,
		Symptoms:       req.Symptoms,
		Treatment:      req.Treatment,
		MedicalAdvice:  req.MedicalAdvice,
	})
	if err != nil {
		mapLifecycleError(c, err)
		return
	}

	utils.Created(c, "Diagnosis recorded, appointment completed", diagnosis)
}
