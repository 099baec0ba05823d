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

// TaskHandler exposes the staff task board: staff assign and remove tasks,
// doctors list their own.
type TaskHandler struct {
	DB  *gorm.DB
	Svc *clinic.Service
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(db *gorm.DB, svc *clinic.Service) *TaskHandler {
	return &TaskHandler{DB: db, Svc: svc}
}

// ListTasks returns the caller's tasks: a doctor sees their own board, staff
// see everything.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	principal, ok := principalFromContext(c, h.DB)
	if !ok {
		return
	}

	query := h.DB.Preload("Doctor.User").Order("deadline asc")

	var tasks []models.Task
	var err error
	switch {
	case principal.DoctorID != "":
		err = query.Where("doctor_id = ?", principal.DoctorID).Find(&tasks).Error
	case principal.IsStaff():
		err = query.Find(&tasks).Error
	default:
		utils.Forbidden(c, "User role not permitted to view tasks")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch tasks: "+err.Error())
		return
	}

	utils.Success(c, "Tasks fetched successfully", tasks)
}

// CreateTaskRequest represents the staff task form.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" binding:"required"`
	DoctorID    string `json:"doctorId" binding:"required,uuid"`
}

// CreateTask assigns a new task to a doctor (staff only, route-guarded).
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	deadline, err := time.Parse(dateLayout, req.Deadline)
	if err != nil {
		utils.BadRequest(c, "Invalid deadline, expected YYYY-MM-DD")
		return
	}

	task, err := h.Svc.CreateTask(clinic.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		DoctorID:    req.DoctorID,
	})
	if err != nil {
		if errors.Is(err, clinic.ErrDoctorNotFound) {
			utils.NotFound(c, "Assigned doctor not found")
			return
		}
		utils.InternalServerError(c, "Failed to create task: "+err.Error())
		return
	}

	utils.Created(c, "Task created successfully", task)
}

// DeleteTask removes a task from the board (staff only, route-guarded).
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.Svc.DeleteTask(c.Param("id")); err != nil {
		if errors.Is(err, clinic.ErrTaskNotFound) {
			utils.NotFound(c, "Task not found")
			return
		}
		utils.InternalServerError(c, "Failed to delete task: "+err.Error())
		return
	}

	utils.Success(c, "Task deleted successfully", nil)
}
