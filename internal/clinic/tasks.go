package clinic

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// TaskInput carries the fields staff submit when assigning a task.
type TaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	DoctorID    string
}

// CreateTask assigns a task to a doctor and notifies them by mail.
func (s *Service) CreateTask(in TaskInput) (*models.Task, error) {
	var doctor models.Doctor
	if err := s.db.Preload("User").First(&doctor, "id = ?", in.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	task := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		DoctorID:    doctor.ID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	s.notify.Enqueue(s.compose.TaskAssigned(doctor.User.Email, doctor.User.FullName(), task.Title))
	s.log.Info().Str("task_id", task.ID).Str("doctor_id", doctor.ID).Msg("task assigned")
	return &task, nil
}

// DeleteTask removes a task from the board.
func (s *Service) DeleteTask(taskID string) error {
	res := s.db.Delete(&models.Task{}, "id = ?", taskID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
