package models

import (
	"time"
)

// Task is a staff-assigned work item on a doctor's board.
type Task struct {
	BaseModel
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `json:"deadline"`
	DoctorID    string    `gorm:"size:36;index;not null" json:"doctorId"`

	// Relations
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}
