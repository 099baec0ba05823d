package models

import (
	"time"
)

// Gender enum
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Patient holds the clinic-side profile of a patient account.
type Patient struct {
	BaseModel
	UserID           string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	PhoneNumber      string    `gorm:"size:15;uniqueIndex;not null" json:"phoneNumber"`
	Address          string    `gorm:"size:200;not null" json:"address"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	EmergencyContact string    `gorm:"size:100" json:"emergencyContact,omitempty"`
	Gender           Gender    `gorm:"size:10;default:'female'" json:"gender"`

	// Relations
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MedicalRecord *MedicalRecord `gorm:"foreignKey:PatientID" json:"medicalRecord,omitempty"`
	Appointments  []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
}
