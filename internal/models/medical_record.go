package models

import (
	"time"
)

// MedicalRecord is the one-to-one insurance and history sheet created
// alongside a patient at signup.
type MedicalRecord struct {
	BaseModel
	PatientID             string    `gorm:"size:36;uniqueIndex;not null" json:"patientId"`
	InsuranceProvider     string    `gorm:"size:100" json:"insuranceProvider"`
	InsurancePolicyNumber string    `gorm:"size:50;uniqueIndex" json:"insurancePolicyNumber"`
	InsuranceExpiryDate   time.Time `json:"insuranceExpiryDate"`
	FamilyMedicalHistory  string    `gorm:"type:text" json:"familyMedicalHistory,omitempty"`
	PastIllnesses         string    `gorm:"type:text" json:"pastIllnesses,omitempty"`
	Surgeries             string    `gorm:"type:text" json:"surgeries,omitempty"`
	Allergies             string    `gorm:"type:text" json:"allergies,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
