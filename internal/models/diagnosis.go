package models

// Diagnosis records the outcome of a completed appointment. AppointmentID is
// nullable: deleting a patient or doctor detaches the diagnosis from its
// appointment instead of destroying it.
type Diagnosis struct {
	BaseModel
	Condition      string  `gorm:"size:300;not null" json:"condition"`
	Classification string  `gorm:"size:300;not null" json:"classification"`
	Symptoms       string  `gorm:"type:text;not null" json:"symptoms"`
	Treatment      string  `gorm:"type:text;not null" json:"treatment"`
	MedicalAdvice  string  `gorm:"type:text;not null" json:"medicalAdvice"`
	AppointmentID  *string `gorm:"size:36;uniqueIndex" json:"appointmentId,omitempty"`
}
