package models

import (
	"time"
)

// AppointmentState represents the lifecycle state of an appointment.
// Transitions are one-way: scheduled appointments become completed or
// canceled, and both of those are terminal.
type AppointmentState string

const (
	StateScheduled AppointmentState = "scheduled"
	StateCompleted AppointmentState = "completed"
	StateCanceled  AppointmentState = "canceled"
)

// Terminal reports whether no further transition is allowed from the state.
func (s AppointmentState) Terminal() bool {
	return s == StateCompleted || s == StateCanceled
}

// TimeSlot is one of the five fixed hourly appointment windows: three in the
// morning (09:00-11:00) and two after lunch (13:00-14:00).
type TimeSlot string

const (
	Slot0900 TimeSlot = "09:00"
	Slot1000 TimeSlot = "10:00"
	Slot1100 TimeSlot = "11:00"
	Slot1300 TimeSlot = "13:00"
	Slot1400 TimeSlot = "14:00"
)

// TimeSlots lists every bookable slot in display order.
var TimeSlots = []TimeSlot{Slot0900, Slot1000, Slot1100, Slot1300, Slot1400}

var slotHours = map[TimeSlot]int{
	Slot0900: 9,
	Slot1000: 10,
	Slot1100: 11,
	Slot1300: 13,
	Slot1400: 14,
}

// Valid reports whether the slot is one of the fixed windows.
func (t TimeSlot) Valid() bool {
	_, ok := slotHours[t]
	return ok
}

// Hour returns the starting hour of the slot.
func (t TimeSlot) Hour() int {
	return slotHours[t]
}

// Combine merges a calendar date with the slot into the appointment's full
// date-time, in the date's location.
func (t TimeSlot) Combine(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), 0, 0, 0, date.Location())
}

// Appointment represents a booked visit between one patient and one doctor.
type Appointment struct {
	BaseModel
	PatientID string           `gorm:"size:36;index:idx_patient_slot;not null" json:"patientId"`
	DoctorID  string           `gorm:"size:36;index:idx_doctor_slot;not null" json:"doctorId"`
	TimeSlot  TimeSlot         `gorm:"size:5;not null" json:"timeSlot"`
	FullTime  time.Time        `gorm:"index:idx_doctor_slot;index:idx_patient_slot" json:"fullTime"`
	State     AppointmentState `gorm:"size:20;default:'scheduled';index:idx_doctor_slot;index:idx_patient_slot" json:"state"`

	// Relations
	Patient   Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor    Doctor     `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Diagnosis *Diagnosis `gorm:"foreignKey:AppointmentID" json:"diagnosis,omitempty"`
}

// FormattedTime renders the appointment time the way notification mails
// present it, e.g. "Monday, January 2, 2006 at 3:04 PM".
func (a *Appointment) FormattedTime() string {
	return a.FullTime.Format("Monday, January 2, 2006 at 3:04 PM")
}
