package clinic

import (
	"errors"
)

// Sentinel errors returned by the clinic services. Handlers map these onto
// HTTP statuses; nothing here carries transport semantics.
var (
	// ErrNotFoundOrUnauthorized deliberately conflates "does not exist"
	// with "exists but the principal is not a participant" so that foreign
	// appointment ids are indistinguishable from missing ones.
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")

	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrTaskNotFound    = errors.New("task not found")

	ErrSlotUnavailable = errors.New("selected time slot is not available")
	ErrInvalidSlot     = errors.New("invalid time slot")
	ErrInvalidDate     = errors.New("date is outside the booking window")

	// ErrAlreadyFinalized guards the one-way state machine: completed and
	// canceled appointments accept no further transitions.
	ErrAlreadyFinalized = errors.New("appointment is already completed or canceled")

	ErrEmailTaken        = errors.New("email address already in use")
	ErrInvalidSpeciality = errors.New("invalid speciality")
)
