package notify

import (
	"fmt"
)

// Composer builds the human-readable messages sent on lifecycle events.
// ClinicName appears in subjects and sign-offs, From is the sender address.
type Composer struct {
	ClinicName string
	From       string
}

func (c Composer) signOff() string {
	return fmt.Sprintf("Best regards,\n%s Team", c.ClinicName)
}

// Welcome is sent after a successful patient or doctor signup.
func (c Composer) Welcome(name, email string) Message {
	return Message{
		Subject: fmt.Sprintf("Welcome to %s", c.ClinicName),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYou have been successfully signed up to %s!\n\nThank you for choosing %s.\n\n%s",
			name, c.ClinicName, c.ClinicName, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}

// AppointmentScheduled notifies one participant of a confirmed booking.
// counterpart names the other participant, e.g. "Dr. Jane Doe (Cardiologist)".
func (c Composer) AppointmentScheduled(email, counterpart, formattedTime string) Message {
	return Message{
		Subject: "Appointment successfully scheduled",
		Body: fmt.Sprintf(
			"We are pleased to inform you that your appointment has been successfully scheduled.\n"+
				"You are scheduled to meet with %s on %s.\n\nThank you for choosing %s. We look forward to seeing you!\n\n%s",
			counterpart, formattedTime, c.ClinicName, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}

// AppointmentCanceled notifies one participant of a cancellation.
func (c Composer) AppointmentCanceled(email, name, counterpart, formattedTime string) Message {
	return Message{
		Subject: "Appointment canceled",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe inform you that your appointment has been canceled.\n"+
				"You were scheduled to meet with %s on %s.\n\n%s",
			name, counterpart, formattedTime, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}

// AppointmentRescheduled notifies one participant of the new date-time.
func (c Composer) AppointmentRescheduled(email, name, counterpart, formattedTime string) Message {
	return Message{
		Subject: "Appointment rescheduled",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe inform you that your appointment has been rescheduled.\n"+
				"You are scheduled to meet with %s on %s.\n\n%s",
			name, counterpart, formattedTime, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}

// AppointmentCanceledByStaff informs both participants at once, the way the
// admin panel cancellation does.
func (c Composer) AppointmentCanceledByStaff(formattedTime string, recipients ...string) Message {
	return Message{
		Subject: "Appointment canceled",
		Body: fmt.Sprintf(
			"We inform you that your appointment on %s has been canceled.\n\n%s",
			formattedTime, c.signOff()),
		From: c.From,
		To:   recipients,
	}
}

// AccountDeleted is sent when staff removes a patient or doctor account.
func (c Composer) AccountDeleted(email, name string) Message {
	return Message{
		Subject: "Account deleted",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe inform you that your account has been deleted from our clinic database.\n\n%s",
			name, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}

// TaskAssigned is sent to a doctor when staff assigns a new task.
func (c Composer) TaskAssigned(email, name, title string) Message {
	return Message{
		Subject: "Task added",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe inform you that you have a new task: %s.\n\n%s",
			name, title, c.signOff()),
		From: c.From,
		To:   []string{email},
	}
}
