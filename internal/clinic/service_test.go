package clinic

import (
	"errors"
	"strings"
	"testing"
	"time"

	"clinic-app-server/internal/models"
)

func TestBookAppointment(t *testing.T) {
	svc, rec, db := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityCardio)
	rec.reset()

	date := tomorrowDate(svc)
	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot0900)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if appointment.State != models.StateScheduled {
		t.Errorf("state = %q, want %q", appointment.State, models.StateScheduled)
	}
	want := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, date.Location())
	if !appointment.FullTime.Equal(want) {
		t.Errorf("full time = %v, want %v", appointment.FullTime, want)
	}

	var stored models.Appointment
	if err := db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("appointment not persisted: %v", err)
	}

	if len(rec.msgs) != 2 {
		t.Fatalf("got %d notifications, want 2", len(rec.msgs))
	}
	if rec.msgs[0].To[0] != patient.User.Email {
		t.Errorf("first notification to %q, want patient %q", rec.msgs[0].To[0], patient.User.Email)
	}
	if rec.msgs[1].To[0] != doctor.User.Email {
		t.Errorf("second notification to %q, want doctor %q", rec.msgs[1].To[0], doctor.User.Email)
	}
	if !strings.Contains(rec.msgs[0].Body, "Cardiologist") {
		t.Errorf("patient mail should name the doctor's speciality, got %q", rec.msgs[0].Body)
	}
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	svc, rec, db := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	other := registerTestPatient(t, svc, "lina")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityDerm)
	secondDoctor := registerTestDoctor(t, svc, "yacine", models.SpecialityNeuro)

	date := tomorrowDate(svc)
	if _, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot1000); err != nil {
		t.Fatalf("initial booking failed: %v", err)
	}
	rec.reset()

	// Same doctor, same slot, different patient.
	if _, err := svc.Book(patientPrincipal(other), doctor.ID, date, models.Slot1000); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("doctor double-booking: err = %v, want ErrSlotUnavailable", err)
	}
	// Same patient, same slot, different doctor.
	if _, err := svc.Book(patientPrincipal(patient), secondDoctor.ID, date, models.Slot1000); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("patient double-booking: err = %v, want ErrSlotUnavailable", err)
	}

	if n := countAppointments(t, db); n != 1 {
		t.Errorf("appointment count = %d, want 1 (no mutation on conflict)", n)
	}
	if len(rec.msgs) != 0 {
		t.Errorf("got %d notifications on rejected bookings, want 0", len(rec.msgs))
	}
}

func TestBookValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityPedi)

	date := tomorrowDate(svc)

	if _, err := svc.Book(patientPrincipal(patient), "00000000-0000-0000-0000-000000000000", date, models.Slot0900); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("unknown doctor: err = %v, want ErrDoctorNotFound", err)
	}
	if _, err := svc.Book(patientPrincipal(patient), doctor.ID, svc.now(), models.Slot0900); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("booking today: err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.Book(patientPrincipal(patient), doctor.ID, date.AddDate(0, 0, 30), models.Slot0900); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("booking past the window: err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.TimeSlot("12:00")); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("lunch slot: err = %v, want ErrInvalidSlot", err)
	}
}

func TestCancelByParticipants(t *testing.T) {
	svc, rec, _ := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	stranger := registerTestPatient(t, svc, "lina")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityENT)

	date := tomorrowDate(svc)
	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot0900)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	rec.reset()

	// A non-participant gets the conflated not-found error.
	if _, err := svc.Cancel(patientPrincipal(stranger), appointment.ID); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("foreign cancel: err = %v, want ErrNotFoundOrUnauthorized", err)
	}
	// So does a missing id.
	if _, err := svc.Cancel(patientPrincipal(patient), "missing-id"); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("missing id: err = %v, want ErrNotFoundOrUnauthorized", err)
	}

	canceled, err := svc.Cancel(patientPrincipal(patient), appointment.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if canceled.State != models.StateCanceled {
		t.Errorf("state = %q, want %q", canceled.State, models.StateCanceled)
	}
	if len(rec.msgs) != 2 {
		t.Errorf("got %d notifications, want 2", len(rec.msgs))
	}

	// Canceled is terminal: a second cancel is rejected.
	if _, err := svc.Cancel(doctorPrincipal(doctor), appointment.ID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second cancel: err = %v, want ErrAlreadyFinalized", err)
	}
}

func TestCancelByStaffNotifiesBothParties(t *testing.T) {
	svc, rec, _ := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityPsych)

	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, tomorrowDate(svc), models.Slot1300)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	rec.reset()

	if _, err := svc.Cancel(staffPrincipal(), appointment.ID); err != nil {
		t.Fatalf("staff cancel failed: %v", err)
	}
	if len(rec.msgs) != 1 {
		t.Fatalf("got %d notifications, want 1 shared message", len(rec.msgs))
	}
	if len(rec.msgs[0].To) != 2 {
		t.Errorf("shared message has %d recipients, want 2", len(rec.msgs[0].To))
	}
}

func TestCancelCompletedRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityOrtho)

	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, tomorrowDate(svc), models.Slot1100)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if _, err := svc.CompleteWithDiagnosis(doctorPrincipal(doctor), appointment.ID, sampleDiagnosis()); err != nil {
		t.Fatalf("completing failed: %v", err)
	}

	if _, err := svc.Cancel(patientPrincipal(patient), appointment.ID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("cancel after completion: err = %v, want ErrAlreadyFinalized", err)
	}
}

func TestReschedule(t *testing.T) {
	svc, rec, db := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityGeneralist)

	dates := AvailableDates(svc.now())
	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, dates[0], models.Slot0900)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	blocker, err := svc.Book(patientPrincipal(patient), doctor.ID, dates[1], models.Slot1400)
	if err != nil {
		t.Fatalf("booking blocker failed: %v", err)
	}
	rec.reset()

	// Moving onto the blocker's slot must leave the original untouched.
	if _, err := svc.Reschedule(patientPrincipal(patient), appointment.ID, dates[1], models.Slot1400); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("reschedule onto taken slot: err = %v, want ErrSlotUnavailable", err)
	}
	var unchanged models.Appointment
	if err := db.First(&unchanged, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("reloading appointment: %v", err)
	}
	if !unchanged.FullTime.Equal(appointment.FullTime) {
		t.Errorf("full time changed on failed reschedule: %v -> %v", appointment.FullTime, unchanged.FullTime)
	}
	if len(rec.msgs) != 0 {
		t.Errorf("got %d notifications on failed reschedule, want 0", len(rec.msgs))
	}

	// The doctor moves it to a free slot; state stays scheduled.
	moved, err := svc.Reschedule(doctorPrincipal(doctor), appointment.ID, dates[2], models.Slot1000)
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if moved.State != models.StateScheduled {
		t.Errorf("state = %q, want %q", moved.State, models.StateScheduled)
	}
	if moved.TimeSlot != models.Slot1000 {
		t.Errorf("time slot = %q, want %q", moved.TimeSlot, models.Slot1000)
	}
	wantTime := models.Slot1000.Combine(dates[2])
	if !moved.FullTime.Equal(wantTime) {
		t.Errorf("full time = %v, want %v", moved.FullTime, wantTime)
	}
	if len(rec.msgs) != 2 {
		t.Errorf("got %d notifications, want 2", len(rec.msgs))
	}

	// Terminal appointments cannot be rescheduled.
	if _, err := svc.Cancel(patientPrincipal(patient), blocker.ID); err != nil {
		t.Fatalf("canceling blocker: %v", err)
	}
	if _, err := svc.Reschedule(patientPrincipal(patient), blocker.ID, dates[3], models.Slot0900); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("rescheduling canceled appointment: err = %v, want ErrAlreadyFinalized", err)
	}
}

func sampleDiagnosis() DiagnosisInput {
	return DiagnosisInput{
		Condition:      "Hypertension",
		Classification: "I10",
		Symptoms:       "Headache, dizziness",
		Treatment:      "ACE inhibitor",
		MedicalAdvice:  "Reduce salt intake, follow up in a month",
	}
}

func TestCompleteWithDiagnosis(t *testing.T) {
	svc, rec, db := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityCardio)
	otherDoctor := registerTestDoctor(t, svc, "yacine", models.SpecialityDerm)

	appointment, err := svc.Book(patientPrincipal(patient), doctor.ID, tomorrowDate(svc), models.Slot0900)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	rec.reset()

	// Only the assigned doctor may complete.
	if _, err := svc.CompleteWithDiagnosis(doctorPrincipal(otherDoctor), appointment.ID, sampleDiagnosis()); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("foreign doctor: err = %v, want ErrNotFoundOrUnauthorized", err)
	}

	diagnosis, err := svc.CompleteWithDiagnosis(doctorPrincipal(doctor), appointment.ID, sampleDiagnosis())
	if err != nil {
		t.Fatalf("CompleteWithDiagnosis failed: %v", err)
	}
	if diagnosis.AppointmentID == nil || *diagnosis.AppointmentID != appointment.ID {
		t.Errorf("diagnosis not linked to appointment")
	}

	var reloaded models.Appointment
	if err := db.First(&reloaded, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("reloading appointment: %v", err)
	}
	if reloaded.State != models.StateCompleted {
		t.Errorf("state = %q, want %q", reloaded.State, models.StateCompleted)
	}

	var diagnosisCount int64
	if err := db.Model(&models.Diagnosis{}).Where("appointment_id = ?", appointment.ID).Count(&diagnosisCount).Error; err != nil {
		t.Fatalf("counting diagnoses: %v", err)
	}
	if diagnosisCount != 1 {
		t.Errorf("diagnosis count = %d, want exactly 1", diagnosisCount)
	}

	// Completing is silent.
	if len(rec.msgs) != 0 {
		t.Errorf("got %d notifications, want 0", len(rec.msgs))
	}

	// Completed is terminal.
	if _, err := svc.CompleteWithDiagnosis(doctorPrincipal(doctor), appointment.ID, sampleDiagnosis()); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second completion: err = %v, want ErrAlreadyFinalized", err)
	}
}

func TestBookingLifecycleScenario(t *testing.T) {
	svc, rec, db := newTestService(t)
	patient := registerTestPatient(t, svc, "amel")
	doctor := registerTestDoctor(t, svc, "karim", models.SpecialityCardio)
	rec.reset()

	date := tomorrowDate(svc)

	first, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot0900)
	if err != nil {
		t.Fatalf("booking 09:00 failed: %v", err)
	}
	if len(rec.msgs) != 2 {
		t.Fatalf("got %d notifications after booking, want 2", len(rec.msgs))
	}

	if _, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot0900); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("rebooking same slot: err = %v, want ErrSlotUnavailable", err)
	}
	if n := countAppointments(t, db); n != 1 {
		t.Fatalf("appointment count = %d, want 1", n)
	}

	if _, err := svc.CompleteWithDiagnosis(doctorPrincipal(doctor), first.ID, sampleDiagnosis()); err != nil {
		t.Fatalf("completing failed: %v", err)
	}

	second, err := svc.Book(patientPrincipal(patient), doctor.ID, date, models.Slot1000)
	if err != nil {
		t.Fatalf("booking 10:00 failed: %v", err)
	}
	if _, err := svc.Cancel(patientPrincipal(patient), second.ID); err != nil {
		t.Fatalf("canceling failed: %v", err)
	}

	var completed, canceled models.Appointment
	if err := db.First(&completed, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("reloading completed appointment: %v", err)
	}
	if err := db.First(&canceled, "id = ?", second.ID).Error; err != nil {
		t.Fatalf("reloading canceled appointment: %v", err)
	}
	if completed.State != models.StateCompleted {
		t.Errorf("first appointment state = %q, want completed", completed.State)
	}
	if canceled.State != models.StateCanceled {
		t.Errorf("second appointment state = %q, want canceled", canceled.State)
	}
}
