package clinic

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
)

// recorder captures enqueued notification messages.
type recorder struct {
	msgs []notify.Message
}

func (r *recorder) Enqueue(msg notify.Message) {
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) reset() {
	r.msgs = nil
}

// newTestService opens an isolated in-memory database and wires a service
// around it.
func newTestService(t *testing.T) (*Service, *recorder, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	rec := &recorder{}
	compose := notify.Composer{ClinicName: "Hayat Clinic", From: "no-reply@clinic.local"}
	svc := NewService(db, rec, compose, zerolog.Nop())
	return svc, rec, db
}

var fixtureSeq int

func registerTestPatient(t *testing.T, svc *Service, name string) *models.Patient {
	t.Helper()
	fixtureSeq++
	patient, err := svc.RegisterPatient(RegisterPatientInput{
		FirstName:             name,
		LastName:              "Patient",
		Email:                 fmt.Sprintf("%s.patient%d@example.com", name, fixtureSeq),
		Password:              "changeme123",
		PhoneNumber:           fmt.Sprintf("05%08d", fixtureSeq),
		Address:               "12 Rue des Lilas",
		DateOfBirth:           time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		EmergencyContact:      "0611111111",
		Gender:                models.GenderFemale,
		InsuranceProvider:     "CNAS",
		InsurancePolicyNumber: fmt.Sprintf("POL-%06d", fixtureSeq),
		InsuranceExpiryDate:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("registering patient %s: %v", name, err)
	}
	return patient
}

func registerTestDoctor(t *testing.T, svc *Service, name string, spec models.Speciality) *models.Doctor {
	t.Helper()
	fixtureSeq++
	doctor, err := svc.RegisterDoctor(RegisterDoctorInput{
		FirstName:       name,
		LastName:        "Doctor",
		Email:           fmt.Sprintf("%s.doctor%d@example.com", name, fixtureSeq),
		Password:        "changeme123",
		PhoneNumber:     fmt.Sprintf("06%08d", fixtureSeq),
		Address:         "3 Boulevard Central",
		DateRecruitment: time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC),
		Speciality:      spec,
	})
	if err != nil {
		t.Fatalf("registering doctor %s: %v", name, err)
	}
	return doctor
}

func patientPrincipal(p *models.Patient) Principal {
	return Principal{UserID: p.UserID, Role: models.RolePatient, PatientID: p.ID}
}

func doctorPrincipal(d *models.Doctor) Principal {
	return Principal{UserID: d.UserID, Role: models.RoleDoctor, DoctorID: d.ID}
}

func staffPrincipal() Principal {
	return Principal{UserID: "staff-user", Role: models.RoleStaff}
}

// tomorrowDate returns the first bookable date for the service clock.
func tomorrowDate(svc *Service) time.Time {
	return AvailableDates(svc.now())[0]
}

func countAppointments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Appointment{}).Count(&n).Error; err != nil {
		t.Fatalf("counting appointments: %v", err)
	}
	return n
}
