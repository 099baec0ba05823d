package models

import (
	"time"
)

// Speciality enum
type Speciality string

const (
	SpecialityGeneralist Speciality = "GENERALIST"
	SpecialityCardio     Speciality = "CARDIO"
	SpecialityDerm       Speciality = "DERM"
	SpecialityNeuro      Speciality = "NEURO"
	SpecialityOrtho      Speciality = "ORTHO"
	SpecialityENT        Speciality = "ENT"
	SpecialityPedi       Speciality = "PEDI"
	SpecialityPsych      Speciality = "PSYCH"
)

var specialityNames = map[Speciality]string{
	SpecialityGeneralist: "Generalist",
	SpecialityCardio:     "Cardiologist",
	SpecialityDerm:       "Dermatologist",
	SpecialityNeuro:      "Neurologist",
	SpecialityOrtho:      "Orthopedic Surgeon",
	SpecialityENT:        "Otolaryngologist (ENT Specialist)",
	SpecialityPedi:       "Pediatrician",
	SpecialityPsych:      "Psychiatrist",
}

// Display returns the human-readable name of the speciality.
func (s Speciality) Display() string {
	if name, ok := specialityNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether the speciality is one of the known values.
func (s Speciality) Valid() bool {
	_, ok := specialityNames[s]
	return ok
}

// Doctor holds the clinic-side profile of a doctor account.
type Doctor struct {
	BaseModel
	UserID          string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	PhoneNumber     string     `gorm:"size:15;not null" json:"phoneNumber"`
	Address         string     `gorm:"type:text;not null" json:"address"`
	DateRecruitment time.Time  `json:"dateRecruitment"`
	Speciality      Speciality `gorm:"size:10;not null" json:"speciality"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
	Tasks        []Task        `gorm:"foreignKey:DoctorID" json:"-"`
}

// FullNameWithSpeciality renders the doctor the way choice lists and mail
// templates present them. The User relation must be loaded.
func (d *Doctor) FullNameWithSpeciality() string {
	return d.User.FullName() + " (" + d.Speciality.Display() + ")"
}
