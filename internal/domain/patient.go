package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Patient
var (
	ErrEmptyPatientID     = errors.New("patient ID cannot be empty")
	ErrEmptyPatientName   = errors.New("patient name cannot be empty")
	ErrEmptyDateOfBirth   = errors.New("patient date of birth cannot be empty")
	ErrFutureDateOfBirth  = errors.New("patient date of birth cannot be in the future")
	ErrPatientNameTooLong = errors.New("patient name exceeds 255 characters")
)

// Patient represents a patient record with the demographic data needed
// for summary generation.
type Patient struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPatient creates a new Patient with the given name and date of birth.
// It generates a new UUID for the patient ID and sets the timestamps.
// Returns an error if validation fails.
func NewPatient(name string, dateOfBirth time.Time) (*Patient, error) {
	now := time.Now().UTC()
	patient := &Patient{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		DateOfBirth: dateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := patient.Validate(); err != nil {
		return nil, err
	}

	return patient, nil
}

// Validate checks if the Patient has valid data.
// Returns an error if any field fails validation.
func (p *Patient) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPatientID
	}

	if p.Name == "" {
		return ErrEmptyPatientName
	}

	if len(p.Name) > 255 {
		return ErrPatientNameTooLong
	}

	if p.DateOfBirth.IsZero() {
		return ErrEmptyDateOfBirth
	}

	if p.DateOfBirth.After(time.Now().UTC()) {
		return ErrFutureDateOfBirth
	}

	return nil
}

// Age computes the patient's age in whole years as of the given date.
// The age increments on the birthday itself, not the day before.
func (p *Patient) Age(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	birthdayThisYear := time.Date(
		at.Year(), p.DateOfBirth.Month(), p.DateOfBirth.Day(),
		0, 0, 0, 0, at.Location(),
	)
	if at.Before(birthdayThisYear) {
		years--
	}
	return years
}

// MRN derives the patient's medical record number from the patient ID.
func (p *Patient) MRN() string {
	hex := strings.ReplaceAll(p.ID.String(), "-", "")
	return "MRN-" + strings.ToUpper(hex[:8])
}
