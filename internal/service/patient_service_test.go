package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientServiceCreateAndGet(t *testing.T) {
	svc := NewPatientService(newFakePatientStore(), testLogger())

	created, err := svc.Create(context.Background(), "Ada Brown", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ada Brown", got.Name)
}

func TestPatientServiceCreateValidation(t *testing.T) {
	svc := NewPatientService(newFakePatientStore(), testLogger())

	_, err := svc.Create(context.Background(), "", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrEmptyPatientName)

	_, err = svc.Create(context.Background(), "Future Person", time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrFutureDateOfBirth)
}

func TestPatientServiceGetUnknown(t *testing.T) {
	svc := NewPatientService(newFakePatientStore(), testLogger())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientServiceDelete(t *testing.T) {
	svc := NewPatientService(newFakePatientStore(), testLogger())

	created, err := svc.Create(context.Background(), "Ada Brown", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrPatientNotFound)
}

func TestNoteServiceCreateRequiresPatient(t *testing.T) {
	patients := newFakePatientStore()
	svc := NewNoteService(patients, newFakeNoteStore(), testLogger())

	_, err := svc.Create(context.Background(), uuid.New(), "content", time.Now().UTC())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestNoteServiceCreateAndList(t *testing.T) {
	patients := newFakePatientStore()
	notes := newFakeNoteStore()
	noteSvc := NewNoteService(patients, notes, testLogger())

	patient, err := domain.NewPatient("Ada Brown", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, patients.Create(context.Background(), patient))

	_, err = noteSvc.Create(context.Background(), patient.ID, "second", time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = noteSvc.Create(context.Background(), patient.ID, "first", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	list, err := noteSvc.ListByPatient(context.Background(), patient.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
}

func TestNoteServiceCreateNeverLogsContent(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	patients := newFakePatientStore()
	svc := NewNoteService(patients, newFakeNoteStore(), log)

	patient, err := domain.NewPatient("Ada Brown", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, patients.Create(context.Background(), patient))

	_, err = svc.Create(context.Background(), patient.ID,
		"Assessment: stable angina.", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "angina")
	assert.Contains(t, buf.String(), "[NOTE_CONTENT")
}

func TestNoteServiceCreateValidation(t *testing.T) {
	patients := newFakePatientStore()
	svc := NewNoteService(patients, newFakeNoteStore(), testLogger())

	patient, err := domain.NewPatient("Ada Brown", time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, patients.Create(context.Background(), patient))

	_, err = svc.Create(context.Background(), patient.ID, "", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrEmptyNoteContent)
}
