package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPatient(t *testing.T, dob time.Time) *domain.Patient {
	t.Helper()
	patient, err := domain.NewPatient("Ada Brown", dob)
	require.NoError(t, err)
	return patient
}

func testNote(t *testing.T, patient *domain.Patient, content string, ts time.Time) domain.Note {
	t.Helper()
	note, err := domain.NewNote(patient.ID, content, ts)
	require.NoError(t, err)
	return *note
}

func testRequest(t *testing.T, audience domain.Audience, maxLength int) domain.SummaryRequest {
	t.Helper()
	req, err := domain.NewSummaryRequest(audience, maxLength)
	require.NoError(t, err)
	return req
}

func TestBuildAgeBoundary(t *testing.T) {
	dob := time.Date(1985, time.March, 15, 0, 0, 0, 0, time.UTC)
	patient := testPatient(t, dob)

	dayBefore := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	onBirthday := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 38, patient.Age(dayBefore))
	assert.Equal(t, 39, patient.Age(onBirthday))

	req := testRequest(t, domain.AudienceClinician, 500)
	assert.Contains(t, Build(patient, nil, req, dayBefore), "38 years old")
	assert.Contains(t, Build(patient, nil, req, onBirthday), "39 years old")
}

func TestBuildOrdersNotesAscending(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	newer := testNote(t, patient, "Newer note content.", time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))
	older := testNote(t, patient, "Older note content.", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	// Deliberately unordered input.
	got := Build(patient, []domain.Note{newer, older}, testRequest(t, domain.AudienceClinician, 500), now)

	olderIdx := strings.Index(got, "Older note content.")
	newerIdx := strings.Index(got, "Newer note content.")
	require.GreaterOrEqual(t, olderIdx, 0)
	require.GreaterOrEqual(t, newerIdx, 0)
	assert.Less(t, olderIdx, newerIdx, "older note must precede newer note")

	assert.Contains(t, got, "[2024-04-01 09:00]")
	assert.Contains(t, got, "[2024-04-02 09:00]")
}

func TestBuildAudienceInstruction(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Now().UTC()

	clinician := Build(patient, nil, testRequest(t, domain.AudienceClinician, 500), now)
	assert.Contains(t, clinician, "clinical terminology")
	assert.NotContains(t, clinician, "plain language")

	family := Build(patient, nil, testRequest(t, domain.AudienceFamily, 500), now)
	assert.Contains(t, family, "plain language")
	assert.NotContains(t, family, "clinical terminology")
}

func TestBuildTruncatesOldestFirst(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	req := testRequest(t, domain.AudienceClinician, 100)

	// Each note is ~220 chars; with a budget of 400 only the newest survives.
	var notes []domain.Note
	for i := 0; i < 4; i++ {
		content := fmt.Sprintf("note-%d ", i) + strings.Repeat("x", 200)
		ts := time.Date(2024, time.April, 1+i, 9, 0, 0, 0, time.UTC)
		notes = append(notes, testNote(t, patient, content, ts))
	}

	got := Build(patient, notes, req, now)

	assert.Contains(t, got, "note-3", "newest note must survive truncation")
	assert.NotContains(t, got, "note-0", "oldest note must be dropped first")

	// The instruction scaffold is never truncated.
	assert.Contains(t, got, "Be no longer than 100 characters")
}

func TestBuildSingleOversizedNoteKeepsTail(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	req := testRequest(t, domain.AudienceClinician, 100)

	content := strings.Repeat("h", 600) + " TAIL-MARKER"
	note := testNote(t, patient, content, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Build(patient, []domain.Note{note}, req, now)
	assert.Contains(t, got, "TAIL-MARKER", "tail of an oversized note must survive")
}

func TestBuildNoNotes(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	got := Build(patient, nil, testRequest(t, domain.AudienceClinician, 500), time.Now().UTC())
	assert.Contains(t, got, "No clinical notes are on file.")
}

func TestBuildDeterministic(t *testing.T) {
	patient := testPatient(t, time.Date(1970, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	note := testNote(t, patient, "Assessment: stable.", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	req := testRequest(t, domain.AudienceFamily, 300)

	first := Build(patient, []domain.Note{note}, req, now)
	second := Build(patient, []domain.Note{note}, req, now)
	assert.Equal(t, first, second)
}
