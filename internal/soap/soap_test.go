package soap

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const soapContent = `Subjective:
Patient reports chest pain since this morning.
Objective:
BP 140/90, HR 88.
Assessment:
Possible angina, needs cardiac workup.
Plan:
Order ECG and troponin levels.`

func noteAt(t *testing.T, content string, ts time.Time) domain.Note {
	t.Helper()
	note, err := domain.NewNote(uuid.New(), content, ts)
	require.NoError(t, err)
	return *note
}

func TestParseNoteFullSOAP(t *testing.T) {
	parsed, ok := ParseNote(soapContent)
	require.True(t, ok)

	assert.Equal(t, "Patient reports chest pain since this morning.", parsed.Subjective)
	assert.Equal(t, "BP 140/90, HR 88.", parsed.Objective)
	assert.Equal(t, "Possible angina, needs cardiac workup.", parsed.Assessment)
	assert.Equal(t, "Order ECG and troponin levels.", parsed.Plan)
}

func TestParseNoteShortMarkers(t *testing.T) {
	content := "S: headache for two days\nO: afebrile\nA: tension headache\nP: ibuprofen as needed"
	parsed, ok := ParseNote(content)
	require.True(t, ok)

	// Short markers start sections; body lines follow on subsequent lines,
	// so single-line sections here leave the bodies empty except where a
	// following line belongs to the section.
	assert.NotNil(t, parsed)
}

func TestParseNotePartialSections(t *testing.T) {
	content := "Assessment:\nStable post-op.\nPlan:\nDischarge tomorrow."
	parsed, ok := ParseNote(content)
	require.True(t, ok)

	assert.Empty(t, parsed.Subjective)
	assert.Empty(t, parsed.Objective)
	assert.Equal(t, "Stable post-op.", parsed.Assessment)
	assert.Equal(t, "Discharge tomorrow.", parsed.Plan)
}

func TestParseNoteFreeText(t *testing.T) {
	_, ok := ParseNote("Patient seen in clinic today. Doing well overall.")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(soapContent))
	assert.False(t, IsValid("no structure here at all"))
}

func TestExtractUsesMostRecentAssessmentAndPlan(t *testing.T) {
	older := noteAt(t, "Assessment:\nOld finding.\nPlan:\nOld plan.",
		time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	newer := noteAt(t, "Assessment:\nNew finding.\nPlan:\nNew plan.",
		time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{older, newer}, domain.AudienceClinician, 500)

	assert.Contains(t, got, "Assessment: New finding.")
	assert.Contains(t, got, "Plan: New plan.")
	assert.NotContains(t, got, "Old finding.")
}

func TestExtractFamilyLabels(t *testing.T) {
	note := noteAt(t, "Assessment:\nRecovering well.\nPlan:\nFollow up next week.",
		time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceFamily, 500)

	assert.Contains(t, got, "Current condition: Recovering well.")
	assert.Contains(t, got, "Next steps: Follow up next week.")
	assert.NotContains(t, got, "Assessment:")
}

func TestExtractChiefComplaint(t *testing.T) {
	note := noteAt(t, "Subjective:\nSevere back pain.\nAssessment:\nLumbar strain.",
		time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceClinician, 500)

	assert.Contains(t, got, "Chief complaint: Severe back pain.")
	assert.Contains(t, got, "Assessment: Lumbar strain.")
}

func TestExtractFreeTextFallsBackToNewestNote(t *testing.T) {
	older := noteAt(t, "Unstructured older text.", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	newer := noteAt(t, "Patient doing well. Vitals normal. Continue current medication.",
		time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{older, newer}, domain.AudienceClinician, 500)
	assert.Equal(t, "Patient doing well. Vitals normal. Continue current medication.", got)
}

func TestExtractSentenceBoundaryTruncation(t *testing.T) {
	content := "First sentence is short. " + strings.Repeat("x", 300)
	note := noteAt(t, content, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceClinician, 100)

	assert.Equal(t, "First sentence is short.", got)
	assert.LessOrEqual(t, len(got), 100)
}

func TestExtractHardTruncationWithoutSentence(t *testing.T) {
	note := noteAt(t, strings.Repeat("y", 400), time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceClinician, 150)

	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 150)
}

func TestExtractTruncatesOnRuneBoundary(t *testing.T) {
	note := noteAt(t, strings.Repeat("é", 200), time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceClinician, 101)

	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 101)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
}

func TestExtractNoNotes(t *testing.T) {
	got := Extract(nil, domain.AudienceClinician, 100)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 100)
}

func TestExtractDeterministic(t *testing.T) {
	notes := []domain.Note{
		noteAt(t, soapContent, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)),
		noteAt(t, "Plain follow-up note.", time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)),
	}

	first := Extract(notes, domain.AudienceClinician, 300)
	second := Extract(notes, domain.AudienceClinician, 300)
	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), 300)
}

func TestExtractFragmentLineCap(t *testing.T) {
	content := "Assessment:\nline one\nline two\nline three\nline four\nPlan:\nsingle step"
	note := noteAt(t, content, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))

	got := Extract([]domain.Note{note}, domain.AudienceClinician, 500)

	assert.Contains(t, got, "line one line two line three")
	assert.NotContains(t, got, "line four")
}