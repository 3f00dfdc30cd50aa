// Package prompt assembles the bounded prompt sent to a generation backend.
// Build is a pure function of its inputs: the same patient, notes, request,
// and clock always produce the same prompt.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carelog/summary-api/internal/domain"
)

// noteBudgetFactor sizes the note-text budget relative to the requested
// summary length. Notes beyond the budget are dropped oldest-first so the
// backend always sees the most recent clinical picture.
const noteBudgetFactor = 4

// noteTimestampLayout labels each note with its timestamp.
const noteTimestampLayout = "2006-01-02 15:04"

// Audience instructions embedded into the prompt.
const (
	clinicianInstruction = "Use clinical terminology appropriate for healthcare professionals. " +
		"Do not include reassurance language."
	familyInstruction = "Use plain language suitable for family members without medical background."
)

// promptTemplate is the fixed scaffold around the note text. Only the note
// text is subject to truncation; the header and instruction always survive.
const promptTemplate = `Generate a concise patient summary based on the following clinical notes.

Patient: %s, %d years old

%s

The summary should:
- Highlight key diagnoses and conditions
- Note current medications
- Summarize important observations and assessments
- Outline the treatment plan
- Be no longer than %d characters

Clinical Notes:
%s

Summary:`

// Build assembles the generation prompt for the given patient and notes.
// Notes are ordered ascending by note timestamp regardless of input order,
// and the assembled note text is truncated to a budget derived from
// req.MaxLength, dropping the oldest notes first.
func Build(patient *domain.Patient, notes []domain.Note, req domain.SummaryRequest, now time.Time) string {
	instruction := clinicianInstruction
	if req.Audience == domain.AudienceFamily {
		instruction = familyInstruction
	}

	notesText := assembleNotes(notes, req.MaxLength*noteBudgetFactor)

	return fmt.Sprintf(promptTemplate,
		patient.Name,
		patient.Age(now),
		instruction,
		req.MaxLength,
		notesText,
	)
}

// assembleNotes concatenates notes in ascending timestamp order, labeling
// each with its timestamp, and enforces the character budget.
func assembleNotes(notes []domain.Note, budget int) string {
	if len(notes) == 0 {
		return "No clinical notes are on file."
	}

	ordered := make([]domain.Note, len(notes))
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].NoteTimestamp.Before(ordered[j].NoteTimestamp)
	})

	labeled := make([]string, len(ordered))
	for i, note := range ordered {
		labeled[i] = fmt.Sprintf("[%s]\n%s", note.NoteTimestamp.Format(noteTimestampLayout), note.Content)
	}

	// Drop whole notes oldest-first until the remainder fits.
	start := 0
	for start < len(labeled)-1 && totalLen(labeled[start:]) > budget {
		start++
	}

	text := strings.Join(labeled[start:], "\n\n")

	// A single oversized note keeps its tail: the end of a clinical note
	// holds the latest assessment and plan.
	if len(text) > budget {
		text = text[len(text)-budget:]
	}

	return text
}

func totalLen(parts []string) int {
	// Account for the two-newline separators between notes.
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	if len(parts) > 1 {
		n += 2 * (len(parts) - 1)
	}
	return n
}
