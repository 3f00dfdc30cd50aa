package soap

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/carelog/summary-api/internal/domain"
)

// Note holds the four sections of a parsed SOAP note. Sections the note
// did not contain are empty strings.
type Note struct {
	Subjective string
	Objective  string
	Assessment string
	Plan       string
}

// maxFragmentLines caps how many lines of a section are carried into the
// extracted summary.
const maxFragmentLines = 3

// noNotesText is returned by Extract when a patient has no notes at all.
const noNotesText = "No clinical notes are available for this patient."

// sectionMarkers maps each SOAP section to the header markers that open
// it. A line containing any marker (case-insensitive) starts that section;
// the header line itself is not part of the section body.
var sectionMarkers = []struct {
	section string
	markers []string
}{
	{"subjective", []string{"subjective", "s:"}},
	{"objective", []string{"objective", "o:"}},
	{"assessment", []string{"assessment", "a:"}},
	{"plan", []string{"plan", "p:"}},
}

// ParseNote splits raw note content into SOAP sections. The second return
// value is false when no section header was recognized anywhere in the
// content, meaning the note is free text rather than a SOAP note.
func ParseNote(content string) (*Note, bool) {
	sections := map[string]string{}

	current := ""
	var body []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		section := matchSection(line)
		if section != "" {
			flush()
			current = section
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	note := &Note{
		Subjective: sections["subjective"],
		Objective:  sections["objective"],
		Assessment: sections["assessment"],
		Plan:       sections["plan"],
	}
	if note.Subjective == "" && note.Objective == "" && note.Assessment == "" && note.Plan == "" {
		return nil, false
	}
	return note, true
}

// IsValid reports whether content parses as a SOAP note with at least one
// non-empty section.
func IsValid(content string) bool {
	_, ok := ParseNote(content)
	return ok
}

func matchSection(line string) string {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, sm := range sectionMarkers {
		for _, marker := range sm.markers {
			if strings.Contains(lower, marker) {
				return sm.section
			}
		}
	}
	return ""
}

// Extract produces a rule-based summary from the patient's notes without
// calling any generation backend. It never fails: the result is always
// non-empty, at most maxLength characters, and identical across calls with
// the same inputs.
//
// Notes are scanned newest first. The most recent assessment and plan
// fragments form the summary; when no note has recognizable SOAP structure
// the newest note's text is used directly, trimmed to a sentence boundary.
func Extract(notes []domain.Note, audience domain.Audience, maxLength int) string {
	if len(notes) == 0 {
		return truncate(noNotesText, maxLength)
	}

	sorted := make([]domain.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NoteTimestamp.After(sorted[j].NoteTimestamp)
	})

	var assessment, plan, chief string
	for _, note := range sorted {
		parsed, ok := ParseNote(note.Content)
		if !ok {
			continue
		}
		if assessment == "" {
			assessment = fragment(parsed.Assessment)
		}
		if plan == "" {
			plan = fragment(parsed.Plan)
		}
		if chief == "" {
			chief = firstLine(parsed.Subjective)
		}
		if assessment != "" && plan != "" && chief != "" {
			break
		}
	}

	assessmentLabel, planLabel, chiefLabel := "Assessment:", "Plan:", "Chief complaint:"
	if audience == domain.AudienceFamily {
		assessmentLabel, planLabel, chiefLabel = "Current condition:", "Next steps:", "Main concern:"
	}

	var parts []string
	if assessment != "" {
		parts = append(parts, assessmentLabel+" "+assessment)
	}
	if plan != "" {
		parts = append(parts, planLabel+" "+plan)
	}
	if chief != "" {
		parts = append(parts, chiefLabel+" "+chief)
	}

	if len(parts) == 0 {
		raw := strings.TrimSpace(sorted[0].Content)
		if raw == "" {
			return truncate(noNotesText, maxLength)
		}
		return sentenceTruncate(raw, maxLength)
	}

	return sentenceTruncate(strings.Join(parts, " "), maxLength)
}

// fragment joins the first few non-empty lines of a section body into one
// space-separated string.
func fragment(section string) string {
	var lines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxFragmentLines {
			break
		}
	}
	return strings.Join(lines, " ")
}

func firstLine(section string) string {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// sentenceTruncate caps text at maxLength, preferring to cut at the end of
// the last complete sentence that fits. Falls back to a hard cut when no
// sentence terminator lands in the kept portion.
func sentenceTruncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	cut := runeCut(text, maxLength)
	if idx := strings.LastIndexAny(cut, ".!?"); idx > 0 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut)
}

func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return strings.TrimSpace(runeCut(text, maxLength))
}

// runeCut shortens text to at most maxLength bytes, backing the cut up to
// a rune boundary so a multibyte character is never split.
func runeCut(text string, maxLength int) string {
	for maxLength > 0 && !utf8.RuneStart(text[maxLength]) {
		maxLength--
	}
	return text[:maxLength]
}
