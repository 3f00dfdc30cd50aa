package domain

// Audience identifies who a generated summary is written for.
type Audience string

// Supported audience values
const (
	AudienceClinician Audience = "clinician"
	AudienceFamily    Audience = "family"
)

// Allowed bounds for SummaryRequest.MaxLength.
const (
	MinSummaryLength = 100
	MaxSummaryLength = 2000

	// DefaultSummaryLength is used when a caller does not specify max_length.
	DefaultSummaryLength = 500
)

// SummaryRequest carries the caller-supplied parameters of one summary
// generation. It is immutable once validated.
type SummaryRequest struct {
	Audience  Audience `json:"audience"`
	MaxLength int      `json:"max_length"`
}

// NewSummaryRequest builds a validated SummaryRequest. Zero values mean
// the caller did not supply the parameter and receive the defaults;
// callers with an explicit value must range-check it before deciding to
// pass zero.
func NewSummaryRequest(audience Audience, maxLength int) (SummaryRequest, error) {
	if audience == "" {
		audience = AudienceClinician
	}
	if maxLength == 0 {
		maxLength = DefaultSummaryLength
	}

	req := SummaryRequest{Audience: audience, MaxLength: maxLength}
	if err := req.Validate(); err != nil {
		return SummaryRequest{}, err
	}
	return req, nil
}

// Validate checks the request parameters against the supported ranges.
func (r SummaryRequest) Validate() error {
	switch r.Audience {
	case AudienceClinician, AudienceFamily:
	default:
		return ErrInvalidAudience
	}

	if r.MaxLength < MinSummaryLength || r.MaxLength > MaxSummaryLength {
		return ErrInvalidMaxLength
	}

	return nil
}

// PatientHeading contains the patient identifiers displayed at the top
// of a summary.
type PatientHeading struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	MRN  string `json:"mrn"`
}

// SummaryResult is the outcome of one summary generation: the heading,
// the narrative text, and the number of notes read to produce it.
type SummaryResult struct {
	Heading   PatientHeading `json:"heading"`
	Summary   string         `json:"summary"`
	NoteCount int            `json:"note_count"`
}
