package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// fakePatientStore is an in-memory PatientStore for tests.
type fakePatientStore struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*domain.Patient
}

func newFakePatientStore() *fakePatientStore {
	return &fakePatientStore{patients: make(map[uuid.UUID]*domain.Patient)}
}

func (s *fakePatientStore) Create(_ context.Context, patient *domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[patient.ID] = patient
	return nil
}

func (s *fakePatientStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.patients[id]
	if !ok {
		return nil, store.ErrPatientNotFound
	}
	return patient, nil
}

func (s *fakePatientStore) List(_ context.Context, limit, offset int) ([]*domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Patient
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakePatientStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return store.ErrPatientNotFound
	}
	delete(s.patients, id)
	return nil
}

// fakeNoteStore is an in-memory NoteStore for tests.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID][]domain.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uuid.UUID][]domain.Note)}
}

func (s *fakeNoteStore) Create(_ context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.PatientID] = append(s.notes[note.PatientID], *note)
	return nil
}

func (s *fakeNoteStore) ListByPatient(_ context.Context, patientID uuid.UUID) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := append([]domain.Note(nil), s.notes[patientID]...)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].NoteTimestamp.Before(notes[j].NoteTimestamp)
	})
	return notes, nil
}

// generatorResult is one scripted response from fakeGenerator.
type generatorResult struct {
	text string
	err  error
}

// fakeGenerator returns scripted results in order; the last result repeats
// once the script runs out.
type fakeGenerator struct {
	mu      sync.Mutex
	results []generatorResult
	calls   int
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)

	idx := g.calls - 1
	if idx >= len(g.results) {
		idx = len(g.results) - 1
	}
	r := g.results[idx]
	return r.text, r.err
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
