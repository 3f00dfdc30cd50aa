package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummarizer maps patient IDs to scripted outcomes.
type fakeSummarizer struct {
	mu      sync.Mutex
	results map[uuid.UUID]*domain.SummaryResult
	errs    map[uuid.UUID]error
	calls   int
}

func newFakeSummarizer() *fakeSummarizer {
	return &fakeSummarizer{
		results: make(map[uuid.UUID]*domain.SummaryResult),
		errs:    make(map[uuid.UUID]error),
	}
}

func (f *fakeSummarizer) Generate(_ context.Context, patientID uuid.UUID, _ domain.SummaryRequest) (*domain.SummaryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[patientID]; ok {
		return nil, err
	}
	return f.results[patientID], nil
}

func waitForStatus(t *testing.T, m *Manager, id uuid.UUID, want Status) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := m.Poll(context.Background(), id)
		require.NoError(t, err)
		if j.Status == want {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return nil
}

func TestRunnerProcessesJobs(t *testing.T) {
	m, _ := newTestManager(t)
	summarizer := newFakeSummarizer()

	patientID := uuid.New()
	summarizer.results[patientID] = &domain.SummaryResult{
		Heading:   domain.PatientHeading{Name: "Ada Brown", Age: 39, MRN: "MRN-00000000"},
		Summary:   "All good.",
		NoteCount: 2,
	}

	runner := NewRunner(m, summarizer, jobsConfig(), testLogger())
	runner.Start()
	defer runner.Stop()

	req, err := domain.NewSummaryRequest(domain.AudienceClinician, 500)
	require.NoError(t, err)

	j, err := m.Submit(context.Background(), patientID, req)
	require.NoError(t, err)

	done := waitForStatus(t, m, j.ID, StatusCompleted)
	require.NotNil(t, done.Result)
	assert.Equal(t, "All good.", done.Result.Summary)
	assert.Equal(t, 2, done.Result.NoteCount)
	assert.Empty(t, done.Error)
}

func TestRunnerMarksFailedJobs(t *testing.T) {
	m, _ := newTestManager(t)
	summarizer := newFakeSummarizer()

	patientID := uuid.New()
	summarizer.errs[patientID] = errors.New("patient not found")

	runner := NewRunner(m, summarizer, jobsConfig(), testLogger())
	runner.Start()
	defer runner.Stop()

	req, err := domain.NewSummaryRequest(domain.AudienceClinician, 500)
	require.NoError(t, err)

	j, err := m.Submit(context.Background(), patientID, req)
	require.NoError(t, err)

	failed := waitForStatus(t, m, j.ID, StatusFailed)
	assert.Equal(t, "patient not found", failed.Error)
	assert.Nil(t, failed.Result)
}

func TestRunnerDrainsBacklog(t *testing.T) {
	m, _ := newTestManager(t)
	summarizer := newFakeSummarizer()

	req, err := domain.NewSummaryRequest(domain.AudienceClinician, 500)
	require.NoError(t, err)

	const jobCount = 10
	ids := make([]uuid.UUID, 0, jobCount)
	for i := 0; i < jobCount; i++ {
		patientID := uuid.New()
		summarizer.results[patientID] = &domain.SummaryResult{Summary: "ok", NoteCount: 1}
		j, err := m.Submit(context.Background(), patientID, req)
		require.NoError(t, err)
		ids = append(ids, j.ID)
	}

	runner := NewRunner(m, summarizer, jobsConfig(), testLogger())
	runner.Start()
	defer runner.Stop()

	for _, id := range ids {
		waitForStatus(t, m, id, StatusCompleted)
	}

	summarizer.mu.Lock()
	defer summarizer.mu.Unlock()
	assert.Equal(t, jobCount, summarizer.calls, "each job runs exactly once")
}

// ctxSensitiveStore rejects writes on a cancelled context, the way a SQL
// store would.
type ctxSensitiveStore struct {
	Store
}

func (s ctxSensitiveStore) MarkCompleted(ctx context.Context, id uuid.UUID, result *domain.SummaryResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.MarkCompleted(ctx, id, result)
}

func (s ctxSensitiveStore) MarkFailed(ctx context.Context, id uuid.UUID, detail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.MarkFailed(ctx, id, detail)
}

func TestRunnerRecordsOutcomeAfterStop(t *testing.T) {
	store := ctxSensitiveStore{NewMemoryStore()}
	m := NewManager(store, jobsConfig(), nil, testLogger())

	summarizer := newFakeSummarizer()
	completing := uuid.New()
	failing := uuid.New()
	summarizer.results[completing] = &domain.SummaryResult{Summary: "ok", NoteCount: 1}
	summarizer.errs[failing] = errors.New("backend gone")

	req, err := domain.NewSummaryRequest(domain.AudienceClinician, 500)
	require.NoError(t, err)

	first, err := m.Submit(context.Background(), completing, req)
	require.NoError(t, err)
	second, err := m.Submit(context.Background(), failing, req)
	require.NoError(t, err)

	runner := NewRunner(m, summarizer, jobsConfig(), testLogger())
	for range []uuid.UUID{completing, failing} {
		claimed, err := m.Claim(context.Background())
		require.NoError(t, err)

		// Shut down mid-job; the terminal write must still land.
		runner.cancel()
		runner.process(testLogger(), claimed)
	}

	done, err := m.Poll(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)

	failed, err := m.Poll(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "backend gone", failed.Error)
}

func TestRunnerStopIsIdempotentlySafe(t *testing.T) {
	m, _ := newTestManager(t)
	runner := NewRunner(m, newFakeSummarizer(), jobsConfig(), testLogger())
	runner.Start()
	runner.Stop()
}
