package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
	"github.com/a3tai/mcp-pdf-translator/internal/pipeline"
	"github.com/a3tai/mcp-pdf-translator/internal/translate"
)

type stubBackend struct{}

func (stubBackend) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

var _ translate.Backend = stubBackend{}

// waitForStatus polls until the job leaves the given statuses or the timeout
// elapses.
func waitForStatus(t *testing.T, store *Store, id string, want Status) Job {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := store.Get(id)
		require.True(t, ok)
		if job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	job, _ := store.Get(id)
	t.Fatalf("job %s did not reach status %s, currently %s", id, want, job.Status)
	return Job{}
}

func TestWorker_MarksUnreadableInputFailed(t *testing.T) {
	store := NewStore()
	pipe := pipeline.New(pdf.NewService(1024*1024), stubBackend{})

	worker := NewWorker(store, pipe)
	worker.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	job := store.Create(pipeline.Request{
		InputPath:      "/non/existent/document.pdf",
		OutputPath:     "/tmp/out.pdf",
		SourceLanguage: "English",
		TargetLanguage: "Western Persian",
		FontPath:       "/tmp/font.ttf",
	})

	failed := waitForStatus(t, store, job.ID, StatusFailed)
	assert.Equal(t, pipeline.StageExtracting, failed.FailedStage)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.Result)
}

func TestWorker_ProcessesJobsInSubmissionOrder(t *testing.T) {
	store := NewStore()
	pipe := pipeline.New(pdf.NewService(1024*1024), stubBackend{})

	first := store.Create(pipeline.Request{
		InputPath:      "/non/existent/first.pdf",
		OutputPath:     "/tmp/first.out.pdf",
		SourceLanguage: "English",
		TargetLanguage: "Arabic",
		FontPath:       "/tmp/font.ttf",
	})
	second := store.Create(pipeline.Request{
		InputPath:      "/non/existent/second.pdf",
		OutputPath:     "/tmp/second.out.pdf",
		SourceLanguage: "English",
		TargetLanguage: "Arabic",
		FontPath:       "/tmp/font.ttf",
	})

	worker := NewWorker(store, pipe)
	worker.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	firstDone := waitForStatus(t, store, first.ID, StatusFailed)
	secondDone := waitForStatus(t, store, second.ID, StatusFailed)

	// Both jobs were drained; the first was updated no later than the second.
	assert.False(t, firstDone.UpdatedAt.After(secondDone.UpdatedAt))
}

func TestWorker_RunStopsOnContextCancel(t *testing.T) {
	store := NewStore()
	pipe := pipeline.New(pdf.NewService(1024*1024), stubBackend{})

	worker := NewWorker(store, pipe)
	worker.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
