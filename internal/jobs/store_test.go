package jobs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-translator/internal/pipeline"
)

func testRequest(input string) pipeline.Request {
	return pipeline.Request{
		InputPath:      input,
		OutputPath:     input + ".out.pdf",
		SourceLanguage: "English",
		TargetLanguage: "Western Persian",
		FontPath:       "/tmp/font.ttf",
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()

	job := store.Create(testRequest("/tmp/a.pdf"))

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "/tmp/a.pdf", job.Request.InputPath)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("no-such-id")
	assert.False(t, ok)
}

func TestStore_ListKeepsCreationOrder(t *testing.T) {
	store := NewStore()

	var ids []string
	for i := 0; i < 5; i++ {
		job := store.Create(testRequest(fmt.Sprintf("/tmp/%d.pdf", i)))
		ids = append(ids, job.ID)
	}

	listed := store.List()
	require.Len(t, listed, 5)
	for i, job := range listed {
		assert.Equal(t, ids[i], job.ID)
	}
}

func TestStore_NextPendingClaimsOldestFirst(t *testing.T) {
	store := NewStore()

	first := store.Create(testRequest("/tmp/first.pdf"))
	second := store.Create(testRequest("/tmp/second.pdf"))

	claimed, ok := store.NextPending()
	require.True(t, ok)
	assert.Equal(t, first.ID, claimed.ID)
	assert.Equal(t, StatusRunning, claimed.Status)

	// The claim is visible through Get.
	got, _ := store.Get(first.ID)
	assert.Equal(t, StatusRunning, got.Status)

	claimed, ok = store.NextPending()
	require.True(t, ok)
	assert.Equal(t, second.ID, claimed.ID)

	_, ok = store.NextPending()
	assert.False(t, ok, "no pending jobs remain")
}

func TestStore_MarkDone(t *testing.T) {
	store := NewStore()
	job := store.Create(testRequest("/tmp/a.pdf"))
	store.NextPending()

	result := &pipeline.Result{OutputPath: "/tmp/a.out.pdf", Pages: 3, TranslatedCount: 7}
	require.NoError(t, store.MarkDone(job.ID, result))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusDone, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "/tmp/a.out.pdf", got.Result.OutputPath)
	assert.Empty(t, got.Error)
	assert.Empty(t, got.FailedStage)
}

func TestStore_MarkFailed(t *testing.T) {
	store := NewStore()
	job := store.Create(testRequest("/tmp/a.pdf"))
	store.NextPending()

	cause := fmt.Errorf("backend unreachable")
	require.NoError(t, store.MarkFailed(job.ID, pipeline.StageTranslating, cause))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, pipeline.StageTranslating, got.FailedStage)
	assert.Equal(t, "backend unreachable", got.Error)
	assert.Nil(t, got.Result)
}

func TestStore_MarkUnknownJob(t *testing.T) {
	store := NewStore()

	assert.Error(t, store.MarkDone("no-such-id", &pipeline.Result{}))
	assert.Error(t, store.MarkFailed("no-such-id", pipeline.StageExtracting, fmt.Errorf("x")))
}

func TestStore_SnapshotsAreDetached(t *testing.T) {
	store := NewStore()
	job := store.Create(testRequest("/tmp/a.pdf"))

	// Mutating a returned snapshot must not affect stored state.
	snapshot, _ := store.Get(job.ID)
	snapshot.Status = StatusFailed
	snapshot.Error = "locally scribbled"

	got, _ := store.Get(job.ID)
	assert.Equal(t, StatusPending, got.Status)
	assert.Empty(t, got.Error)
}
