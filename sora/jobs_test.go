package sora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashedtalukder/gosora/types"
)

func TestCreateJob_WirePayload(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/openai/v1/video/generations/jobs", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.Job{ID: "task_01", Status: types.JobStatusQueued})
	}))

	job, err := client.CreateJob(context.Background(), types.GenerationRequest{
		Prompt:   "a red fox at dawn",
		Width:    1080,
		Height:   1080,
		Duration: 5,
		Variants: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "task_01", job.ID)
	assert.False(t, job.Status.IsTerminal())

	// Numeric fields cross the wire as strings, under the service's names.
	assert.Equal(t, map[string]any{
		"model":      "sora-deploy",
		"prompt":     "a red fox at dawn",
		"height":     "1080",
		"width":      "1080",
		"n_seconds":  "5",
		"n_variants": "1",
	}, captured)
}

func TestCreateJob_ValidationNeverReachesNetwork(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.CreateJob(context.Background(), types.GenerationRequest{
		Prompt: "p", Width: 640, Height: 360, Duration: 5, Variants: 1,
	})
	require.Error(t, err)
	assert.Zero(t, calls.Load())

	// The failure surfaces as the uniform client error carrying the
	// validation message, with the validation error still unwrappable.
	var clientErr *types.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Contains(t, clientErr.Message, "invalid request parameters")
	assert.Contains(t, clientErr.Message, "640x360")
	assert.Contains(t, clientErr.Details, "validation_error")

	var verr *types.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateJob_RemoteError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "deployment does not support video"}}`)
	}))

	_, err := client.CreateJob(context.Background(), types.GenerationRequest{
		Prompt: "p", Width: 480, Height: 480, Duration: 5, Variants: 2,
	})
	require.Error(t, err)

	var clientErr *types.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Equal(t, "deployment does not support video", clientErr.Message)
}

func TestListJobs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/video/generations/jobs", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "preview", r.URL.Query().Get("api-version"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [{"id": "a", "status": "running"}], "has_more": false,
			"first_id": "a", "last_id": "a"}`)
	}))

	list, err := client.ListJobs(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "a", list.FirstID)
}

func TestGetGeneration(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/video/generations/gen_01", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "gen_01", "job_id": "task_01", "created_at": 1735689500,
			"width": 1280, "height": 720, "n_seconds": 5, "prompt": "p"}`)
	}))

	gen, err := client.GetGeneration(context.Background(), "gen_01")
	require.NoError(t, err)
	assert.Equal(t, "task_01", gen.JobID)
	assert.Equal(t, 720, gen.Height)
}

func TestDeleteJob_NoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.DeleteJob(context.Background(), "task_01"))
}

func TestDeleteJob_Twice(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"message": "job not found"}}`)
	}))

	require.NoError(t, client.DeleteJob(context.Background(), "task_01"))

	err := client.DeleteJob(context.Background(), "task_01")
	require.Error(t, err)
	var clientErr *types.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
	assert.Equal(t, "job not found", clientErr.Message)
}

// pollSequence serves one job snapshot per fetch, holding the last one.
func pollSequence(fetches *atomic.Int32, snapshots ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(fetches.Add(1))
		if n > len(snapshots) {
			n = len(snapshots)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, snapshots[n-1])
	})
}

func TestPollUntilTerminal_Succeeded(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, pollSequence(&fetches,
		`{"id": "task_01", "status": "queued", "generations": []}`,
		`{"id": "task_01", "status": "running", "generations": []}`,
		`{"id": "task_01", "status": "succeeded", "generations": [
			{"id": "gen_01", "job_id": "task_01", "width": 480, "height": 480, "n_seconds": 5}]}`,
	))

	job, gens, err := client.PollUntilTerminal(context.Background(), "task_01", time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusSucceeded, job.Status)
	require.Len(t, gens, 1)
	assert.Equal(t, "gen_01", gens[0].ID)
	assert.Equal(t, int32(3), fetches.Load())
}

func TestPollUntilTerminal_FailedCarriesReason(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, pollSequence(&fetches,
		`{"id": "task_01", "status": "failed", "failure_reason": "quota exceeded"}`,
	))

	_, _, err := client.PollUntilTerminal(context.Background(), "task_01", time.Millisecond, 0)
	require.Error(t, err)

	var clientErr *types.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Contains(t, clientErr.Message, "quota exceeded")
}

func TestPollUntilTerminal_CancelledReturnsEmptyGenerations(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, pollSequence(&fetches,
		`{"id": "task_01", "status": "cancelled", "generations": []}`,
	))

	job, gens, err := client.PollUntilTerminal(context.Background(), "task_01", time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusCancelled, job.Status)
	assert.Empty(t, gens)
	assert.NotNil(t, gens)
}

func TestPollUntilTerminal_TimeoutAfterExactlyMaxPolls(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, pollSequence(&fetches,
		`{"id": "task_01", "status": "running", "generations": []}`,
	))

	_, _, err := client.PollUntilTerminal(context.Background(), "task_01", time.Millisecond, 2)
	require.Error(t, err)
	assert.Equal(t, int32(2), fetches.Load())

	// The timeout is its own type, never the uniform client error.
	var timeoutErr *types.PollTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 2, timeoutErr.MaxPolls)

	var clientErr *types.Error
	assert.False(t, errors.As(err, &clientErr))
}

func TestPollUntilTerminal_ContextCancelled(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, pollSequence(&fetches,
		`{"id": "task_01", "status": "running", "generations": []}`,
	))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := client.PollUntilTerminal(ctx, "task_01", time.Hour, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
