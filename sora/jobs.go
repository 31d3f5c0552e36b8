package sora

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rashedtalukder/gosora/types"
	"github.com/rashedtalukder/gosora/validation"
)

// createJobPayload is the wire shape of a job submission. The service expects
// the numeric fields as strings, and duration/variants under their n_ names.
type createJobPayload struct {
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	Height   string `json:"height"`
	Width    string `json:"width"`
	Seconds  string `json:"n_seconds"`
	Variants string `json:"n_variants"`
}

// CreateJob validates the request and submits it as a new generation job.
// The returned job is in a non-terminal state. A constraint violation is
// reported as a *types.Error carrying the validation message; the underlying
// *types.ValidationError stays reachable through errors.As.
func (c *Client) CreateJob(ctx context.Context, req types.GenerationRequest) (*types.Job, error) {
	if err := validation.ValidateRequest(req); err != nil {
		c.logger.Error("request validation failed", zap.Error(err))
		return nil, types.NewError(fmt.Sprintf("invalid request parameters: %v", err)).
			WithDetails(map[string]any{"validation_error": err.Error()}).
			WithCause(err)
	}

	payload := createJobPayload{
		Model:    c.cfg.Deployment,
		Prompt:   req.Prompt,
		Height:   strconv.Itoa(req.Height),
		Width:    strconv.Itoa(req.Width),
		Seconds:  strconv.Itoa(req.Duration),
		Variants: strconv.Itoa(req.Variants),
	}

	c.logger.Info("creating video generation job",
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Int("duration", req.Duration),
		zap.Int("variants", req.Variants))

	var job types.Job
	if err := c.doJSON(ctx, "create_job", http.MethodPost, c.buildURL("jobs", nil), payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches the current snapshot of a job. Always a live re-query; the
// client caches nothing.
func (c *Client) GetJob(ctx context.Context, jobID string) (*types.Job, error) {
	var job types.Job
	if err := c.doJSON(ctx, "get_job", http.MethodGet, c.buildURL("jobs/"+jobID, nil), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetGeneration fetches a single generation record.
func (c *Client) GetGeneration(ctx context.Context, generationID string) (*types.Generation, error) {
	var gen types.Generation
	if err := c.doJSON(ctx, "get_generation", http.MethodGet, c.buildURL(generationID, nil), nil, &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}

// ListJobs returns up to limit job summaries.
func (c *Client) ListJobs(ctx context.Context, limit int) (*types.JobList, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var list types.JobList
	if err := c.doJSON(ctx, "list_jobs", http.MethodGet, c.buildURL("jobs", params), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteJob deletes a job. 204 and every other 2xx count as success, so a
// repeated delete of an already-gone job never crashes the caller. Retrieve
// any wanted generation content before deleting: deletion may invalidate
// server-side references to the job's generations.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	return c.doJSON(ctx, "delete_job", http.MethodDelete, c.buildURL("jobs/"+jobID, nil), nil, nil)
}

// PollUntilTerminal fetches the job every interval until it reaches a
// terminal state. maxPolls bounds the number of fetches; maxPolls <= 0 polls
// until the context is done.
//
// On SUCCEEDED it returns the job and its generations. On FAILED it returns a
// *types.Error whose message carries the failure reason. On CANCELLED it
// returns the job with an empty generation list; callers must inspect the
// status. Exhausting maxPolls returns a *types.PollTimeoutError, which is
// distinct from *types.Error.
func (c *Client) PollUntilTerminal(ctx context.Context, jobID string, interval time.Duration, maxPolls int) (*types.Job, []types.Generation, error) {
	polls := 0
	for maxPolls <= 0 || polls < maxPolls {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, nil, err
		}
		if c.metrics != nil {
			c.metrics.observePoll()
		}

		if job.Status.IsTerminal() {
			c.logger.Info("job reached terminal state",
				zap.String("job_id", jobID),
				zap.String("status", string(job.Status)))

			if job.Status == types.JobStatusFailed {
				return nil, nil, types.NewError(
					fmt.Sprintf("job failed with reason: %s", job.FailureReason))
			}
			if job.Status == types.JobStatusCancelled {
				return job, []types.Generation{}, nil
			}
			return job, job.Generations, nil
		}

		c.logger.Debug("job not terminal yet",
			zap.String("job_id", jobID),
			zap.String("status", string(job.Status)),
			zap.Duration("interval", interval))

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, ctx.Err()
		case <-timer.C:
		}
		polls++
	}

	return nil, nil, &types.PollTimeoutError{JobID: jobID, MaxPolls: maxPolls}
}
