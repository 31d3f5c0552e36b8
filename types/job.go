package types

import "time"

// JobStatus represents the lifecycle state of a video generation job as
// reported by the remote service.
type JobStatus string

const (
	JobStatusPreprocessing JobStatus = "preprocessing"
	JobStatusQueued        JobStatus = "queued"
	JobStatusProcessing    JobStatus = "processing"
	JobStatusRunning       JobStatus = "running"
	JobStatusCancelled     JobStatus = "cancelled"
	JobStatusSucceeded     JobStatus = "succeeded"
	JobStatusFailed        JobStatus = "failed"
)

// IsTerminal reports whether no further status transition can occur.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// FailureReason values the service is known to emit. The field stays an open
// string so unrecognized reasons pass through untouched.
type FailureReason string

const (
	FailureInputModeration FailureReason = "input_moderation"
	FailureInternalError   FailureReason = "internal_error"
)

// GenerationRequest holds the parameters for a new video generation job.
// It is validated as a whole before submission and never mutated afterwards.
type GenerationRequest struct {
	Prompt   string `json:"prompt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Duration int    `json:"n_seconds"`  // seconds
	Variants int    `json:"n_variants"` // number of variants to generate
}

// Generation is one produced media variant belonging to a succeeded job.
type Generation struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	CreatedAt int64  `json:"created_at"` // unix seconds
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  int    `json:"n_seconds"`
	Prompt    string `json:"prompt"`
}

// CreatedTime converts the unix timestamp to a time.Time.
func (g Generation) CreatedTime() time.Time {
	return time.Unix(g.CreatedAt, 0)
}

// Job is a point-in-time snapshot of a server-tracked generation job. The
// remote service is the source of truth; a Job is always safe to discard and
// re-fetch.
type Job struct {
	ID            string        `json:"id"`
	Status        JobStatus     `json:"status"`
	Prompt        string        `json:"prompt"`
	Variants      int           `json:"n_variants"`
	Duration      int           `json:"n_seconds"`
	Height        int           `json:"height"`
	Width         int           `json:"width"`
	Generations   []Generation  `json:"generations"`
	FinishedAt    int64         `json:"finished_at,omitempty"` // unix seconds
	FailureReason FailureReason `json:"failure_reason,omitempty"`
}

// FinishedTime converts the completion timestamp to a time.Time, or the zero
// time when the job has not finished.
func (j Job) FinishedTime() time.Time {
	if j.FinishedAt == 0 {
		return time.Time{}
	}
	return time.Unix(j.FinishedAt, 0)
}

// JobList is a read-only snapshot of job summaries.
type JobList struct {
	Data    []Job  `json:"data"`
	HasMore bool   `json:"has_more"`
	FirstID string `json:"first_id"`
	LastID  string `json:"last_id"`
}
