package domain

// JobKind distinguishes the two background job flavors.
type JobKind string

const (
	JobKindBatch   JobKind = "batch"
	JobKindSummary JobKind = "summary"
)

// JobStatus represents the lifecycle of a background job.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)
