package slideua

import "errors"

var (
	// ErrNoInput is returned when a job has neither a file name nor data.
	ErrNoInput = errors.New("no input presentation")

	// ErrCancelled is returned when the job's context ends before the job
	// finishes. The returned error also matches the context's error.
	ErrCancelled = errors.New("conversion cancelled")
)
