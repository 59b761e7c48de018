package sqsstatus

import "fmt"

// DirectoryError is returned when the list of queues could not be retrieved.
type DirectoryError struct {
	Cause error
}

func (e DirectoryError) Error() string {
	return fmt.Sprintf("Failed to list SQS queues: %v.", e.Cause)
}

func (e DirectoryError) Unwrap() error {
	return e.Cause
}

// FetchError is returned when the attributes of a single queue could not be retrieved.
type FetchError struct {
	QueueURL string
	Cause    error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("Failed to get attributes of SQS queue %s: %v.", e.QueueURL, e.Cause)
}

func (e FetchError) Unwrap() error {
	return e.Cause
}

type InvalidConcurrencyError struct {
	Concurrency int
}

func (e InvalidConcurrencyError) Error() string {
	return fmt.Sprintf("Concurrency must be at least 1, got %d.", e.Concurrency)
}
