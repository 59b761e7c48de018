package sqsstatus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/vvatanabe/sqsstatus/internal/constant"
)

// FailureMode decides what Gather does when fetching a single queue fails.
type FailureMode int

const (
	// FailureModeFailFast fails the whole gather with the first observed fetch error.
	FailureModeFailFast FailureMode = iota
	// FailureModeSkip logs the failed queue and leaves it out of the result.
	FailureModeSkip
)

func (m FailureMode) String() string {
	switch m {
	case FailureModeFailFast:
		return "fail-fast"
	case FailureModeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// FetchFunc retrieves the status of the queue with the given URL.
type FetchFunc func(ctx context.Context, queueURL string) (QueueStatus, error)

// GatherOptions configures Gather.
type GatherOptions struct {
	// Concurrency is the maximum number of fetches in flight. Zero means constant.DefaultConcurrency.
	Concurrency int
	// FailureMode defaults to FailureModeFailFast.
	FailureMode FailureMode
	// Logger receives a warning for every skipped queue. Nil discards.
	Logger *slog.Logger
}

type outcome struct {
	queueURL string
	status   QueueStatus
	err      error
}

// Gather calls fetch once for every queue URL, with at most Concurrency calls in flight.
// Outcomes are collected in completion order, so the order of the result is unspecified.
// In FailureModeFailFast any failure fails the whole gather and all results are discarded.
// Fetches already in flight are not cancelled.
func Gather(ctx context.Context, queueURLs []string, fetch FetchFunc, o GatherOptions) ([]QueueStatus, error) {
	if o.Concurrency == 0 {
		o.Concurrency = constant.DefaultConcurrency
	}
	if o.Concurrency < 0 {
		return nil, InvalidConcurrencyError{Concurrency: o.Concurrency}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	statuses := make([]QueueStatus, 0, len(queueURLs))
	if len(queueURLs) == 0 {
		return statuses, nil
	}

	workers := min(o.Concurrency, len(queueURLs))
	urlChan := make(chan string)
	outcomeChan := make(chan outcome, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for queueURL := range urlChan {
				status, err := fetch(ctx, queueURL)
				outcomeChan <- outcome{queueURL: queueURL, status: status, err: err}
			}
		}()
	}
	go func() {
		defer close(urlChan)
		for _, queueURL := range queueURLs {
			urlChan <- queueURL
		}
	}()
	go func() {
		wg.Wait()
		close(outcomeChan)
	}()

	var firstErr error
	for oc := range outcomeChan {
		if oc.err == nil {
			statuses = append(statuses, oc.status)
			continue
		}
		err := asFetchError(oc.queueURL, oc.err)
		switch o.FailureMode {
		case FailureModeSkip:
			o.Logger.WarnContext(ctx, "skipping queue", slog.String("queue_url", oc.queueURL), slog.Any("error", err))
		default:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return statuses, nil
}

func asFetchError(queueURL string, err error) error {
	var fetchErr FetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return FetchError{QueueURL: queueURL, Cause: err}
}
