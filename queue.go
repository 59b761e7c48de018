package sqsstatus

import (
	"encoding/json"
	"errors"
	"strings"
)

const zeroCount = "0"

// QueueStatus is the observed status of a single SQS queue.
// The counters are the approximate values reported by SQS, kept as the decimal strings SQS returns.
type QueueStatus struct {
	// URL is the queue URL as returned by ListQueues.
	URL string `json:"url"`
	// Available is ApproximateNumberOfMessages.
	Available string `json:"available"`
	// Delayed is ApproximateNumberOfMessagesDelayed.
	Delayed string `json:"delayed"`
	// NotVisible is ApproximateNumberOfMessagesNotVisible.
	NotVisible string `json:"not_visible"`
	// DeadLetterQueueName is the name of the queue this queue redrives failed messages into, or empty.
	DeadLetterQueueName string `json:"dead_letter_queue_name"`
}

// Name returns the last path segment of the queue URL.
func (s QueueStatus) Name() string {
	return lastSegment(s.URL, "/")
}

// HasInFlightMessages reports whether any of the counters is non-zero.
func (s QueueStatus) HasInFlightMessages() bool {
	return s.Available != zeroCount || s.Delayed != zeroCount || s.NotVisible != zeroCount
}

func (s QueueStatus) compare(o QueueStatus) int {
	for _, p := range [][2]string{
		{s.URL, o.URL},
		{s.Available, o.Available},
		{s.Delayed, o.Delayed},
		{s.NotVisible, o.NotVisible},
		{s.DeadLetterQueueName, o.DeadLetterQueueName},
	} {
		if c := strings.Compare(p[0], p[1]); c != 0 {
			return c
		}
	}
	return 0
}

var errMissingDeadLetterTargetArn = errors.New("deadLetterTargetArn is missing")

// RedrivePolicy is the JSON document held in the RedrivePolicy queue attribute.
type RedrivePolicy struct {
	DeadLetterTargetArn string
}

// UnmarshalJSON accepts the target ARN under either "deadLetterTargetArn" or "dead_letter_target_arn".
func (p *RedrivePolicy) UnmarshalJSON(b []byte) error {
	var raw struct {
		DeadLetterTargetArn      *string `json:"deadLetterTargetArn"`
		DeadLetterTargetArnSnake *string `json:"dead_letter_target_arn"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.DeadLetterTargetArn != nil:
		p.DeadLetterTargetArn = *raw.DeadLetterTargetArn
	case raw.DeadLetterTargetArnSnake != nil:
		p.DeadLetterTargetArn = *raw.DeadLetterTargetArnSnake
	default:
		return errMissingDeadLetterTargetArn
	}
	return nil
}

// DeadLetterQueueName extracts the dead-letter queue name from a raw RedrivePolicy attribute.
// It never fails: an absent, malformed or incomplete policy yields an empty string.
func DeadLetterQueueName(raw *string) string {
	if raw == nil {
		return ""
	}
	var policy RedrivePolicy
	if err := json.Unmarshal([]byte(*raw), &policy); err != nil {
		return ""
	}
	return lastSegment(policy.DeadLetterTargetArn, ":")
}

func lastSegment(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s
	}
	return s[i+len(sep):]
}
