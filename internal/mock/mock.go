package mock

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

var ErrNotImplemented = errors.New("not implemented")

type SQS struct {
	ListQueuesFunc         func(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error)
	GetQueueAttributesFunc func(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

func (m SQS) ListQueues(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error) {
	if m.ListQueuesFunc != nil {
		return m.ListQueuesFunc(ctx, params, optFns...)
	}
	return nil, ErrNotImplemented
}

func (m SQS) GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	if m.GetQueueAttributesFunc != nil {
		return m.GetQueueAttributesFunc(ctx, params, optFns...)
	}
	return nil, ErrNotImplemented
}

// Pages returns a ListQueuesFunc serving the given pages in order, linked by NextToken.
func Pages(pages ...[]string) func(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error) {
	return func(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error) {
		i := 0
		if params.NextToken != nil {
			i = len(pages)
			for j := range pages {
				if pageToken(j) == *params.NextToken {
					i = j
					break
				}
			}
		}
		if i >= len(pages) {
			return &sqs.ListQueuesOutput{}, nil
		}
		out := &sqs.ListQueuesOutput{QueueUrls: pages[i]}
		if i+1 < len(pages) {
			next := pageToken(i + 1)
			out.NextToken = &next
		}
		return out, nil
	}
}

func pageToken(i int) string {
	return "page-" + strconv.Itoa(i)
}

// Attributes returns a GetQueueAttributesFunc answering from a map keyed by queue URL.
// Unknown queues get an empty attribute map.
func Attributes(byURL map[string]map[string]string) func(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	return func(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
		return &sqs.GetQueueAttributesOutput{Attributes: byURL[*params.QueueUrl]}, nil
	}
}

type Clock struct {
	T time.Time
}

func (m Clock) Now() time.Time {
	return m.T
}
