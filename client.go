package sqsstatus

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/vvatanabe/sqsstatus/internal/constant"
)

// statusAttributeNames are the attributes requested for every queue.
// RedriveAllowPolicy is fetched alongside RedrivePolicy but not used for the report.
var statusAttributeNames = []types.QueueAttributeName{
	types.QueueAttributeNameApproximateNumberOfMessages,
	types.QueueAttributeNameApproximateNumberOfMessagesDelayed,
	types.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
	types.QueueAttributeNameRedriveAllowPolicy,
	types.QueueAttributeNameRedrivePolicy,
}

// SQSAPI is the subset of the Amazon SQS API used by the client. *sqs.Client satisfies it.
type SQSAPI interface {
	sqs.ListQueuesAPIClient
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// Client reports the status of Amazon SQS queues.
type Client interface {
	// ListQueueURLs lists the URLs of all queues visible to the caller, following every page.
	ListQueueURLs(ctx context.Context, params *ListQueueURLsInput) (*ListQueueURLsOutput, error)
	// GetQueueStatus retrieves the message counters and the dead-letter queue of a single queue.
	GetQueueStatus(ctx context.Context, params *GetQueueStatusInput) (*GetQueueStatusOutput, error)
	// GatherQueueStatuses retrieves the status of many queues concurrently.
	GatherQueueStatuses(ctx context.Context, params *GatherQueueStatusesInput) (*GatherQueueStatusesOutput, error)
}

// ClientOptions defines configuration options for the client.
type ClientOptions struct {
	// SQS is the SQS API used for all requests. When nil, one is built from the AWS config.
	SQS SQSAPI
	// BaseEndpoint is the base endpoint URL for SQS requests.
	BaseEndpoint string
	// RetryMaxAttempts is the maximum number of attempts for a failed SQS request.
	RetryMaxAttempts int
	// Concurrency is the maximum number of GetQueueAttributes requests in flight.
	Concurrency int
	// FailureMode decides how GatherQueueStatuses handles a failed queue.
	FailureMode FailureMode
	// QueueNamePrefix restricts listing to queues whose name starts with it.
	QueueNamePrefix string
	// Logger receives debug and warning messages.
	Logger *slog.Logger
}

// WithAWSSQSClient sets a pre-configured SQS API. BaseEndpoint and RetryMaxAttempts are then ignored.
func WithAWSSQSClient(client SQSAPI) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.SQS = client
	}
}

// WithAWSBaseEndpoint sets a custom base endpoint, such as a local ElasticMQ or LocalStack.
func WithAWSBaseEndpoint(baseEndpoint string) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.BaseEndpoint = baseEndpoint
	}
}

// WithAWSRetryMaxAttempts sets the maximum number of attempts for a failed SQS request.
func WithAWSRetryMaxAttempts(retryMaxAttempts int) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.RetryMaxAttempts = retryMaxAttempts
	}
}

// WithConcurrency sets the maximum number of GetQueueAttributes requests in flight.
// By default, it is 256.
func WithConcurrency(concurrency int) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.Concurrency = concurrency
	}
}

// WithFailureMode sets how a failed queue is handled while gathering.
// By default, the first failure fails the whole gather.
func WithFailureMode(mode FailureMode) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.FailureMode = mode
	}
}

// WithQueueNamePrefix restricts listing to queues whose name starts with prefix.
func WithQueueNamePrefix(prefix string) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.QueueNamePrefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.Logger = logger
	}
}

// NewFromConfig creates a new client using the provided AWS configuration and client options.
func NewFromConfig(cfg aws.Config, optFns ...func(*ClientOptions)) (Client, error) {
	o := &ClientOptions{
		RetryMaxAttempts: constant.DefaultRetryMaxAttempts,
		Concurrency:      constant.DefaultConcurrency,
		FailureMode:      FailureModeFailFast,
	}
	for _, opt := range optFns {
		opt(o)
	}
	if o.Concurrency < 1 {
		return nil, InvalidConcurrencyError{Concurrency: o.Concurrency}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &ClientImpl{
		sqs:             o.SQS,
		concurrency:     o.Concurrency,
		failureMode:     o.FailureMode,
		queueNamePrefix: o.QueueNamePrefix,
		logger:          o.Logger,
	}
	if c.sqs != nil {
		return c, nil
	}
	c.sqs = sqs.NewFromConfig(cfg, func(options *sqs.Options) {
		options.RetryMaxAttempts = o.RetryMaxAttempts
		if o.BaseEndpoint != "" {
			options.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
	})
	return c, nil
}

// ClientImpl is the concrete implementation of Client.
// Always use NewFromConfig to create an instance.
type ClientImpl struct {
	sqs             SQSAPI
	concurrency     int
	failureMode     FailureMode
	queueNamePrefix string
	logger          *slog.Logger
}

type ListQueueURLsInput struct{}

type ListQueueURLsOutput struct {
	// QueueURLs are in the order SQS reported them.
	QueueURLs []string
}

// ListQueueURLs pages through ListQueues until no NextToken is returned.
// Listing is all or nothing: a failed page returns a DirectoryError and no URLs.
func (c *ClientImpl) ListQueueURLs(ctx context.Context, _ *ListQueueURLsInput) (*ListQueueURLsOutput, error) {
	in := &sqs.ListQueuesInput{
		// NextToken is only returned when MaxResults is set.
		MaxResults: aws.Int32(constant.DefaultListQueuesMaxResults),
	}
	if c.queueNamePrefix != "" {
		in.QueueNamePrefix = aws.String(c.queueNamePrefix)
	}
	queueURLs := make([]string, 0)
	paginator := sqs.NewListQueuesPaginator(c.sqs, in)
	for page := 1; paginator.HasMorePages(); page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return &ListQueueURLsOutput{}, DirectoryError{Cause: err}
		}
		c.logger.DebugContext(ctx, "listed queues", slog.Int("page", page), slog.Int("count", len(out.QueueUrls)))
		queueURLs = append(queueURLs, out.QueueUrls...)
	}
	return &ListQueueURLsOutput{QueueURLs: queueURLs}, nil
}

type GetQueueStatusInput struct {
	QueueURL string
}

type GetQueueStatusOutput struct {
	Status QueueStatus
}

// GetQueueStatus sends a single GetQueueAttributes request.
// Attributes SQS leaves out count as "0", and an unreadable RedrivePolicy means no dead-letter queue.
// Only a failed request returns an error, wrapped in FetchError.
func (c *ClientImpl) GetQueueStatus(ctx context.Context, params *GetQueueStatusInput) (*GetQueueStatusOutput, error) {
	if params == nil {
		params = &GetQueueStatusInput{}
	}
	out, err := c.sqs.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(params.QueueURL),
		AttributeNames: statusAttributeNames,
	})
	if err != nil {
		return &GetQueueStatusOutput{}, FetchError{QueueURL: params.QueueURL, Cause: err}
	}
	c.logger.DebugContext(ctx, "got queue attributes", slog.String("queue_url", params.QueueURL), slog.Any("attributes", out.Attributes))
	return &GetQueueStatusOutput{
		Status: newQueueStatus(params.QueueURL, out.Attributes),
	}, nil
}

func newQueueStatus(queueURL string, attributes map[string]string) QueueStatus {
	count := func(name types.QueueAttributeName) string {
		if v, ok := attributes[string(name)]; ok {
			return v
		}
		return zeroCount
	}
	var redrivePolicy *string
	if v, ok := attributes[string(types.QueueAttributeNameRedrivePolicy)]; ok {
		redrivePolicy = aws.String(v)
	}
	return QueueStatus{
		URL:                 queueURL,
		Available:           count(types.QueueAttributeNameApproximateNumberOfMessages),
		Delayed:             count(types.QueueAttributeNameApproximateNumberOfMessagesDelayed),
		NotVisible:          count(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible),
		DeadLetterQueueName: DeadLetterQueueName(redrivePolicy),
	}
}

type GatherQueueStatusesInput struct {
	QueueURLs []string
}

type GatherQueueStatusesOutput struct {
	// Statuses are in completion order.
	Statuses []QueueStatus
}

// GatherQueueStatuses calls GetQueueStatus for every URL using the client's concurrency and failure mode.
func (c *ClientImpl) GatherQueueStatuses(ctx context.Context, params *GatherQueueStatusesInput) (*GatherQueueStatusesOutput, error) {
	if params == nil {
		params = &GatherQueueStatusesInput{}
	}
	statuses, err := Gather(ctx, params.QueueURLs, func(ctx context.Context, queueURL string) (QueueStatus, error) {
		out, err := c.GetQueueStatus(ctx, &GetQueueStatusInput{QueueURL: queueURL})
		if err != nil {
			return QueueStatus{}, err
		}
		return out.Status, nil
	}, GatherOptions{
		Concurrency: c.concurrency,
		FailureMode: c.failureMode,
		Logger:      c.logger,
	})
	if err != nil {
		return &GatherQueueStatusesOutput{}, err
	}
	return &GatherQueueStatusesOutput{Statuses: statuses}, nil
}
