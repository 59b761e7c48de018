package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/vvatanabe/sqsstatus"
	"github.com/vvatanabe/sqsstatus/internal/constant"
)

func createSQSStatusClient(ctx context.Context, flags *Flags, logger *slog.Logger) (sqsstatus.Client, aws.Config, error) {
	cfg, err := loadAWSConfig(ctx, flags)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	logger.DebugContext(ctx, "loaded aws config", slog.String("region", cfg.Region), slog.String("profile", flags.Profile))
	client, err := newSQSStatusClient(cfg, flags, logger)
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

func newSQSStatusClient(cfg aws.Config, flags *Flags, logger *slog.Logger, optFns ...func(*sqsstatus.ClientOptions)) (sqsstatus.Client, error) {
	failureMode := sqsstatus.FailureModeFailFast
	if flags.SkipErrors {
		failureMode = sqsstatus.FailureModeSkip
	}
	client, err := sqsstatus.NewFromConfig(cfg, append([]func(*sqsstatus.ClientOptions){
		sqsstatus.WithAWSBaseEndpoint(flags.EndpointURL),
		sqsstatus.WithConcurrency(flags.Concurrency),
		sqsstatus.WithFailureMode(failureMode),
		sqsstatus.WithQueueNamePrefix(flags.QueueNamePrefix),
		sqsstatus.WithLogger(logger),
	}, optFns...)...)
	if err != nil {
		return nil, fmt.Errorf("SQS client could not be created: %w", err)
	}
	return client, nil
}

func loadAWSConfig(ctx context.Context, flags *Flags) (aws.Config, error) {
	var optFns []func(*config.LoadOptions) error
	if flags.Profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(flags.Profile))
	}
	if flags.Region != "" {
		optFns = append(optFns, config.WithRegion(flags.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return cfg, err
	}
	cfg.Credentials = withLoadTimeout(cfg.Credentials, constant.DefaultCredentialsLoadTimeout)
	return cfg, nil
}

// loadTimeoutProvider bounds every credential retrieval, such as an SSO or IMDS round trip.
type loadTimeoutProvider struct {
	provider aws.CredentialsProvider
	timeout  time.Duration
}

func withLoadTimeout(provider aws.CredentialsProvider, timeout time.Duration) aws.CredentialsProvider {
	if provider == nil {
		return nil
	}
	return &loadTimeoutProvider{provider: provider, timeout: timeout}
}

func (p *loadTimeoutProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.provider.Retrieve(ctx)
}
