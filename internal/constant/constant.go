package constant

import "time"

const (
	DefaultConcurrency            = 256
	DefaultListQueuesMaxResults   = 1000
	DefaultRetryMaxAttempts       = 3
	DefaultCredentialsLoadTimeout = 90 * time.Second
	DefaultLogLevel               = "warn"
	LogLevelEnv                   = "SQS_STATUS_LOG"
)
