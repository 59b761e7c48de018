package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vvatanabe/sqsstatus"
	"github.com/vvatanabe/sqsstatus/internal/clock"
	"github.com/vvatanabe/sqsstatus/internal/constant"
)

var version = "dev"

type CommandFactory struct {
	CreateSQSStatusClient func(ctx context.Context, flags *Flags, logger *slog.Logger) (sqsstatus.Client, aws.Config, error)
	Stdout                io.Writer
	Stderr                io.Writer
	Clock                 clock.Clock
	// IsTerminal reports whether Stdout supports bold and italic output.
	IsTerminal func() bool
}

var defaultCommandFactory = CommandFactory{
	CreateSQSStatusClient: createSQSStatusClient,
	Stdout:                os.Stdout,
	Stderr:                os.Stderr,
	Clock:                 clock.RealClock{},
	IsTerminal: func() bool {
		return !color.NoColor
	},
}

var root = defaultCommandFactory.CreateRootCommand(flgs)

func (f CommandFactory) CreateRootCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "sqs-status",
		Short: "List the status of AWS SQS queues",
		Long: `List the status of AWS SQS queues.

For every queue the approximate number of available, delayed and not visible
messages is printed. Queues that another queue redrives failed messages into
are printed in italic. Only queues with in flight messages are listed unless
--all is given.

Set --log-level or the ` + constant.LogLevelEnv + ` environment variable to adjust logging,
for example ` + constant.LogLevelEnv + `=debug sqs-status.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flgs.Config != "" {
				fileConfig, err := loadFileConfig(flgs.Config)
				if err != nil {
					return err
				}
				fileConfig.apply(flgs, cmd.Flags().Changed)
			}
			if flgs.Output == "" {
				flgs.Output = outputText
			}
			if flgs.Output != outputText && flgs.Output != outputJSON {
				return fmt.Errorf("unknown output format %q, must be %s or %s", flgs.Output, outputText, outputJSON)
			}
			logger, err := newLogger(f.stderr(), flgs.LogLevel)
			if err != nil {
				return err
			}
			return f.run(context.Background(), flgs, logger)
		},
	}
}

func (f CommandFactory) run(ctx context.Context, flgs *Flags, logger *slog.Logger) error {
	client, _, err := f.CreateSQSStatusClient(ctx, flgs, logger)
	if err != nil {
		return err
	}
	listed, err := client.ListQueueURLs(ctx, &sqsstatus.ListQueueURLsInput{})
	if err != nil {
		return err
	}
	stdout := f.stdout()
	queueCount := len(listed.QueueURLs)
	if queueCount == 0 {
		if flgs.Output == outputJSON {
			return printStatusJSON(stdout, 0, nil)
		}
		_, err = fmt.Fprintln(stdout, "No SQS queues found")
		return err
	}
	if flgs.Output == outputText {
		if _, err = fmt.Fprintf(stdout, "Found %d SQS queues\n", queueCount); err != nil {
			return err
		}
	}

	gathered, err := client.GatherQueueStatuses(ctx, &sqsstatus.GatherQueueStatusesInput{QueueURLs: listed.QueueURLs})
	if err != nil {
		return err
	}
	if skipped := queueCount - len(gathered.Statuses); skipped > 0 {
		fmt.Fprintf(f.stderr(), "WARNING: skipped %d of %d SQS queues whose attributes could not be fetched\n", skipped, queueCount)
	}

	report := sqsstatus.NewReport(gathered.Statuses, flgs.All)
	if flgs.Output == outputJSON {
		err = printStatusJSON(stdout, queueCount, report)
	} else {
		err = report.Render(stdout, sqsstatus.Style{Color: !flgs.NoColor && f.isTerminal()})
	}
	if err != nil {
		return err
	}

	if flgs.MetricsFile != "" {
		if err := sqsstatus.WriteMetricsFile(flgs.MetricsFile, gathered.Statuses, f.now()); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		logger.DebugContext(ctx, "wrote metrics file", slog.String("path", flgs.MetricsFile))
	}
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	if level == "" {
		level = os.Getenv(constant.LogLevelEnv)
	}
	if level == "" {
		level = constant.DefaultLogLevel
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func (f CommandFactory) stdout() io.Writer {
	if f.Stdout != nil {
		return f.Stdout
	}
	return os.Stdout
}

func (f CommandFactory) stderr() io.Writer {
	if f.Stderr != nil {
		return f.Stderr
	}
	return os.Stderr
}

func (f CommandFactory) isTerminal() bool {
	if f.IsTerminal != nil {
		return f.IsTerminal()
	}
	return false
}

func (f CommandFactory) now() time.Time {
	if f.Clock != nil {
		return f.Clock.Now()
	}
	return clock.Now()
}

func Execute() {
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setFlags(root, flgs)
}
