package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"
	"github.com/vvatanabe/sqsstatus"
	"github.com/vvatanabe/sqsstatus/internal/cmd"
	"github.com/vvatanabe/sqsstatus/internal/mock"
	"github.com/vvatanabe/sqsstatus/internal/test"
)

type output struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newCommandFactory(api sqsstatus.SQSAPI, out *output) cmd.CommandFactory {
	return cmd.CommandFactory{
		CreateSQSStatusClient: func(ctx context.Context, flags *cmd.Flags, logger *slog.Logger) (sqsstatus.Client, aws.Config, error) {
			client, err := cmd.NewSQSStatusClient(aws.Config{}, flags, logger, sqsstatus.WithAWSSQSClient(api))
			return client, aws.Config{}, err
		},
		Stdout: &out.stdout,
		Stderr: &out.stderr,
		Clock:  mock.Clock{T: time.Unix(1700000000, 0)},
	}
}

func newFleet() mock.SQS {
	return mock.SQS{
		ListQueuesFunc: mock.Pages(
			[]string{test.QueueURL("orders"), test.QueueURL("idle")},
			[]string{test.QueueURL("orders-dlq")},
		),
		GetQueueAttributesFunc: mock.Attributes(map[string]map[string]string{
			test.QueueURL("orders"): {
				"ApproximateNumberOfMessages":           "4",
				"ApproximateNumberOfMessagesNotVisible": "1",
				"RedrivePolicy":                         test.RedrivePolicy("orders-dlq"),
			},
			test.QueueURL("idle"): {},
			test.QueueURL("orders-dlq"): {
				"ApproximateNumberOfMessages": "2",
			},
		}),
	}
}

func TestRunRootCommand(t *testing.T) {
	type testCase struct {
		name       string
		api        mock.SQS
		flags      func(f *cmd.Flags)
		wantStdout string
		wantStderr string
		wantErr    error
	}
	tests := []testCase{
		{
			name: "should print queues with in flight messages",
			api:  newFleet(),
			wantStdout: "" +
				"Found 3 SQS queues\n" +
				"available  delayed  not_visible  name  (each name marked * can be redriven)\n" +
				"        4        0            1  orders\n" +
				"        2        0            0  orders-dlq *\n",
		},
		{
			name:  "should print all queues",
			api:   newFleet(),
			flags: func(f *cmd.Flags) { f.All = true },
			wantStdout: "" +
				"Found 3 SQS queues\n" +
				"available  delayed  not_visible  name  (each name marked * can be redriven)\n" +
				"        0        0            0  idle\n" +
				"        4        0            1  orders\n" +
				"        2        0            0  orders-dlq *\n",
		},
		{
			name: "should report when there are no in flight messages",
			api: mock.SQS{
				ListQueuesFunc:         mock.Pages([]string{test.QueueURL("idle")}),
				GetQueueAttributesFunc: mock.Attributes(nil),
			},
			wantStdout: "Found 1 SQS queues\nNo in flight messages found in any queues.\n",
		},
		{
			name: "should not gather when there are no queues",
			api: mock.SQS{
				ListQueuesFunc: mock.Pages(),
			},
			wantStdout: "No SQS queues found\n",
		},
		{
			name: "should return error when listing fails",
			api: mock.SQS{
				ListQueuesFunc: func(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error) {
					return nil, test.ErrorTest
				},
			},
			wantErr: test.ErrorTest,
		},
		{
			name: "should return error without a table when one queue fails",
			api: mock.SQS{
				ListQueuesFunc: mock.Pages([]string{test.QueueURL("a"), test.QueueURL("b")}),
				GetQueueAttributesFunc: func(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
					if aws.ToString(params.QueueUrl) == test.QueueURL("b") {
						return nil, test.ErrorTest
					}
					return &sqs.GetQueueAttributesOutput{Attributes: map[string]string{"ApproximateNumberOfMessages": "1"}}, nil
				},
			},
			wantStdout: "Found 2 SQS queues\n",
			wantErr:    test.ErrorTest,
		},
		{
			name: "should skip failed queues when skip errors is set",
			api: mock.SQS{
				ListQueuesFunc: mock.Pages([]string{test.QueueURL("a"), test.QueueURL("b")}),
				GetQueueAttributesFunc: func(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
					if aws.ToString(params.QueueUrl) == test.QueueURL("b") {
						return nil, test.ErrorTest
					}
					return &sqs.GetQueueAttributesOutput{Attributes: map[string]string{"ApproximateNumberOfMessages": "1"}}, nil
				},
			},
			flags: func(f *cmd.Flags) { f.SkipErrors = true },
			wantStdout: "" +
				"Found 2 SQS queues\n" +
				"available  delayed  not_visible  name  (each name marked * can be redriven)\n" +
				"        1        0            0  a\n",
			wantStderr: "WARNING: skipped 1 of 2 SQS queues whose attributes could not be fetched\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out output
			flgs := cmd.DefaultFlags()
			flgs.LogLevel = "error"
			if tt.flags != nil {
				tt.flags(flgs)
			}
			err := newCommandFactory(tt.api, &out).CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RunE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := out.stdout.String(); got != tt.wantStdout {
				t.Errorf("RunE() stdout =\n%s\nwant\n%s", got, tt.wantStdout)
			}
			if got := out.stderr.String(); got != tt.wantStderr {
				t.Errorf("RunE() stderr = %q, want %q", got, tt.wantStderr)
			}
		})
	}
}

func TestRunRootCommandShouldReturnCommandFactoryError(t *testing.T) {
	f := cmd.CommandFactory{
		CreateSQSStatusClient: func(ctx context.Context, flags *cmd.Flags, logger *slog.Logger) (sqsstatus.Client, aws.Config, error) {
			return nil, aws.Config{}, test.ErrorTest
		},
		Stdout: &bytes.Buffer{},
	}
	if err := f.CreateRootCommand(cmd.DefaultFlags()).RunE(&cobra.Command{}, []string{}); !errors.Is(err, test.ErrorTest) {
		t.Errorf("RunE() error = %v, want %v", err, test.ErrorTest)
	}
}

func TestRunRootCommandShouldReturnErrorForInvalidFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags func(f *cmd.Flags)
	}{
		{"unknown output", func(f *cmd.Flags) { f.Output = "xml" }},
		{"unknown log level", func(f *cmd.Flags) { f.LogLevel = "loud" }},
		{"zero concurrency", func(f *cmd.Flags) { f.Concurrency = 0 }},
		{"missing config file", func(f *cmd.Flags) { f.Config = filepath.Join(t.TempDir(), "missing.yaml") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out output
			flgs := cmd.DefaultFlags()
			tt.flags(flgs)
			if err := newCommandFactory(newFleet(), &out).CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{}); err == nil {
				t.Error("RunE() error should not be nil")
			}
			if out.stdout.Len() != 0 {
				t.Errorf("RunE() stdout = %q, want empty", out.stdout.String())
			}
		})
	}
}

func TestRunRootCommandJSONOutput(t *testing.T) {
	tests := []struct {
		name string
		api  mock.SQS
		want cmd.StatusResult
	}{
		{
			name: "should print rows as json",
			api:  newFleet(),
			want: cmd.StatusResult{
				QueueCount: 3,
				Queues: []sqsstatus.Row{
					{Available: "4", Delayed: "0", NotVisible: "1", Name: "orders", URL: test.QueueURL("orders"), DeadLetterQueue: "orders-dlq"},
					{Available: "2", Delayed: "0", NotVisible: "0", Name: "orders-dlq", URL: test.QueueURL("orders-dlq"), IsDeadLetterQueue: true},
				},
			},
		},
		{
			name: "should print an empty list when there are no queues",
			api:  mock.SQS{ListQueuesFunc: mock.Pages()},
			want: cmd.StatusResult{Queues: []sqsstatus.Row{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out output
			flgs := cmd.DefaultFlags()
			flgs.Output = "json"
			if err := newCommandFactory(tt.api, &out).CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{}); err != nil {
				t.Fatalf("RunE() error = %v", err)
			}
			var got cmd.StatusResult
			if err := json.Unmarshal(out.stdout.Bytes(), &got); err != nil {
				t.Fatalf("json.Unmarshal() error = %v, stdout = %s", err, out.stdout.String())
			}
			if got.QueueCount != tt.want.QueueCount || len(got.Queues) != len(tt.want.Queues) {
				t.Fatalf("RunE() json = %+v, want %+v", got, tt.want)
			}
			for i := range got.Queues {
				if got.Queues[i] != tt.want.Queues[i] {
					t.Errorf("RunE() queues[%d] = %+v, want %+v", i, got.Queues[i], tt.want.Queues[i])
				}
			}
		})
	}
}

func TestRunRootCommandColor(t *testing.T) {
	var out output
	f := newCommandFactory(newFleet(), &out)
	f.IsTerminal = func() bool { return true }
	flgs := cmd.DefaultFlags()
	if err := f.CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{}); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
	if !strings.Contains(out.stdout.String(), "\x1b[3morders-dlq") {
		t.Errorf("RunE() stdout = %q, want italic orders-dlq", out.stdout.String())
	}

	out = output{}
	flgs.NoColor = true
	if err := f.CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{}); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
	if strings.Contains(out.stdout.String(), "\x1b[") {
		t.Errorf("RunE() stdout = %q, want no escape codes", out.stdout.String())
	}
}

func TestRunRootCommandWritesMetricsFile(t *testing.T) {
	var out output
	flgs := cmd.DefaultFlags()
	flgs.MetricsFile = filepath.Join(t.TempDir(), "sqs_status.prom")
	if err := newCommandFactory(newFleet(), &out).CreateRootCommand(flgs).RunE(&cobra.Command{}, []string{}); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
	b, err := os.ReadFile(flgs.MetricsFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{
		`sqs_status_queue_messages{queue="orders",state="available"} 4`,
		`sqs_status_queue_is_dead_letter{queue="orders-dlq"} 1`,
		`sqs_status_queues 3`,
		`sqs_status_last_run_timestamp_seconds 1.7e+09`,
	} {
		if !strings.Contains(string(b), want) {
			t.Errorf("metrics file does not contain %q:\n%s", want, b)
		}
	}
}

func TestRunRootCommandWithArgs(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sqs-status.yaml")
	err := os.WriteFile(configPath, []byte("all: true\noutput: json\nconcurrency: 2\n"), 0o600)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	type testCase struct {
		name      string
		args      []string
		wantRows  int
		wantJSON  bool
		wantError bool
	}
	tests := []testCase{
		{name: "should use flag defaults", args: []string{}, wantRows: 2},
		{name: "should parse the short all flag", args: []string{"-a"}, wantRows: 3},
		{name: "should read the config file", args: []string{"--config", configPath}, wantRows: 3, wantJSON: true},
		{name: "should prefer flags over the config file", args: []string{"--config", configPath, "-o", "text"}, wantRows: 3},
		{name: "should reject positional arguments", args: []string{"extra"}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out output
			flgs := &cmd.Flags{LogLevel: "error"}
			c := newCommandFactory(newFleet(), &out).CreateRootCommand(flgs)
			cmd.SetFlags(c, flgs)
			c.SetArgs(tt.args)
			c.SetOut(&out.stdout)
			c.SetErr(&out.stderr)
			err := c.Execute()
			if (err != nil) != tt.wantError {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantError)
			}
			if tt.wantError {
				return
			}
			if tt.wantJSON {
				var got cmd.StatusResult
				if err := json.Unmarshal(out.stdout.Bytes(), &got); err != nil {
					t.Fatalf("json.Unmarshal() error = %v", err)
				}
				if len(got.Queues) != tt.wantRows {
					t.Errorf("Execute() rows = %d, want %d", len(got.Queues), tt.wantRows)
				}
				return
			}
			// count line and header come before the rows
			lines := strings.Split(strings.TrimSuffix(out.stdout.String(), "\n"), "\n")
			if len(lines)-2 != tt.wantRows {
				t.Errorf("Execute() stdout =\n%s\nwant %d rows", out.stdout.String(), tt.wantRows)
			}
		})
	}
}
