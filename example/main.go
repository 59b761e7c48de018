package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/vvatanabe/sqsstatus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------------------------
	// Create sqsstatus Client
	// ------------------------------
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		panic("failed to load aws config")
	}
	client, err := sqsstatus.NewFromConfig(cfg,
		sqsstatus.WithConcurrency(32),
		sqsstatus.WithFailureMode(sqsstatus.FailureModeSkip),
		sqsstatus.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	if err != nil {
		panic("SQS client could not be created!")
	}

	// ------------------------------
	// List and gather
	// ------------------------------
	listed, err := client.ListQueueURLs(ctx, &sqsstatus.ListQueueURLsInput{})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	gathered, err := client.GatherQueueStatuses(ctx, &sqsstatus.GatherQueueStatusesInput{
		QueueURLs: listed.QueueURLs,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// ------------------------------
	// Report dead-letter queues only
	// ------------------------------
	for _, row := range sqsstatus.NewReport(gathered.Statuses, true).Rows() {
		if row.IsDeadLetterQueue {
			fmt.Printf("%s: %s available\n", row.Name, row.Available)
		}
	}
}
