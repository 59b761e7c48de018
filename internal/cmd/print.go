package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vvatanabe/sqsstatus"
)

func printMessageWithData(w io.Writer, message string, data any) error {
	dump, err := marshalIndent(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s%s\n", message, dump)
	return err
}

func marshalIndent(v any) ([]byte, error) {
	dump, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return dump, nil
}

func printError(w io.Writer, err any) {
	fmt.Fprintf(w, "ERROR: %v\n", err)
}

type StatusResult struct {
	QueueCount int             `json:"queue_count"`
	Queues     []sqsstatus.Row `json:"queues"`
}

func printStatusJSON(w io.Writer, queueCount int, report *sqsstatus.Report) error {
	result := StatusResult{
		QueueCount: queueCount,
		Queues:     []sqsstatus.Row{},
	}
	if report != nil {
		result.Queues = append(result.Queues, report.Rows()...)
	}
	return printMessageWithData(w, "", result)
}
