package sqsstatus

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

const (
	noInFlightMessages = "No in flight messages found in any queues."
	plainMarker        = "*"
)

// Row is one line of the status table.
type Row struct {
	Available  string `json:"available"`
	Delayed    string `json:"delayed"`
	NotVisible string `json:"not_visible"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	// DeadLetterQueue is the name of the queue this queue redrives into.
	DeadLetterQueue string `json:"dead_letter_queue,omitempty"`
	// IsDeadLetterQueue is true when another queue redrives into this one.
	IsDeadLetterQueue bool `json:"is_dead_letter_queue"`
}

// Report is the status table computed from gathered queue statuses.
type Report struct {
	rows []Row
}

// NewReport sorts the statuses, marks the queues other queues redrive into, and keeps
// the queues with in-flight messages, or all of them when showAll is set.
// Sorting compares every field as text, so counters are not ordered numerically.
func NewReport(statuses []QueueStatus, showAll bool) *Report {
	sorted := make([]QueueStatus, len(statuses))
	copy(sorted, statuses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].compare(sorted[j]) < 0
	})

	deadLetterQueueNames := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		deadLetterQueueNames[s.DeadLetterQueueName] = struct{}{}
	}

	rows := make([]Row, 0, len(sorted))
	for _, s := range sorted {
		if !showAll && !s.HasInFlightMessages() {
			continue
		}
		name := s.Name()
		_, isDLQ := deadLetterQueueNames[name]
		rows = append(rows, Row{
			Available:         s.Available,
			Delayed:           s.Delayed,
			NotVisible:        s.NotVisible,
			Name:              name,
			URL:               s.URL,
			DeadLetterQueue:   s.DeadLetterQueueName,
			IsDeadLetterQueue: isDLQ,
		})
	}
	return &Report{rows: rows}
}

// Rows returns the rows in display order.
func (r *Report) Rows() []Row {
	return r.rows
}

// Style controls how a Report is rendered.
type Style struct {
	// Color enables ANSI bold headers and italic dead-letter queue names.
	// Without it dead-letter queue names are followed by " *".
	Color bool
}

// Render writes the table, or a single line when there is nothing to report.
func (r *Report) Render(w io.Writer, style Style) error {
	if len(r.rows) == 0 {
		_, err := fmt.Fprintln(w, noInFlightMessages)
		return err
	}
	bold := color.New(color.Bold)
	italic := color.New(color.Italic)
	if style.Color {
		bold.EnableColor()
		italic.EnableColor()
	} else {
		bold.DisableColor()
		italic.DisableColor()
	}

	legend := "(each " + italic.Sprint("name in italic") + " can be redriven)"
	if !style.Color {
		legend = "(each name marked " + plainMarker + " can be redriven)"
	}
	if _, err := fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		bold.Sprintf("%9s", "available"),
		bold.Sprintf("%7s", "delayed"),
		bold.Sprintf("%11s", "not_visible"),
		bold.Sprint("name"),
		legend,
	); err != nil {
		return err
	}

	for _, row := range r.rows {
		name := row.Name
		if row.IsDeadLetterQueue {
			if style.Color {
				name = italic.Sprint(name)
			} else {
				name += " " + plainMarker
			}
		}
		if _, err := fmt.Fprintf(w, "%9s  %7s  %11s  %s\n", row.Available, row.Delayed, row.NotVisible, name); err != nil {
			return err
		}
	}
	return nil
}
