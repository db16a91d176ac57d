package telegram

import (
	"context"

	"golang-market-etl/internal/etl/service"
)

// RunNotifier sends pipeline run reports through a Notifier.
type RunNotifier struct {
	notifier Notifier
}

// NewRunNotifier creates a RunNotifier.
func NewRunNotifier(notifier Notifier) *RunNotifier {
	return &RunNotifier{notifier: notifier}
}

// NotifyRun sends the formatted report.
func (n *RunNotifier) NotifyRun(_ context.Context, report *service.RunReport) error {
	return n.notifier.SendMessage(FormatRunReport(report))
}
