package summarize

import (
	"context"
	"fmt"
)

// Provider turns section text into a summary via a hosted model.
type Provider interface {
	// Summarize returns a summary of the given text.
	Summarize(ctx context.Context, text string) (string, error)
	// Model reports the configured model name.
	Model() string
	// Stats reports recent call latencies.
	Stats() StatsSnapshot
	// Close releases resources.
	Close()
}

// summaryPrompt frames the request sent to every provider.
const summaryPrompt = "Summarize the following content by highlighting the key takeaways:\n\n"

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
