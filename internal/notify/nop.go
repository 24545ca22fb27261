package notify

import "context"

// NopPublisher discards warnings. Used when no broker is configured; the
// scheduler still logs every fired warning.
type NopPublisher struct{}

// PublishWarning drops the event.
func (NopPublisher) PublishWarning(ctx context.Context, event WarningEvent) error {
	return nil
}
