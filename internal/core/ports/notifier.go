package ports

import "context"

// Notifier delivers a message out of band.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
