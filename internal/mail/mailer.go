package mail

import "context"

// Mailer dispatches outbound mail. Implementations are constructed at
// startup and injected; nothing in this package holds package-level state.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
