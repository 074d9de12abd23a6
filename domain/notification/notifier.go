/*
Package notification defines the outbound notification capability.

Like a Repository, a Notifier is a port: intents depend on the interface and
the composition root decides which provider (log, webhook, in-memory) backs it.
*/
package notification

import "context"

// Notifier sends a message to a recipient
type Notifier interface {
	Send(ctx context.Context, recipient string, message string) error
}
