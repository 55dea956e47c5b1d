// Package mail defines the outbound email contract the core consumes and the
// transports that satisfy it.
package mail

import "context"

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
