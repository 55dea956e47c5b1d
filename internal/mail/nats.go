package mail

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// SubjectSend is the queue the delivery worker subscribes to.
const SubjectSend = "mail.send"

// NatsSender queues mail on NATS for out-of-process delivery by the worker.
type NatsSender struct {
	conn *nats.Conn
}

func NewNatsSender(natsURL string) (*NatsSender, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &NatsSender{conn: nc}, nil
}

func (s *NatsSender) Send(_ context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.conn.Publish(SubjectSend, data)
}
