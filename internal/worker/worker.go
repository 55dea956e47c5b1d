// Package worker delivers mail queued on NATS by the API service, so SES
// round-trips never sit on the request path.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"contacts-service/internal/mail"
)

type Worker struct {
	natsConn *nats.Conn
	sender   mail.Sender
}

func Start(natsURL string, sender mail.Sender) (*Worker, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	w := &Worker{natsConn: nc, sender: sender}

	if _, err := nc.QueueSubscribe(mail.SubjectSend, "mail-workers", w.handleMailSend); err != nil {
		nc.Close()
		return nil, err
	}

	return w, nil
}

func (w *Worker) handleMailSend(msg *nats.Msg) {
	var m mail.Message
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		slog.Error("Error unmarshalling mail message", "error", err)
		return
	}

	if err := w.sender.Send(context.Background(), &m); err != nil {
		slog.Error("Failed to deliver mail", "to", m.To, "error", err)
		return
	}

	slog.Info("Mail delivered", "to", m.To, "subject", m.Subject)
}

func (w *Worker) Close() {
	w.natsConn.Close()
}
