package notifications

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/pkg/outbox"
)

// LogDispatcher is the notification sink used when no real transport is
// configured. It renders each outbox message to the structured log, which is
// enough for operators to trace deliveries end to end.
type LogDispatcher struct {
	logger *logrus.Logger
}

func NewLogDispatcher(logger *logrus.Logger) outbox.Dispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, msg outbox.Message) error {
	payload := map[string]any{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return err
	}
	d.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"event_type": msg.EventType,
		"attempts":   msg.Attempts,
		"payload":    payload,
	}).Info("notification dispatched")
	return nil
}
