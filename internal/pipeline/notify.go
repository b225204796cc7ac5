package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
)

// simulateNotifications records one notification event per follow-up message.
// No network egress happens here; a real dispatcher would slot in behind the
// same event shape. A message without a recipient address is recorded as
// failed rather than dropped, so the event log always matches the message
// list one to one.
func (p *Pipeline) simulateNotifications(_ context.Context, _ gateway.Completer, state *model.ProcessingState) error {
	if len(state.FollowUpMessages) == 0 {
		state.AddNote("Stage 6: No messages to trigger")
		return nil
	}

	events := make([]model.NotificationEvent, 0, len(state.FollowUpMessages))
	for _, msg := range state.FollowUpMessages {
		status := model.NotificationSimulated
		if msg.ToEmail == "" {
			status = model.NotificationFailed
		}
		event := model.NotificationEvent{
			To:          msg.ToEmail,
			ToName:      msg.ToName,
			Subject:     msg.Subject,
			Body:        msg.Body,
			Status:      status,
			TriggeredAt: p.now(),
		}
		events = append(events, event)

		zap.L().Info("notification simulated",
			zap.String("to", event.To),
			zap.String("to_name", event.ToName),
			zap.String("subject", event.Subject),
			zap.String("status", string(event.Status)),
		)
	}

	state.NotificationEvents = events
	state.AddNote("Stage 6: Simulated %d notifications", len(events))

	return nil
}
