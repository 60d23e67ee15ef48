package activityservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

// BrokerRecorder publishes activity entries to the message broker. Record is
// fire-and-forget: a broker failure is logged and swallowed so that the
// operation being recorded is never failed by its own audit trail.
type BrokerRecorder struct {
	mb     common.MessageProducer
	logger ActivityLogger
}

func NewBrokerRecorder(mb common.MessageProducer, logger ActivityLogger) *BrokerRecorder {
	return &BrokerRecorder{mb: mb, logger: logger}
}

func (r *BrokerRecorder) Record(userID int, activity string) {
	event, err := json.Marshal(activityEvent{UserID: userID, Activity: activity})
	if err != nil {
		r.logger.Error("could not marshal activity event", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = r.mb.Publish(ctx, event, common.ActivityRecordedKey, common.ActivityExchange)
	if err != nil {
		r.logger.Error("could not publish activity event", slog.String("error", err.Error()), slog.Int("user_id", userID))
	}
}
