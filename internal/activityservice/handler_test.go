package activityservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adiwicaksono/warta/internal/common"
)

func TestLogWindow_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

	from, to, err := logWindow(LogFilters{}, now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 5, 17, 23, 59, 59, 999000000, time.UTC), to)
}

func TestLogWindow_ExplicitBounds(t *testing.T) {
	now := time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

	from, to, err := logWindow(LogFilters{StartDate: "2024-05-01", EndDate: "2024-05-10"}, now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 5, 10, 23, 59, 59, 999000000, time.UTC), to)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(ctx, msg, key, exchange)
	return args.Error(0)
}

func TestBrokerRecorder_Record(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, common.ActivityRecordedKey, common.ActivityExchange).Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewBrokerRecorder(producer, logger)

	r.Record(42, "create post 7")

	producer.AssertNumberOfCalls(t, "Publish", 1)
}

func TestBrokerRecorder_SwallowsBrokerFailure(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, common.ActivityRecordedKey, common.ActivityExchange).Return(errors.New("broker down"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewBrokerRecorder(producer, logger)

	// must not panic or surface the error
	r.Record(42, "delete post 7")

	producer.AssertNumberOfCalls(t, "Publish", 1)
}
