package mailservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendActivationEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	expectedArgs := []interface{}{slog.Attr{Key: "email", Value: slog.StringValue("test@example.com")}}
	mockLogger.On("Info", "activation email sent", expectedArgs).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:      mockMC,
		m:       mockMailer,
		baseURL: "http://localhost:8080",
		logger:  mockLogger,
		ctx:     ctx,
		cancel:  cancel,
	}

	s.SendActivationEmail()

	assert.Eventually(t, mockMailer.IsCalled, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, "test@example.com", mockMailer.GetEmail())

	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
