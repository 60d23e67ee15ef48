package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/adiwicaksono/warta/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, baseURL string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:      mb,
		m:       NewMailer(host, port, username, password, sender, NewTemplate()),
		baseURL: baseURL,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SendActivationEmail consumes user.created events and emails each new user
// an activation link. Delivery is retried with exponential backoff and
// jitter; a message that exhausts its retries is acked and dropped so it
// cannot wedge the queue.
func (s *MailService) SendActivationEmail() {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					Email string
					Token string
				}

				if err := json.Unmarshal(msg.Body, &data); err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					_ = msg.Ack(false)
					continue
				}

				payload := struct {
					ActivationURL string
				}{
					ActivationURL: s.baseURL + "/v1/users/activate/" + data.Token,
				}

				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err := s.m.send(data.Email, payload, "activation_email.html")
					if err == nil {
						s.logger.Info("activation email sent", slog.String("email", data.Email))
						_ = msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying activation email", slog.String("email", data.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send activation email", slog.String("email", data.Email))
					_ = msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping activation email consumer")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
