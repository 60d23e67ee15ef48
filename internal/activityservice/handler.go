package activityservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

func NewActivityService(db *sql.DB, logger ActivityLogger) *ActivityService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ActivityService{
		m:      newActivityModel(db),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ConsumeActivity drains the activity queue and persists each entry. Bad
// payloads are acked and dropped; insert failures are nacked for redelivery.
func (s *ActivityService) ConsumeActivity(mb common.MessageConsumer) {
	msgs, err := mb.Consume(common.ActivityRecordedKey, common.ActivityExchange, common.ActivityRecordedQueue)
	if err != nil {
		s.logger.Error("could not consume activity messages", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event activityEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					s.logger.Error("could not unmarshal activity event", slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				if err := s.m.insert(s.ctx, event.UserID, event.Activity); err != nil {
					s.logger.Error("could not persist activity event", slog.String("error", err.Error()), slog.Int("user_id", event.UserID))
					msg.Nack(false, true)
					continue
				}

				msg.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping ConsumeActivity due to context cancellation")
				return
			}
		}
	}()
}

func (s *ActivityService) Close() {
	s.cancel()
}

// LogFilters carries the pagination parameters for the per-user activity log.
// Absent date bounds each default to today.
type LogFilters struct {
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

type Metadata struct {
	PageSize  int `json:"page_size"`
	Page      int `json:"page"`
	TotalData int `json:"total_data"`
	TotalPage int `json:"total_page"`
}

// logWindow widens the filters to [startOfDay(start), endOfDay(end)], taking
// today for either missing bound.
func logWindow(f LogFilters, now time.Time) (time.Time, time.Time, error) {
	start := now
	if f.StartDate != "" {
		parsed, err := time.Parse(common.DateLayout, f.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	end := now
	if f.EndDate != "" {
		parsed, err := time.Parse(common.DateLayout, f.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999000000, end.Location())

	return from, to, nil
}

func (s *ActivityService) GetLogs(ctx context.Context, userID int, f LogFilters) ([]ActivityLog, Metadata, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}

	v := common.NewValidator()
	v.Check(userID > 0, "user_id", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be at most 100")
	if f.StartDate != "" {
		v.Check(v.CheckDate(f.StartDate), "start_date", "must be type date in yyyy-mm-dd format")
	}
	if f.EndDate != "" {
		v.Check(v.CheckDate(f.EndDate), "end_date", "must be type date in yyyy-mm-dd format")
	}
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	from, to, err := logWindow(f, time.Now())
	if err != nil {
		return nil, Metadata{}, err
	}

	offset := (f.Page - 1) * f.PageSize

	logs, err := s.m.list(ctx, userID, from, to, f.PageSize, offset)
	if err != nil {
		return nil, Metadata{}, err
	}

	total, err := s.m.count(ctx, userID, from, to)
	if err != nil {
		return nil, Metadata{}, err
	}

	totalPage := 0
	if total > 0 {
		totalPage = (total + f.PageSize - 1) / f.PageSize
	}

	meta := Metadata{
		PageSize:  f.PageSize,
		Page:      f.Page,
		TotalData: total,
		TotalPage: totalPage,
	}

	return logs, meta, nil
}
