package activityservice

import (
	"context"
	"database/sql"
	"time"
)

type ActivityLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Activity  string    `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

type activityEvent struct {
	UserID   int    `json:"user_id"`
	Activity string `json:"activity"`
}

type ActivityLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type ActivityModel struct {
	db *sql.DB
}

type ActivityService struct {
	m      *ActivityModel
	logger ActivityLogger
	ctx    context.Context
	cancel context.CancelFunc
}
