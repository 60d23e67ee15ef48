package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adiwicaksono/warta/internal/activityservice"
	"github.com/adiwicaksono/warta/internal/categoryservice"
	"github.com/adiwicaksono/warta/internal/common"
	"github.com/adiwicaksono/warta/internal/postservice"
	"github.com/adiwicaksono/warta/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	rabbitURI := common.TestRabbitMQ(t)
	broker, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	assert.NoError(t, common.SetupUserExchange(broker))
	assert.NoError(t, common.SetupActivityExchange(broker))

	cfg := &Config{
		Port:           ":0",
		Environment:    "test",
		Version:        "test",
		BaseURL:        "http://localhost:8080",
		LimiterEnabled: false,
	}

	cache := common.NewMemoryCache(5*time.Minute, 10*time.Minute)
	recorder := activityservice.NewBrokerRecorder(broker, logger)

	app := &application{
		config:          cfg,
		logger:          logger,
		loc:             time.UTC,
		userService:     userservice.NewUserService(db, broker, cache),
		postService:     postservice.NewPostService(db, cache, recorder, time.UTC),
		categoryService: categoryservice.NewCategoryService(db),
		activityService: activityservice.NewActivityService(db, logger),
		broker:          broker,
	}

	app.activityService.ConsumeActivity(broker)

	t.Cleanup(func() {
		app.activityService.Close()
		broker.Close()
	})

	return app, db
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, token *string) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, nil, token)
}

func (ts *testServer) post(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, payload, token)
}

func (ts *testServer) put(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, payload, token)
}

func (ts *testServer) patch(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPatch, path, payload, token)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, nil, token)
}
